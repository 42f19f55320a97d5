package testdata

// Size is a named payload length for benchmarks.
type Size struct {
	Name string
	N    int
}

// Sizes spans one keystream batch up to several parallel rounds.
var Sizes = []Size{
	{"1KiB", 1024},
	{"64KiB", 64 * 1024},
	{"1MiB", 1024 * 1024},
}
