package widestream

import "github.com/klauspost/cpuid/v2"

// wideBlocks is the number of blocks the keystream generator batches per permutation call,
// selected once from the host vector width. The fan-out is a throughput choice only: every width
// produces identical keystream bytes.
var wideBlocks = detectWideBlocks()

func detectWideBlocks() int {
	switch {
	case cpuid.CPU.Has(cpuid.AVX512F):
		return 16
	case cpuid.CPU.Has(cpuid.AVX2):
		return 8
	case cpuid.CPU.Has(cpuid.SSE2), cpuid.CPU.Has(cpuid.ASIMD):
		return 4
	default:
		return 1
	}
}
