package keccak

import "encoding/binary"

// P1600 applies the Keccak-f[1600] permutation to a byte-addressed state. Lanes are little-endian per FIPS-202.
func P1600(state *[200]byte) {
	var a [25]uint64
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(state[i*8:])
	}
	F1600(&a)
	for i := range a {
		binary.LittleEndian.PutUint64(state[i*8:], a[i])
	}
}
