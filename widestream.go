// Package widestream implements the ACS and RWS wide-block authenticated stream ciphers.
//
// Both ciphers pair a wide-block keystream permutation with a KMAC authenticator and derive all
// round keys and the MAC key from a single cSHAKE key expansion. ACS operates on a 32-byte block
// built from two 128-bit half-blocks mixed by a byte blend and shuffle with an AES round applied
// to each half; RWS operates on a 64-byte block with a 512-bit-wide Rijndael round. Keystream
// generation runs in counter mode and is parallelised across worker goroutines with striped
// counters, so ciphertext is identical for every parallel degree.
//
// A cipher instance is single-writer: calls on one instance must not be interleaved from multiple
// goroutines. Transform input and output buffers must not overlap.
//
// The supporting primitives live in hazmat: the Keccak permutation, the SHAKE/cSHAKE XOF with the
// widened SHAKE512 and SHAKE1024 modes, and KMAC.
package widestream
