package keccak

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestF1600ZeroState(t *testing.T) {
	var a [25]uint64
	F1600(&a)

	// First lane of Keccak-f[1600] applied to the all-zero state, per the Keccak team's
	// published intermediate values.
	if got, want := a[0], uint64(0xF1258F7940E1DDE7); got != want {
		t.Errorf("lane 0 = %016x, want %016x", got, want)
	}
}

func TestF1600Deterministic(t *testing.T) {
	var a, b [25]uint64
	a[3] = 0x0123456789abcdef
	b[3] = 0x0123456789abcdef

	F1600(&a)
	F1600(&b)

	if a != b {
		t.Error("identical states diverged")
	}

	F1600(&b)
	if a == b {
		t.Error("second permutation did not change the state")
	}
}

func TestP1600MatchesF1600(t *testing.T) {
	var s [200]byte
	for i := range s {
		s[i] = byte(i)
	}

	var a [25]uint64
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(s[i*8:])
	}

	P1600(&s)
	F1600(&a)

	var want [200]byte
	for i := range a {
		binary.LittleEndian.PutUint64(want[i*8:], a[i])
	}

	if !bytes.Equal(s[:], want[:]) {
		t.Error("byte-addressed permutation diverged from the lane form")
	}
}
