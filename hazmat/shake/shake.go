// Package shake implements the SHAKE and cSHAKE eXtendable-Output Functions from FIPS-202 and NIST SP 800-185.
//
// Beyond the standard SHAKE128 and SHAKE256 modes, the package provides the widened SHAKE512 and SHAKE1024
// variants used by the wide-block stream ciphers. Their rates (72 and 36 bytes) are fixed constants of this
// library; the SHAKE1024 rate matches the KMAC1024 rate.
package shake

import (
	"encoding/binary"
	"math/bits"

	"github.com/ewardell/widestream/hazmat/keccak"
	"github.com/ewardell/widestream/internal/mem"
)

// Mode selects the sponge rate and capacity.
type Mode byte

// XOF modes. The zero value None is not usable.
const (
	None Mode = iota
	SHAKE128
	SHAKE256
	SHAKE512
	SHAKE1024
)

// Rate returns the absorption and squeeze rate of the mode in bytes.
func (m Mode) Rate() int {
	switch m {
	case SHAKE128:
		return 168
	case SHAKE256:
		return 136
	case SHAKE512:
		return 72
	case SHAKE1024:
		return 36
	}
	return 0
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case SHAKE128:
		return "SHAKE128"
	case SHAKE256:
		return "SHAKE256"
	case SHAKE512:
		return "SHAKE512"
	case SHAKE1024:
		return "SHAKE1024"
	}
	return "None"
}

// Domain separation bytes for plain SHAKE and cSHAKE.
const (
	dsShake  = 0x1F
	dsCShake = 0x04
)

// XOF is an incremental SHAKE/cSHAKE instance. Writes absorb data into the sponge and reads squeeze output
// from it. Once Read is called, no further writes are permitted until Reset.
type XOF struct {
	s         [200]byte
	rate      int
	pos       int
	ds        byte
	squeezing bool
}

// New returns a new XOF in the given mode, ready to absorb as plain SHAKE.
func New(m Mode) *XOF {
	return &XOF{rate: m.Rate(), ds: dsShake}
}

// Initialize keys the XOF with cSHAKE(key, S=custom, N=name) and leaves it ready to squeeze.
// When both custom and name are empty the function degrades to plain SHAKE per SP 800-185.
//
// The argument order follows the keying convention of the cipher key schedule: the key is the
// main input string X, name is the NIST function-name bit string N, and custom is the user
// customization string S.
func (x *XOF) Initialize(key, custom, name []byte) {
	x.Reset()
	if len(custom) != 0 || len(name) != 0 {
		x.ds = dsCShake
		n := 0
		n += x.writeLeftEncode(uint64(x.rate))
		n += x.writeEncodeString(name)
		n += x.writeEncodeString(custom)
		if pad := x.rate - n%x.rate; pad < x.rate {
			var zeros [200]byte
			_, _ = x.Write(zeros[:pad])
		}
	}
	_, _ = x.Write(key)
}

// Generate fills out with squeezed output. It may be called repeatedly; successive calls continue
// the same output stream.
func (x *XOF) Generate(out []byte) {
	_, _ = x.Read(out)
}

// Reset returns the XOF to the unkeyed plain-SHAKE state.
func (x *XOF) Reset() {
	clear(x.s[:])
	x.pos = 0
	x.ds = dsShake
	x.squeezing = false
}

// Rate returns the sponge rate in bytes.
func (x *XOF) Rate() int {
	return x.rate
}

// Write absorbs p into the sponge state. It must not be called after Read.
func (x *XOF) Write(p []byte) (int, error) {
	if x.squeezing {
		panic("shake: write after read")
	}
	n := len(p)
	for len(p) > 0 {
		w := min(x.rate-x.pos, len(p))
		mem.XORInPlace(x.s[x.pos:x.pos+w], p[:w])
		x.pos += w
		p = p[w:]
		if x.pos == x.rate {
			keccak.P1600(&x.s)
			x.pos = 0
		}
	}
	return n, nil
}

// Read squeezes output from the sponge state into p. On the first call, it finalizes absorption by
// applying padding and permuting. Subsequent calls continue squeezing.
func (x *XOF) Read(p []byte) (int, error) {
	if !x.squeezing {
		x.s[x.pos] ^= x.ds
		x.s[x.rate-1] ^= 0x80
		keccak.P1600(&x.s)
		x.pos = 0
		x.squeezing = true
	}
	n := len(p)
	for len(p) > 0 {
		if x.pos == x.rate {
			keccak.P1600(&x.s)
			x.pos = 0
		}
		r := copy(p, x.s[x.pos:x.rate])
		x.pos += r
		p = p[r:]
	}
	return n, nil
}

// writeLeftEncode absorbs left_encode(v) and returns the number of bytes written.
func (x *XOF) writeLeftEncode(v uint64) int {
	b := LeftEncode(v)
	_, _ = x.Write(b)
	return len(b)
}

// writeEncodeString absorbs encode_string(s) = left_encode(len(s)*8) || s.
func (x *XOF) writeEncodeString(s []byte) int {
	n := x.writeLeftEncode(uint64(len(s)) * 8)
	w, _ := x.Write(s)
	return n + w
}

// LeftEncode returns left_encode(v) as defined in NIST SP 800-185.
func LeftEncode(v uint64) []byte {
	n := (bits.Len64(v) + 7) / 8
	if n == 0 {
		n = 1
	}
	var b [9]byte
	binary.BigEndian.PutUint64(b[1:], v)
	b[8-n] = byte(n)
	return b[8-n : 9]
}

// RightEncode returns right_encode(v) as defined in NIST SP 800-185.
func RightEncode(v uint64) []byte {
	n := (bits.Len64(v) + 7) / 8
	if n == 0 {
		n = 1
	}
	var b [9]byte
	binary.BigEndian.PutUint64(b[:8], v)
	b[8] = byte(n)
	return b[8-n:]
}

// BytePad returns bytepad(data, w): left_encode(w) || data, zero-padded to a multiple of w bytes.
func BytePad(data []byte, w int) []byte {
	out := make([]byte, 0, 9+len(data)+w)
	out = append(out, LeftEncode(uint64(w))...)
	out = append(out, data...)
	if pad := w - len(out)%w; pad < w {
		out = append(out, make([]byte, pad)...)
	}
	return out
}
