// Package kmac implements the KMAC keyed message authentication code from NIST SP 800-185.
//
// KMAC512 and KMAC1024 are widened library-local variants built on the SHAKE512 and SHAKE1024
// sponge rates. A finalized instance re-keys itself, so a subsequent Update sequence computes a
// fresh MAC under the same key.
package kmac

import (
	"github.com/ewardell/widestream/hazmat/shake"
)

// Mode selects the MAC strength.
type Mode byte

// MAC modes. The zero value None is not usable.
const (
	None Mode = iota
	KMAC128
	KMAC256
	KMAC512
	KMAC1024
)

// kmacFunctionName is the NIST function-name string N for all KMAC variants.
var kmacFunctionName = []byte("KMAC")

// TagSize returns the MAC output size of the mode in bytes.
func (m Mode) TagSize() int {
	switch m {
	case KMAC128:
		return 16
	case KMAC256:
		return 32
	case KMAC512:
		return 64
	case KMAC1024:
		return 128
	}
	return 0
}

// RecommendedKeySize returns the key size in bytes matching the mode's security strength.
func (m Mode) RecommendedKeySize() int {
	return m.TagSize()
}

// LegalKeySizes returns the accepted key sizes in bytes, smallest first. The middle entry is the
// recommended size.
func (m Mode) LegalKeySizes() []int {
	r := m.RecommendedKeySize()
	if r == 0 {
		return nil
	}
	return []int{r / 2, r, r * 2}
}

// shakeMode returns the underlying sponge mode.
func (m Mode) shakeMode() shake.Mode {
	switch m {
	case KMAC128:
		return shake.SHAKE128
	case KMAC256:
		return shake.SHAKE256
	case KMAC512:
		return shake.SHAKE512
	case KMAC1024:
		return shake.SHAKE1024
	}
	return shake.None
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case KMAC128:
		return "KMAC128"
	case KMAC256:
		return "KMAC256"
	case KMAC512:
		return "KMAC512"
	case KMAC1024:
		return "KMAC1024"
	}
	return "None"
}

// KMAC is an incremental MAC instance. It must be keyed with Initialize before use.
type KMAC struct {
	x    *shake.XOF
	mode Mode

	// initBlock is left_encode(len(key)*8) || key, re-absorbed on every reset.
	initBlock []byte
}

// New returns a new unkeyed KMAC in the given mode.
func New(m Mode) *KMAC {
	return &KMAC{x: shake.New(m.shakeMode()), mode: m}
}

// Initialize keys the MAC. Any prior state, keyed or mid-message, is discarded.
func (k *KMAC) Initialize(key []byte) {
	k.initBlock = append(shake.LeftEncode(uint64(len(key))*8), key...)
	k.rekey()
}

// Update absorbs p into the MAC state.
func (k *KMAC) Update(p []byte) {
	_, _ = k.x.Write(p)
}

// Finalize writes the authentication tag to out, which must hold at least TagSize bytes, and
// returns the tag length. The instance is re-keyed and immediately ready for the next message.
func (k *KMAC) Finalize(out []byte) int {
	n := k.mode.TagSize()
	_, _ = k.x.Write(shake.RightEncode(uint64(n) * 8))
	k.x.Generate(out[:n])
	k.rekey()
	return n
}

// Reset returns the MAC to the freshly keyed state, discarding any absorbed message data.
func (k *KMAC) Reset() {
	k.rekey()
}

// TagSize returns the MAC output size in bytes.
func (k *KMAC) TagSize() int {
	return k.mode.TagSize()
}

// Clear zeroizes the stored key material and sponge state.
func (k *KMAC) Clear() {
	clear(k.initBlock)
	k.initBlock = nil
	k.x.Reset()
}

// rekey rebuilds the cSHAKE("KMAC") prefix and re-absorbs the padded key block.
func (k *KMAC) rekey() {
	k.x.Initialize(nil, nil, kmacFunctionName)
	_, _ = k.x.Write(shake.BytePad(k.initBlock, k.x.Rate()))
}
