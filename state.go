package widestream

import (
	"encoding/binary"

	"github.com/ewardell/widestream/hazmat/kmac"
	"github.com/ewardell/widestream/hazmat/shake"
)

// cipherState holds every field of a cipher instance apart from the expanded round keys, which
// live in the variant's permuter. Secret fields are zeroised on Reset.
type cipherState struct {
	associated []byte
	custom     []byte
	macKey     []byte
	macTag     []byte
	name       []byte
	nonce      []byte

	counter       uint64
	rounds        int
	authenticator kmac.Mode
	mode          shake.Mode

	isAuthenticated bool
	isEncryption    bool
	isInitialized   bool
}

// reset zeroises the per-session fields. The authenticator selection and the authentication flag
// survive, matching the instance configuration chosen at construction.
func (st *cipherState) reset() {
	clear(st.associated)
	st.associated = nil
	clear(st.custom)
	st.custom = nil
	clear(st.macKey)
	st.macKey = nil
	clear(st.macTag)
	st.macTag = nil
	clear(st.name)
	st.name = nil
	clear(st.nonce)

	st.counter = 0
	st.rounds = 0
	st.isEncryption = false
	st.isInitialized = false
}

// stateOverhead is the serialized size of the fixed tail plus the seven record length prefixes,
// excluding the variant-specific rounds field.
const stateOverhead = 7*2 + 8 + 1 + 1 + 3

// stateThreshold is the minimum length of a structurally valid serialized state for a cipher with
// the given block size and rounds-field width: empty records everywhere except the nonce.
func stateThreshold(blockSize, roundsWidth int) int {
	return stateOverhead + roundsWidth + blockSize
}

// serialize encodes the state as length-prefixed little-endian records: the raw round-key bytes
// and each byte field prefixed with a u16 length, followed by the counter, the rounds count in
// the variant's width, the two mode bytes, and the three flags.
func (st *cipherState) serialize(roundKeys []byte, roundsWidth int) []byte {
	n := stateOverhead + roundsWidth + len(roundKeys) + len(st.associated) + len(st.custom) +
		len(st.macKey) + len(st.macTag) + len(st.name) + len(st.nonce)

	out := make([]byte, 0, n)
	for _, field := range [][]byte{roundKeys, st.associated, st.custom, st.macKey, st.macTag, st.name, st.nonce} {
		out = binary.LittleEndian.AppendUint16(out, uint16(len(field)))
		out = append(out, field...)
	}

	out = binary.LittleEndian.AppendUint64(out, st.counter)
	switch roundsWidth {
	case 2:
		out = binary.LittleEndian.AppendUint16(out, uint16(st.rounds))
	case 4:
		out = binary.LittleEndian.AppendUint32(out, uint32(st.rounds))
	}

	out = append(out, byte(st.authenticator), byte(st.mode))
	out = append(out, encodeBool(st.isAuthenticated), encodeBool(st.isEncryption), encodeBool(st.isInitialized))
	return out
}

// deserializeState parses a serialized state, returning the parsed fields and the raw round-key
// bytes. The input must be consumed exactly; any structural mismatch yields ErrInvalidKey.
func deserializeState(data []byte, roundsWidth int) (*cipherState, []byte, error) {
	st := &cipherState{}
	var roundKeys []byte
	off := 0

	fields := []*[]byte{&roundKeys, &st.associated, &st.custom, &st.macKey, &st.macTag, &st.name, &st.nonce}
	for _, field := range fields {
		if off+2 > len(data) {
			return nil, nil, ErrInvalidKey
		}
		vlen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		if off+vlen > len(data) {
			return nil, nil, ErrInvalidKey
		}
		if vlen > 0 {
			*field = append([]byte(nil), data[off:off+vlen]...)
		}
		off += vlen
	}

	if off+8+roundsWidth+5 != len(data) {
		return nil, nil, ErrInvalidKey
	}

	st.counter = binary.LittleEndian.Uint64(data[off:])
	off += 8
	switch roundsWidth {
	case 2:
		st.rounds = int(binary.LittleEndian.Uint16(data[off:]))
	case 4:
		st.rounds = int(binary.LittleEndian.Uint32(data[off:]))
	}
	off += roundsWidth

	st.authenticator = kmac.Mode(data[off])
	st.mode = shake.Mode(data[off+1])
	if st.authenticator > kmac.KMAC1024 || st.mode > shake.SHAKE1024 {
		return nil, nil, ErrInvalidKey
	}
	off += 2

	st.isAuthenticated = data[off] != 0
	st.isEncryption = data[off+1] != 0
	st.isInitialized = data[off+2] != 0

	return st, roundKeys, nil
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}
