package widestream

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewardell/widestream/hazmat/kmac"
	"github.com/ewardell/widestream/hazmat/shake"
)

func TestStateWireLayout(t *testing.T) {
	c := NewACS(true)
	key := make([]byte, 32)
	nonce := make([]byte, 32)
	for i := range nonce {
		nonce[i] = byte(i)
	}
	require.NoError(t, c.Initialize(true, key, nonce, []byte("info")))

	state := c.Serialize()

	// Field order: round keys, associated, custom, mac key, mac tag, name, nonce, each with a
	// u16 little-endian length prefix.
	off := 0
	next := func() []byte {
		vlen := int(binary.LittleEndian.Uint16(state[off:]))
		off += 2
		field := state[off : off+vlen]
		off += vlen
		return field
	}

	roundKeys := next()
	require.Len(t, roundKeys, 32*(acsRK256Count+1))

	require.Empty(t, next())                    // associated
	require.Equal(t, []byte("info"), next())    // custom
	require.Len(t, next(), 32)                  // mac key (KMAC256)
	require.Len(t, next(), 32)                  // mac tag
	require.Equal(t, []byte("ACSK256"), next()[10:]) // name
	require.Equal(t, nonce, next())             // nonce

	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(state[off:]))
	off += 8
	require.Equal(t, uint16(acsRK256Count), binary.LittleEndian.Uint16(state[off:]))
	off += 2
	require.Equal(t, byte(kmac.KMAC256), state[off])
	require.Equal(t, byte(shake.SHAKE256), state[off+1])
	require.Equal(t, []byte{1, 1, 1}, state[off+2:off+5])
	require.Equal(t, len(state), off+5)
}

func TestStateEnumWidths(t *testing.T) {
	// The rounds field is 16 bits for ACS and 32 bits for RWS; everything else is identical, so
	// the uninitialized state sizes differ by exactly the rounds width and the block size.
	acsLen := len(NewACS(false).Serialize())
	rwsLen := len(NewRWS(false).Serialize())
	require.Equal(t, rwsLen-acsLen, (4-2)+(rwsBlockSize-acsBlockSize))
}

func TestDeserializeRejectsBadEnums(t *testing.T) {
	c := NewACS(true)
	require.NoError(t, c.Initialize(true, make([]byte, 32), make([]byte, 32), nil))
	state := c.Serialize()

	// The authenticator and mode bytes are the 5th and 4th from the end.
	mutated := append([]byte(nil), state...)
	mutated[len(mutated)-5] = 0x7F
	_, err := NewACSFromState(mutated)
	require.ErrorIs(t, err, ErrInvalidKey)

	mutated = append([]byte(nil), state...)
	mutated[len(mutated)-4] = 0x7F
	_, err = NewACSFromState(mutated)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestDeserializeRejectsWrongNonceLength(t *testing.T) {
	// An RWS state has a 64-byte nonce and a 32-bit rounds field; restoring it as ACS must fail.
	c := NewRWS(false)
	state := c.Serialize()
	_, err := NewACSFromState(state)
	require.ErrorIs(t, err, ErrInvalidKey)

	// A state in the ACS layout whose only defect is a 64-byte nonce must fail as well.
	st := &cipherState{nonce: make([]byte, rwsBlockSize)}
	_, err = NewACSFromState(st.serialize(nil, 2))
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestDeserializeRejectsTrailingBytes(t *testing.T) {
	c := NewACS(true)
	require.NoError(t, c.Initialize(true, make([]byte, 32), make([]byte, 32), nil))
	state := append(c.Serialize(), 0x00)
	_, err := NewACSFromState(state)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestRestoredAuthenticatedDecrypt(t *testing.T) {
	key := make([]byte, 64)
	nonce := make([]byte, 32)
	msg := []byte("restored instances verify tags exactly like their originals")

	enc := NewACS(true)
	require.NoError(t, enc.Initialize(true, key, nonce, nil))
	sealed := make([]byte, len(msg)+enc.TagSize())
	require.NoError(t, enc.Transform(sealed, msg))

	dec := NewACS(true)
	require.NoError(t, dec.Initialize(false, key, nonce, nil))
	restored, err := NewACSFromState(dec.Serialize())
	require.NoError(t, err)

	out := make([]byte, len(msg))
	require.NoError(t, restored.Transform(out, sealed))
	require.Equal(t, msg, out)

	// Tampering is still detected by the restored instance.
	restored2, err := NewACSFromState(dec.Serialize())
	require.NoError(t, err)
	sealed[0] ^= 0x01
	require.ErrorIs(t, restored2.Transform(out, sealed), ErrAuthenticationFailure)
}
