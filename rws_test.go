package widestream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewardell/widestream/internal/testdata"
)

func TestRWSRoundCounts(t *testing.T) {
	for keyLen, rounds := range map[int]int{32: 30, 64: 38, 128: 46} {
		c := NewRWS(false)
		require.NoError(t, c.Initialize(true, make([]byte, keyLen), make([]byte, 64), nil))
		require.Equal(t, rounds, c.st.rounds)
	}
}

// TestRWSCounterPreset checks that, unlike ACS, the processed-bytes counter starts at zero; the
// divergence is part of each cipher's key-expansion format.
func TestRWSCounterPreset(t *testing.T) {
	c := NewRWS(false)
	require.NoError(t, c.Initialize(true, make([]byte, 32), make([]byte, 64), nil))
	require.Equal(t, uint64(0), c.st.counter)
	require.Equal(t, byte(0), c.st.name[0])
	require.Equal(t, []byte("RWS"), c.st.name[10:])
}

// TestRWS1024MultiBlock is the wide-key multi-block scenario: a 128-byte key, a 4096-byte
// message, and byte-identical output across every keystream fan-out.
func TestRWS1024MultiBlock(t *testing.T) {
	key := make([]byte, 128)
	for i := range key {
		key[i] = 0x04
	}
	iv := make([]byte, 64)
	for i := range iv {
		iv[i] = 0x05
	}
	msg := make([]byte, 4096)
	for i := range msg {
		msg[i] = 0x06
	}

	var want []byte
	for _, wide := range []int{1, 4, 8, 16} {
		c := NewRWS(true)
		c.prl.wideBlocks = wide
		c.prl.calculate()
		require.NoError(t, c.Initialize(true, key, iv, nil))
		out := make([]byte, len(msg)+c.TagSize())
		require.NoError(t, c.Transform(out, msg))
		if want == nil {
			want = out
			continue
		}
		require.Equal(t, want, out, "fan-out %d diverged", wide)
	}

	dec := NewRWS(true)
	require.NoError(t, dec.Initialize(false, key, iv, nil))
	out := make([]byte, len(msg))
	require.NoError(t, dec.Transform(out, want))
	require.Equal(t, msg, out)
}

func TestRWSRoundKeyWordOrder(t *testing.T) {
	// The squeezed material is read big-endian into words and serialized little-endian, so a
	// serialize/load cycle must preserve the permutation exactly.
	drbg := testdata.New("rws words")
	material := drbg.Data(64 * (rwsRK256Count + 1))

	p := newRwsPermute(material, rwsRK256Count)
	loaded, err := loadRwsPermute(p.roundKeyBytes(), rwsRK256Count)
	require.NoError(t, err)

	src := drbg.Data(64)
	a, b := make([]byte, 64), make([]byte, 64)
	p.permute(a, src)
	loaded.permute(b, src)
	require.Equal(t, a, b)
}

func TestRWSPermuteBijective(t *testing.T) {
	drbg := testdata.New("rws bijective")
	p := newRwsPermute(drbg.Data(64*(rwsRK256Count+1)), rwsRK256Count)

	seen := make(map[[64]byte]bool)
	src := make([]byte, 64)
	out := make([]byte, 64)
	for i := 0; i < 256; i++ {
		src[0] = byte(i)
		p.permute(out, src)
		var k [64]byte
		copy(k[:], out)
		require.False(t, seen[k], "keystream collision at counter %d", i)
		seen[k] = true
	}
}

func TestRWSStateThreshold(t *testing.T) {
	c := NewRWS(false)
	require.Len(t, c.Serialize(), stateThreshold(rwsBlockSize, 4))

	restored, err := NewRWSFromState(c.Serialize())
	require.NoError(t, err)
	require.False(t, restored.IsInitialized())
}

func TestVariantsDiverge(t *testing.T) {
	// The two ciphers share the engine but not the keystream: with equal key material the
	// outputs are unrelated.
	key := make([]byte, 32)
	acsCT := make([]byte, 32)

	a := NewACS(false)
	require.NoError(t, a.Initialize(true, key, make([]byte, 32), nil))
	require.NoError(t, a.Transform(acsCT, make([]byte, 32)))

	r := NewRWS(false)
	require.NoError(t, r.Initialize(true, key, make([]byte, 64), nil))
	rwsCT := make([]byte, 64)
	require.NoError(t, r.Transform(rwsCT, make([]byte, 64)))

	require.NotEqual(t, acsCT, rwsCT[:32])
}
