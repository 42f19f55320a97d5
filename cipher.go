package widestream

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/ewardell/widestream/hazmat/kmac"
	"github.com/ewardell/widestream/hazmat/shake"
	"github.com/ewardell/widestream/internal/mem"
)

// variant binds the shared cipher engine to one of the two block permutations.
type variant struct {
	name        string
	blockSize   int
	infoSize    int
	roundsWidth int
	// counterPreset is the processed-bytes count set before the cSHAKE name header is built. The
	// value is part of the header and therefore of the round keys; it differs between the two
	// ciphers and must not be unified.
	counterPreset uint64
	rounds        func(keyLen int) int
	newPermute    func(material []byte, rounds int) blockPermute
	loadPermute   func(roundKeys []byte, rounds int) (blockPermute, error)
}

// cipher is the engine shared by ACS and RWS: key schedule, CTR keystream, parallel driver, AEAD
// framing, and state serialisation.
type cipher struct {
	v   *variant
	st  *cipherState
	bp  blockPermute
	mac *kmac.KMAC
	prl *ParallelOptions
}

func newCipher(v *variant, authenticate bool) cipher {
	return cipher{
		v:   v,
		st:  &cipherState{nonce: make([]byte, v.blockSize), isAuthenticated: authenticate},
		prl: newParallelOptions(v.blockSize, wideBlocks),
	}
}

func newCipherFromState(v *variant, state []byte) (cipher, error) {
	if len(state) < stateThreshold(v.blockSize, v.roundsWidth) {
		return cipher{}, ErrInvalidKey
	}

	st, roundKeys, err := deserializeState(state, v.roundsWidth)
	if err != nil {
		return cipher{}, err
	}
	if len(st.nonce) != v.blockSize {
		return cipher{}, ErrInvalidKey
	}
	if st.isAuthenticated != (st.authenticator != kmac.None) && st.isInitialized {
		return cipher{}, ErrInvalidKey
	}

	c := cipher{v: v, st: st, prl: newParallelOptions(v.blockSize, wideBlocks)}

	if st.isInitialized {
		if st.rounds <= 0 || st.mode == shake.None {
			return cipher{}, ErrInvalidKey
		}
		bp, err := v.loadPermute(roundKeys, st.rounds)
		if err != nil {
			return cipher{}, err
		}
		c.bp = bp
	}

	if st.authenticator != kmac.None {
		if st.isInitialized && (len(st.macTag) != st.authenticator.TagSize() || len(st.macKey) == 0) {
			return cipher{}, ErrInvalidKey
		}
		if len(st.macKey) != 0 {
			c.mac = kmac.New(st.authenticator)
			c.mac.Initialize(st.macKey)
		}
	}

	return c, nil
}

// Initialize keys the cipher for encryption or decryption. The key must be one of the legal
// sizes, the nonce must be exactly one block, and info is an optional customization string bound
// into the key schedule. Calling Initialize on an initialized instance resets it first.
func (c *cipher) Initialize(encryption bool, key, nonce, info []byte) error {
	if !containsKeySize(c.LegalKeySizes(), len(key)) {
		return ErrInvalidKey
	}
	if len(nonce) != c.v.blockSize {
		return ErrInvalidNonce
	}
	if len(info) > c.v.infoSize {
		return ErrInvalidParam
	}
	if c.prl.IsParallel() {
		pbs := c.prl.ParallelBlockSize()
		if pbs < c.prl.ParallelMinimumSize() || pbs > c.prl.ParallelMaximumSize() {
			return ErrInvalidSize
		}
		if pbs%c.prl.ParallelMinimumSize() != 0 {
			return ErrInvalidParam
		}
	}

	if c.st.isInitialized {
		c.Reset()
	}

	st := c.st
	st.counter = c.v.counterPreset
	st.rounds = c.v.rounds(len(key))

	if st.isAuthenticated {
		st.authenticator = kmacModeFor(len(key))
		c.mac = kmac.New(st.authenticator)
	}

	if len(info) != 0 {
		st.custom = append([]byte(nil), info...)
	}

	// The cSHAKE name binds the processed-bytes counter, the key size in bits, and the algorithm
	// name ahead of the first squeezed byte.
	alg := c.algorithmName()
	st.name = make([]byte, 8+2+len(alg))
	binary.LittleEndian.PutUint64(st.name, st.counter)
	binary.LittleEndian.PutUint16(st.name[8:], uint16(len(key)*8))
	copy(st.name[10:], alg)

	copy(st.nonce, nonce)
	st.mode = shakeModeFor(len(key))

	gen := shake.New(st.mode)
	gen.Initialize(key, st.custom, st.name)

	tmpr := make([]byte, c.v.blockSize*(st.rounds+1))
	gen.Generate(tmpr)
	c.bp = c.v.newPermute(tmpr, st.rounds)
	clear(tmpr)

	if st.isAuthenticated {
		mack := make([]byte, st.authenticator.RecommendedKeySize())
		gen.Generate(mack)
		c.mac.Initialize(mack)
		st.macKey = mack
		st.macTag = make([]byte, c.mac.TagSize())
	}

	st.isEncryption = encryption
	st.isInitialized = true
	return nil
}

// SetAssociatedData stages associated data for the next Transform call. The data is consumed and
// cleared by tag finalisation, so it must be set before each authenticated call that needs it.
func (c *cipher) SetAssociatedData(ad []byte) error {
	if !c.st.isInitialized {
		return ErrNotInitialized
	}
	if c.mac == nil {
		return ErrIllegalOperation
	}
	c.st.associated = append([]byte(nil), ad...)
	return nil
}

// Transform encrypts or decrypts src into dst. The buffers must not overlap.
//
// Encrypting with authentication writes ciphertext followed by the tag, so dst must hold
// len(src)+TagSize() bytes. Decrypting with authentication expects src to be ciphertext followed
// by the tag; the tag is verified before any plaintext is written, and a mismatch returns
// ErrAuthenticationFailure.
func (c *cipher) Transform(dst, src []byte) error {
	if !c.st.isInitialized {
		return ErrNotInitialized
	}

	st := c.st
	if st.isEncryption {
		if st.isAuthenticated {
			ts := c.mac.TagSize()
			if len(dst) < len(src)+ts {
				return ErrInvalidSize
			}
			c.mac.Update(st.nonce)
			c.process(dst[:len(src)], src)
			c.mac.Update(dst[:len(src)])
			st.counter += uint64(len(src))
			c.finalize()
			copy(dst[len(src):len(src)+ts], st.macTag)
			return nil
		}
		if len(dst) < len(src) {
			return ErrInvalidSize
		}
		c.process(dst[:len(src)], src)
		return nil
	}

	if st.isAuthenticated {
		ts := c.mac.TagSize()
		if len(src) < ts {
			return ErrInvalidSize
		}
		msg := src[:len(src)-ts]
		if len(dst) < len(msg) {
			return ErrInvalidSize
		}
		c.mac.Update(st.nonce)
		c.mac.Update(msg)
		st.counter += uint64(len(msg))
		c.finalize()
		if subtle.ConstantTimeCompare(src[len(msg):], st.macTag) != 1 {
			return ErrAuthenticationFailure
		}
		c.process(dst[:len(msg)], msg)
		return nil
	}

	if len(dst) < len(src) {
		return ErrInvalidSize
	}
	c.process(dst[:len(src)], src)
	return nil
}

// Tag returns a copy of the last computed or verified authentication tag.
func (c *cipher) Tag() ([]byte, error) {
	if !c.st.isAuthenticated || len(c.st.macTag) == 0 {
		return nil, ErrNotInitialized
	}
	return append([]byte(nil), c.st.macTag...), nil
}

// TagSize returns the authentication tag length in bytes, or zero when the instance is not
// authenticated or not yet initialized.
func (c *cipher) TagSize() int {
	if c.mac == nil {
		return 0
	}
	return c.mac.TagSize()
}

// Serialize encodes the full cipher state, including round keys and the MAC key, as a
// length-prefixed little-endian record sequence. The output contains secret material.
func (c *cipher) Serialize() []byte {
	var roundKeys []byte
	if c.bp != nil {
		roundKeys = c.bp.roundKeyBytes()
	}
	return c.st.serialize(roundKeys, c.v.roundsWidth)
}

// SetParallelMaxDegree sets the number of parallel tasks. The degree must be even (1 is accepted
// for sequential operation) and must not exceed the processor count.
func (c *cipher) SetParallelMaxDegree(d int) error {
	if d == 0 || (d != 1 && d%2 != 0) || d > c.prl.ProcessorCount() {
		return ErrNotSupported
	}
	c.prl.setMaxDegree(d)
	return nil
}

// Reset zeroises all secret state and returns the instance to the uninitialized state. The
// authentication configuration chosen at construction is retained.
func (c *cipher) Reset() {
	if c.bp != nil {
		c.bp.clear()
		c.bp = nil
	}
	if c.mac != nil {
		c.mac.Clear()
		c.mac = nil
	}
	c.st.reset()
	c.prl.calculate()
}

// LegalKeySizes returns the accepted key, nonce, and info size combinations.
func (c *cipher) LegalKeySizes() []KeySize {
	return legalKeySizes(c.v.blockSize, c.v.infoSize)
}

// IsAuthenticated reports whether the instance authenticates its transforms.
func (c *cipher) IsAuthenticated() bool {
	return c.st.isAuthenticated
}

// IsEncryption reports whether the instance was initialized for encryption.
func (c *cipher) IsEncryption() bool {
	return c.st.isEncryption
}

// IsInitialized reports whether Initialize has completed.
func (c *cipher) IsInitialized() bool {
	return c.st.isInitialized
}

// IsParallel reports whether transforms split work across parallel tasks.
func (c *cipher) IsParallel() bool {
	return c.prl.IsParallel()
}

// Name returns the algorithm name, qualified by the MAC mode when authenticated.
func (c *cipher) Name() string {
	return c.algorithmName()
}

// Nonce returns a copy of the current nonce, which doubles as the session counter.
func (c *cipher) Nonce() []byte {
	return append([]byte(nil), c.st.nonce...)
}

// ParallelBlockSize returns the byte length one parallel round processes.
func (c *cipher) ParallelBlockSize() int {
	return c.prl.ParallelBlockSize()
}

// ParallelProfile returns the instance's parallel processing profile.
func (c *cipher) ParallelProfile() *ParallelOptions {
	return c.prl
}

// algorithmName derives the qualified algorithm name from the authenticator selection.
func (c *cipher) algorithmName() string {
	switch c.st.authenticator {
	case kmac.KMAC256:
		return c.v.name + "K256"
	case kmac.KMAC512:
		return c.v.name + "K512"
	case kmac.KMAC1024:
		return c.v.name + "K1024"
	}
	return c.v.name
}

// finalize computes the authentication tag: associated data, then a little-endian length trailer
// binding the processed-byte count, the nonce length, the associated-data length, and the trailer
// itself. The staged associated data is consumed and cleared.
func (c *cipher) finalize() {
	var mctr [8]byte
	mlen := c.st.counter + uint64(len(c.st.nonce)) + uint64(len(c.st.associated)) + uint64(len(mctr))
	binary.LittleEndian.PutUint64(mctr[:], mlen)

	if len(c.st.associated) != 0 {
		c.mac.Update(c.st.associated)
		clear(c.st.associated)
		c.st.associated = nil
	}

	c.mac.Update(mctr[:])
	c.mac.Finalize(c.st.macTag)
}

// process applies the CTR keystream to src, writing to dst. Full parallel rounds are dispatched
// across tasks; the remainder runs sequentially on the session nonce.
func (c *cipher) process(dst, src []byte) {
	pbs := c.prl.ParallelBlockSize()
	if c.prl.IsParallel() && len(src) >= pbs {
		cnt := len(src) / pbs
		for i := 0; i < cnt; i++ {
			off := i * pbs
			c.processParallel(dst[off:off+pbs], src[off:off+pbs])
		}
		if off := cnt * pbs; off != len(src) {
			c.processSequential(dst[off:], src[off:])
		}
		return
	}
	c.processSequential(dst, src)
}

// processParallel splits one parallel round into degree chunks. Each task owns a disjoint output
// region and a disjoint counter subrange derived by offsetting the session nonce by its chunk's
// block index. After the join the session nonce takes the last task's final counter, advancing it
// past the whole round.
func (c *cipher) processParallel(dst, src []byte) {
	deg := c.prl.ParallelMaxDegree()
	cnklen := len(src) / deg
	ctrlen := cnklen / c.v.blockSize
	tmpc := make([]byte, c.v.blockSize)

	parallelFor(deg, func(i int) {
		thdc := make([]byte, c.v.blockSize)
		leIncrease8(thdc, c.st.nonce, uint64(ctrlen*i))
		off := i * cnklen
		generate(c.bp, dst[off:off+cnklen], thdc, c.prl.wideBlocks)
		mem.XORInPlace(dst[off:off+cnklen], src[off:off+cnklen])
		if i == deg-1 {
			copy(tmpc, thdc)
		}
	})

	copy(c.st.nonce, tmpc)

	if aln := cnklen * deg; aln != len(src) {
		generate(c.bp, dst[aln:], c.st.nonce, c.prl.wideBlocks)
		mem.XORInPlace(dst[aln:], src[aln:])
	}
}

// processSequential generates keystream on the session nonce and combines it with the input.
func (c *cipher) processSequential(dst, src []byte) {
	generate(c.bp, dst, c.st.nonce, c.prl.wideBlocks)
	mem.XORInPlace(dst, src)
}

// shakeModeFor maps the key length to the key-expansion XOF mode.
func shakeModeFor(keyLen int) shake.Mode {
	switch keyLen {
	case IK512Size:
		return shake.SHAKE512
	case IK1024Size:
		return shake.SHAKE1024
	}
	return shake.SHAKE256
}

// kmacModeFor maps the key length to the authenticator mode.
func kmacModeFor(keyLen int) kmac.Mode {
	switch keyLen {
	case IK512Size:
		return kmac.KMAC512
	case IK1024Size:
		return kmac.KMAC1024
	}
	return kmac.KMAC256
}
