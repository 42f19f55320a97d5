package widestream

// ACS parameters: a 32-byte block of two 128-bit half-blocks, with 128-bit round-key lanes.
const (
	acsBlockSize = 32
	acsInfoSize  = 16

	acsRK256Count  = 22
	acsRK512Count  = 30
	acsRK1024Count = 38

	acsLaneSize = 16
)

// blendMask selects, per byte position, whether a mixed half-block takes its byte from the
// partner half (high bit set) or from its own half.
var blendMask = [16]byte{
	0x00, 0x80, 0x80, 0x80,
	0x00, 0x00, 0x80, 0x80,
	0x00, 0x00, 0x80, 0x80,
	0x00, 0x00, 0x00, 0x80,
}

// shiftMask is the byte permutation applied to each half-block after the blend.
var shiftMask = [16]byte{0, 1, 6, 7, 4, 5, 10, 11, 8, 9, 14, 15, 12, 13, 2, 3}

// ACS is the AES-round wide-block authenticated stream cipher with a 32-byte block.
type ACS struct {
	cipher
}

// NewACS returns a new ACS instance. When authenticate is true, transforms carry a KMAC tag sized
// by the key length.
func NewACS(authenticate bool) *ACS {
	return &ACS{newCipher(&acsVariant, authenticate)}
}

// NewACSFromState restores an ACS instance from a serialized state produced by Serialize.
func NewACSFromState(state []byte) (*ACS, error) {
	c, err := newCipherFromState(&acsVariant, state)
	if err != nil {
		return nil, err
	}
	return &ACS{c}, nil
}

var acsVariant = variant{
	name:          "ACS",
	blockSize:     acsBlockSize,
	infoSize:      acsInfoSize,
	roundsWidth:   2,
	counterPreset: 1,
	rounds:        acsRounds,
	newPermute:    newAcsPermute,
	loadPermute:   loadAcsPermute,
}

func acsRounds(keyLen int) int {
	switch keyLen {
	case IK512Size:
		return acsRK512Count
	case IK1024Size:
		return acsRK1024Count
	}
	return acsRK256Count
}

// acsPermute holds the expanded round keys as 128-bit lanes, two per round plus two whitening
// lanes, stored as raw squeezed bytes.
type acsPermute struct {
	rk     []byte
	rounds int
}

func newAcsPermute(material []byte, rounds int) blockPermute {
	return &acsPermute{rk: append([]byte(nil), material...), rounds: rounds}
}

func loadAcsPermute(roundKeys []byte, rounds int) (blockPermute, error) {
	if len(roundKeys)%acsLaneSize != 0 || len(roundKeys) != acsBlockSize*(rounds+1) {
		return nil, ErrInvalidKey
	}
	return &acsPermute{rk: append([]byte(nil), roundKeys...), rounds: rounds}, nil
}

func (p *acsPermute) blockSize() int {
	return acsBlockSize
}

func (p *acsPermute) roundKeyBytes() []byte {
	return append([]byte(nil), p.rk...)
}

func (p *acsPermute) clear() {
	clear(p.rk)
	p.rk = nil
	p.rounds = 0
}

func (p *acsPermute) permute(dst, src []byte) {
	p.transform256(dst, src)
}

func (p *acsPermute) permuteWide(dst, src []byte, blocks int) {
	switch blocks {
	case 4:
		p.transform1024(dst, src)
	case 8:
		p.transform2048(dst, src)
	case 16:
		p.transform4096(dst, src)
	default:
		for off := 0; off < len(src); off += acsBlockSize {
			p.transform256(dst[off:], src[off:])
		}
	}
}

// transform256 permutes a single 32-byte block. Each round blends the two half-blocks, applies
// the byte shuffle, and runs one AES round per half with consecutive key lanes; the final round
// uses the last-round form.
func (p *acsPermute) transform256(dst, src []byte) {
	var b1, b2, t1, t2 [16]byte
	copy(b1[:], src[:acsLaneSize])
	copy(b2[:], src[acsLaneSize:acsBlockSize])

	for i := range b1 {
		b1[i] ^= p.rk[i]
		b2[i] ^= p.rk[acsLaneSize+i]
	}

	lanes := 2 * (p.rounds + 1)
	kctr := 2
	for ; kctr != lanes-2; kctr += 2 {
		blendHalves(&t1, &b1, &b2)
		blendHalves(&t2, &b2, &b1)
		shuffleHalf(&t1)
		shuffleHalf(&t2)
		aesEncRound(b1[:], t1[:], p.rk[kctr*acsLaneSize:])
		aesEncRound(b2[:], t2[:], p.rk[(kctr+1)*acsLaneSize:])
	}

	blendHalves(&t1, &b1, &b2)
	blendHalves(&t2, &b2, &b1)
	shuffleHalf(&t1)
	shuffleHalf(&t2)
	aesEncLast(b1[:], t1[:], p.rk[kctr*acsLaneSize:])
	aesEncLast(b2[:], t2[:], p.rk[(kctr+1)*acsLaneSize:])

	copy(dst[:acsLaneSize], b1[:])
	copy(dst[acsLaneSize:acsBlockSize], b2[:])
}

func (p *acsPermute) transform1024(dst, src []byte) {
	p.transform256(dst, src)
	p.transform256(dst[32:], src[32:])
	p.transform256(dst[64:], src[64:])
	p.transform256(dst[96:], src[96:])
}

func (p *acsPermute) transform2048(dst, src []byte) {
	p.transform1024(dst, src)
	p.transform1024(dst[128:], src[128:])
}

func (p *acsPermute) transform4096(dst, src []byte) {
	p.transform2048(dst, src)
	p.transform2048(dst[256:], src[256:])
}

// blendHalves mixes two half-blocks byte-wise per the blend mask.
func blendHalves(dst, a, b *[16]byte) {
	for i := range dst {
		if blendMask[i]&0x80 != 0 {
			dst[i] = b[i]
		} else {
			dst[i] = a[i]
		}
	}
}

// shuffleHalf permutes a half-block in place per the shift mask.
func shuffleHalf(v *[16]byte) {
	var t [16]byte
	for i := range t {
		t[i] = v[shiftMask[i]]
	}
	*v = t
}
