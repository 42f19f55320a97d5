package widestream

import "encoding/binary"

// RWS parameters: a 64-byte block as a 4x16 Rijndael state, with 32-bit round-key words.
const (
	rwsBlockSize = 64
	rwsInfoSize  = 16

	rwsRK256Count  = 30
	rwsRK512Count  = 38
	rwsRK1024Count = 46

	rwsWordsPerKey = 16
)

// RWS is the 512-bit-wide software Rijndael authenticated stream cipher with a 64-byte block.
type RWS struct {
	cipher
}

// NewRWS returns a new RWS instance. When authenticate is true, transforms carry a KMAC tag sized
// by the key length.
func NewRWS(authenticate bool) *RWS {
	return &RWS{newCipher(&rwsVariant, authenticate)}
}

// NewRWSFromState restores an RWS instance from a serialized state produced by Serialize.
func NewRWSFromState(state []byte) (*RWS, error) {
	c, err := newCipherFromState(&rwsVariant, state)
	if err != nil {
		return nil, err
	}
	return &RWS{c}, nil
}

var rwsVariant = variant{
	name:          "RWS",
	blockSize:     rwsBlockSize,
	infoSize:      rwsInfoSize,
	roundsWidth:   4,
	counterPreset: 0,
	rounds:        rwsRounds,
	newPermute:    newRwsPermute,
	loadPermute:   loadRwsPermute,
}

func rwsRounds(keyLen int) int {
	switch keyLen {
	case IK512Size:
		return rwsRK512Count
	case IK1024Size:
		return rwsRK1024Count
	}
	return rwsRK256Count
}

// rwsPermute holds the expanded round keys as 32-bit words, sixteen per round plus sixteen
// whitening words. The squeezed key material is read big-endian into the words.
type rwsPermute struct {
	rk     []uint32
	rounds int
}

func newRwsPermute(material []byte, rounds int) blockPermute {
	rk := make([]uint32, len(material)/4)
	for i := range rk {
		rk[i] = binary.BigEndian.Uint32(material[i*4:])
	}
	return &rwsPermute{rk: rk, rounds: rounds}
}

func loadRwsPermute(roundKeys []byte, rounds int) (blockPermute, error) {
	if len(roundKeys)%4 != 0 || len(roundKeys) != rwsBlockSize*(rounds+1) {
		return nil, ErrInvalidKey
	}
	rk := make([]uint32, len(roundKeys)/4)
	for i := range rk {
		rk[i] = binary.LittleEndian.Uint32(roundKeys[i*4:])
	}
	return &rwsPermute{rk: rk, rounds: rounds}, nil
}

func (p *rwsPermute) blockSize() int {
	return rwsBlockSize
}

// roundKeyBytes serializes the words little-endian, the in-memory layout of the state record.
func (p *rwsPermute) roundKeyBytes() []byte {
	out := make([]byte, len(p.rk)*4)
	for i, w := range p.rk {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func (p *rwsPermute) clear() {
	clear(p.rk)
	p.rk = nil
	p.rounds = 0
}

func (p *rwsPermute) permute(dst, src []byte) {
	p.transform512(dst, src)
}

func (p *rwsPermute) permuteWide(dst, src []byte, blocks int) {
	switch blocks {
	case 4:
		p.transform2048(dst, src)
	case 8:
		p.transform4096(dst, src)
	case 16:
		p.transform8192(dst, src)
	default:
		for off := 0; off < len(src); off += rwsBlockSize {
			p.transform512(dst[off:], src[off:])
		}
	}
}

// transform512 permutes a single 64-byte block: substitution, the widened row shift, the column
// mix over all 16 columns, and key addition per round, with the mix omitted from the final round.
func (p *rwsPermute) transform512(dst, src []byte) {
	var state [rwsBlockSize]byte
	copy(state[:], src[:rwsBlockSize])
	keyAddition(state[:], p.rk[:rwsWordsPerKey])

	prefetchSbox()

	for i := 1; i < p.rounds; i++ {
		substitution(state[:])
		shiftRows512(state[:])
		mixColumns512(state[:])
		keyAddition(state[:], p.rk[i*rwsWordsPerKey:(i+1)*rwsWordsPerKey])
	}

	substitution(state[:])
	shiftRows512(state[:])
	keyAddition(state[:], p.rk[p.rounds*rwsWordsPerKey:(p.rounds+1)*rwsWordsPerKey])

	copy(dst[:rwsBlockSize], state[:])
}

func (p *rwsPermute) transform2048(dst, src []byte) {
	p.transform512(dst, src)
	p.transform512(dst[64:], src[64:])
	p.transform512(dst[128:], src[128:])
	p.transform512(dst[192:], src[192:])
}

func (p *rwsPermute) transform4096(dst, src []byte) {
	p.transform2048(dst, src)
	p.transform2048(dst[256:], src[256:])
}

func (p *rwsPermute) transform8192(dst, src []byte) {
	p.transform4096(dst, src)
	p.transform4096(dst[512:], src[512:])
}
