package widestream

// KeySize describes one legal combination of key, nonce, and info lengths in bytes.
type KeySize struct {
	KeySize   int
	NonceSize int
	InfoSize  int
}

// Key sizes accepted by both ciphers, in bytes.
const (
	IK256Size  = 32
	IK512Size  = 64
	IK1024Size = 128
)

// legalKeySizes builds the legal key set for a cipher with the given block and info sizes.
func legalKeySizes(blockSize, infoSize int) []KeySize {
	return []KeySize{
		{KeySize: IK256Size, NonceSize: blockSize, InfoSize: infoSize},
		{KeySize: IK512Size, NonceSize: blockSize, InfoSize: infoSize},
		{KeySize: IK1024Size, NonceSize: blockSize, InfoSize: infoSize},
	}
}

// containsKeySize reports whether n is a legal key length.
func containsKeySize(sizes []KeySize, n int) bool {
	for _, ks := range sizes {
		if ks.KeySize == n {
			return true
		}
	}
	return false
}
