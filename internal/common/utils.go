package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns size cryptographically random bytes.
// It panics if the system RNG fails, which is not recoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros, removing key material from memory after use. A nil slice is a
// no-op.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
