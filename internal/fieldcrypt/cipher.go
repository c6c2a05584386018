// Package fieldcrypt encrypts sensitive payroll fields (SSN, EIN, bank
// account and routing numbers) at rest with AES-256-GCM. Each encrypted
// value is stored as a single opaque string: base64(iv || ciphertext || tag)
// with a fresh random 12-byte IV per call, so equal plaintexts never
// produce equal blobs.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/ledgerline/payroll-server/internal/common"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Cipher performs authenticated field encryption. The key is fixed at
// construction; Encrypt and Decrypt allocate per call and are safe for
// concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a raw 32-byte key, typically decoded
// from the base64 value supplied by configuration.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", common.ErrValidation, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryptionFailure, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryptionFailure, err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(iv || ciphertext || tag).
// Empty input yields an empty blob with no error, mirroring the nullable
// columns the blobs are stored in.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := common.GenerateRandByteArray(c.aead.NonceSize())

	// Seal appends ciphertext+tag to iv, producing the stored layout.
	sealed := c.aead.Seal(iv, iv, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed blob or failed tag check
// returns ErrDecryptionFailure; unauthenticated plaintext is never
// returned, even partially.
func (c *Cipher) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: malformed blob", common.ErrDecryptionFailure)
	}

	n := c.aead.NonceSize()
	if len(raw) < n+c.aead.Overhead() {
		return "", fmt.Errorf("%w: blob too short", common.ErrDecryptionFailure)
	}

	iv, sealed := raw[:n], raw[n:]
	plaintext, err := c.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", common.ErrDecryptionFailure
	}
	return string(plaintext), nil
}
