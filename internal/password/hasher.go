// Package password provides one-way hashing and verification of login
// passwords, a strength policy, and secure random password generation.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/payroll-server/internal/common"
)

// HashCost is the bcrypt work factor. Cost 12 means 2^12 = 4096
// key-expansion rounds per hash.
const HashCost = 12

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"

	// MinGeneratedLength is the floor applied to Generate requests.
	MinGeneratedLength = 12

	// MinPasswordLength is the floor enforced by IsStrong.
	MinPasswordLength = 8
)

// Hasher hashes and verifies login passwords with bcrypt. The zero value
// is ready to use; all methods are safe for concurrent callers.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash produces a salted bcrypt digest of plaintext. A fresh salt is
// embedded per call, so hashing the same password twice yields two
// different digests that both verify.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrValidation)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. It never returns an
// error: empty inputs and malformed digests verify as false. bcrypt's
// comparison does not leak the mismatch position through timing.
func (h *Hasher) Verify(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// IsStrong reports whether pw satisfies the signup policy: length of at
// least MinPasswordLength and at least one uppercase letter, one
// lowercase letter, one digit, and one symbol. All four classes are
// mandatory; this is not a weighted score (see Score for that).
func (h *Hasher) IsStrong(pw string) bool {
	if len(pw) < MinPasswordLength {
		return false
	}
	upper, lower, digit, symbol := classify(pw)
	return upper && lower && digit && symbol
}

// Score rates pw from 0 to 5 for advisory UI feedback: one point per
// character class present plus one for length >= MinGeneratedLength.
// Independent of IsStrong.
func (h *Hasher) Score(pw string) int {
	if pw == "" {
		return 0
	}
	score := 0
	upper, lower, digit, symbol := classify(pw)
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			score++
		}
	}
	if len(pw) >= MinGeneratedLength {
		score++
	}
	return score
}

// Generate returns a random password of the given length (clamped to
// MinGeneratedLength). One slot is seeded per character class before the
// remainder is filled from the full alphabet, then the buffer is
// shuffled, so the class guarantee holds without a positional pattern.
func (h *Hasher) Generate(length int) (string, error) {
	if length < MinGeneratedLength {
		length = MinGeneratedLength
	}

	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	all := upperChars + lowerChars + digitChars + symbolChars

	buf := make([]byte, length)
	for i, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}
	for i := len(classes); i < length; i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	for i := length - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

func classify(pw string) (upper, lower, digit, symbol bool) {
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(symbolChars, r):
			symbol = true
		}
	}
	return upper, lower, digit, symbol
}

func randomChar(alphabet string) (byte, error) {
	n, err := randomInt(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[n], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("rng error: %w", err)
	}
	return int(v.Int64()), nil
}
