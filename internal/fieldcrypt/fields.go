package fieldcrypt

import (
	"fmt"
	"strings"

	"github.com/ledgerline/payroll-server/internal/common"
)

// Typed wrappers validate the field format before delegating to Encrypt.
// Non-digit characters (dashes, spaces) are stripped first, so
// "123-45-6789" and "123456789" encrypt identically. Decryption trusts
// the stored blob and performs no re-validation.

const idNumberDigits = 9

// EncryptSSN encrypts a social security number. Exactly 9 digits are
// required after stripping.
func (c *Cipher) EncryptSSN(ssn string) (string, error) {
	digits, err := exactDigits(ssn, idNumberDigits, "ssn")
	if err != nil {
		return "", err
	}
	return c.Encrypt(digits)
}

// DecryptSSN decrypts a stored SSN blob.
func (c *Cipher) DecryptSSN(blob string) (string, error) {
	return c.Decrypt(blob)
}

// EncryptEIN encrypts an employer identification number (9 digits).
func (c *Cipher) EncryptEIN(ein string) (string, error) {
	digits, err := exactDigits(ein, idNumberDigits, "ein")
	if err != nil {
		return "", err
	}
	return c.Encrypt(digits)
}

// DecryptEIN decrypts a stored EIN blob.
func (c *Cipher) DecryptEIN(blob string) (string, error) {
	return c.Decrypt(blob)
}

// EncryptRoutingNumber encrypts an ABA routing number (9 digits).
func (c *Cipher) EncryptRoutingNumber(routing string) (string, error) {
	digits, err := exactDigits(routing, idNumberDigits, "routing number")
	if err != nil {
		return "", err
	}
	return c.Encrypt(digits)
}

// DecryptRoutingNumber decrypts a stored routing-number blob.
func (c *Cipher) DecryptRoutingNumber(blob string) (string, error) {
	return c.Decrypt(blob)
}

// EncryptBankAccount encrypts a bank account number. Account numbers vary
// in length between institutions; at least one digit is required.
func (c *Cipher) EncryptBankAccount(account string) (string, error) {
	digits := stripNonDigits(account)
	if digits == "" {
		return "", fmt.Errorf("%w: bank account number must contain at least one digit", common.ErrValidation)
	}
	return c.Encrypt(digits)
}

// DecryptBankAccount decrypts a stored bank-account blob.
func (c *Cipher) DecryptBankAccount(blob string) (string, error) {
	return c.Decrypt(blob)
}

func exactDigits(value string, n int, field string) (string, error) {
	digits := stripNonDigits(value)
	if len(digits) != n {
		return "", fmt.Errorf("%w: %s must be exactly %d digits, got %d", common.ErrValidation, field, n, len(digits))
	}
	return digits, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
