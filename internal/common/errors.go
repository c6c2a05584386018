// Package common defines shared constants and sentinel errors used across
// the payroll server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication errors. A missing account and a wrong password both
	// surface as ErrInvalidCredentials so callers cannot probe which
	// emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrAccountLocked      = errors.New("account locked")

	// Token errors (invalid signature, malformed, or expired).
	ErrInvalidToken = errors.New("invalid token")

	// Sensitive-field errors. ErrValidation reports caller-side format
	// bugs precisely; the crypto failures stay opaque and never carry
	// key material or plaintext.
	ErrValidation        = errors.New("validation error")
	ErrEncryptionFailure = errors.New("encryption failure")
	ErrDecryptionFailure = errors.New("decryption failure")
)
