package models

import (
	"time"

	"github.com/ledgerline/payroll-server/internal/lockout"
)

// Identity is a login-capable account scoped to one company (tenant).
// PasswordHash is an opaque bcrypt digest; the plaintext never touches
// this struct and must never be logged.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	CompanyID    string
	Active       bool
	Deleted      bool
	Lockout      lockout.State
	LastLoginAt  *time.Time
	RememberMe   bool
	CreatedAt    time.Time
}

// FullName returns the display name used in identity summaries.
func (i *Identity) FullName() string {
	if i.FirstName == "" {
		return i.LastName
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}
