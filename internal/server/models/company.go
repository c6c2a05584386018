package models

import "time"

// Company is a payroll tenant. EncryptedEIN is an opaque
// base64(iv||ciphertext||tag) blob owned by fieldcrypt; the layout is
// never inspected here.
type Company struct {
	ID           string
	Name         string
	EncryptedEIN string
	CreatedAt    time.Time
}
