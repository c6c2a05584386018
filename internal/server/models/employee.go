package models

import "time"

// Employee carries the sensitive fields the CRUD layer persists through
// fieldcrypt. The Encrypted* columns hold opaque blobs; plaintext values
// exist only transiently inside the employees service.
type Employee struct {
	ID                     string
	CompanyID              string
	FirstName              string
	LastName               string
	EncryptedSSN           string
	EncryptedBankAccount   string
	EncryptedRoutingNumber string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
