// Package employees is the thin persistence boundary for employee
// records. Its one interesting job is sealing the sensitive fields
// (SSN, bank account, routing number) through fieldcrypt before they
// reach their columns and unsealing them on read; everything else is
// mechanical CRUD.
package employees

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerline/payroll-server/internal/dbx"
	"github.com/ledgerline/payroll-server/internal/fieldcrypt"
	"github.com/ledgerline/payroll-server/internal/server/models"
	"github.com/ledgerline/payroll-server/internal/server/repositories/employees"
)

// SensitiveFields carries plaintext values on their way into or out of
// the cipher. Instances are short-lived and never logged.
type SensitiveFields struct {
	SSN           string
	BankAccount   string
	RoutingNumber string
}

type Service struct {
	db     *sql.DB
	cipher *fieldcrypt.Cipher
}

func NewService(db *sql.DB, cipher *fieldcrypt.Cipher) *Service {
	return &Service{db: db, cipher: cipher}
}

// Create seals the sensitive fields and inserts the employee.
func (s *Service) Create(ctx context.Context, companyID, firstName, lastName string, fields SensitiveFields) (*models.Employee, error) {
	employee := &models.Employee{
		CompanyID: companyID,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.seal(employee, fields); err != nil {
		return nil, err
	}

	repo := employees.NewPostgresRepository(s.db)
	created, err := repo.Create(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}
	return created, nil
}

// Get returns the employee record along with its decrypted sensitive
// fields. The stored blobs are trusted once the tag verifies; no format
// re-validation happens on the way out.
func (s *Service) Get(ctx context.Context, id string) (*models.Employee, *SensitiveFields, error) {
	repo := employees.NewPostgresRepository(s.db)
	employee, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	fields, err := s.unseal(employee)
	if err != nil {
		return nil, nil, err
	}
	return employee, fields, nil
}

// UpdateSensitive replaces the employee's encrypted fields wholesale.
// The read and write run in one transaction so a concurrent update
// cannot interleave between them.
func (s *Service) UpdateSensitive(ctx context.Context, id string, fields SensitiveFields) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := employees.NewPostgresRepository(tx)

		employee, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.seal(employee, fields); err != nil {
			return err
		}
		return repo.Update(ctx, employee)
	})
}

func (s *Service) seal(employee *models.Employee, fields SensitiveFields) error {
	ssn, err := s.cipher.EncryptSSN(fields.SSN)
	if err != nil {
		return err
	}
	account, err := s.cipher.EncryptBankAccount(fields.BankAccount)
	if err != nil {
		return err
	}
	routing, err := s.cipher.EncryptRoutingNumber(fields.RoutingNumber)
	if err != nil {
		return err
	}

	employee.EncryptedSSN = ssn
	employee.EncryptedBankAccount = account
	employee.EncryptedRoutingNumber = routing
	return nil
}

func (s *Service) unseal(employee *models.Employee) (*SensitiveFields, error) {
	ssn, err := s.cipher.DecryptSSN(employee.EncryptedSSN)
	if err != nil {
		return nil, err
	}
	account, err := s.cipher.DecryptBankAccount(employee.EncryptedBankAccount)
	if err != nil {
		return nil, err
	}
	routing, err := s.cipher.DecryptRoutingNumber(employee.EncryptedRoutingNumber)
	if err != nil {
		return nil, err
	}

	return &SensitiveFields{SSN: ssn, BankAccount: account, RoutingNumber: routing}, nil
}
