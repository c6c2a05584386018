// Package companies handles tenant records and their encrypted EIN
// column, delegating the blob format entirely to fieldcrypt.
package companies

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerline/payroll-server/internal/fieldcrypt"
	"github.com/ledgerline/payroll-server/internal/server/models"
	"github.com/ledgerline/payroll-server/internal/server/repositories/companies"
)

type Service struct {
	db     *sql.DB
	cipher *fieldcrypt.Cipher
}

func NewService(db *sql.DB, cipher *fieldcrypt.Cipher) *Service {
	return &Service{db: db, cipher: cipher}
}

// Register creates a tenant, encrypting the EIN if one is supplied.
func (s *Service) Register(ctx context.Context, name, ein string) (*models.Company, error) {
	var blob string
	if ein != "" {
		var err error
		blob, err = s.cipher.EncryptEIN(ein)
		if err != nil {
			return nil, err
		}
	}

	repo := companies.NewPostgresRepository(s.db)
	company, err := repo.Create(ctx, &models.Company{Name: name, EncryptedEIN: blob})
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}
	return company, nil
}

// SetEIN replaces the stored EIN blob wholesale.
func (s *Service) SetEIN(ctx context.Context, id, ein string) error {
	blob, err := s.cipher.EncryptEIN(ein)
	if err != nil {
		return err
	}

	repo := companies.NewPostgresRepository(s.db)
	return repo.UpdateEIN(ctx, id, blob)
}

// GetEIN returns the decrypted EIN for a tenant.
func (s *Service) GetEIN(ctx context.Context, id string) (string, error) {
	repo := companies.NewPostgresRepository(s.db)
	company, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.cipher.DecryptEIN(company.EncryptedEIN)
}
