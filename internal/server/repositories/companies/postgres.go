package companies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/dbx"
	"github.com/ledgerline/payroll-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO companies (id, name, encrypted_ein)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		company.ID, company.Name, company.EncryptedEIN).Scan(&company.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return company, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	query :=
		`SELECT id, name, encrypted_ein, created_at FROM companies
		 WHERE id = $1
		 `

	company := &models.Company{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&company.ID, &company.Name, &company.EncryptedEIN, &company.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return company, nil
}

// UpdateEIN replaces the stored EIN blob wholesale; encrypted fields are
// never partially rewritten.
func (r *PostgresRepository) UpdateEIN(ctx context.Context, id string, encryptedEIN string) error {
	query :=
		`UPDATE companies SET encrypted_ein = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, encryptedEIN)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
