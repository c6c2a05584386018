package employees

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

func (r *PostgresRepository) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO employees (id, company_id, first_name, last_name, encrypted_ssn, encrypted_bank_account, encrypted_routing_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		employee.ID, employee.CompanyID, employee.FirstName, employee.LastName,
		employee.EncryptedSSN, employee.EncryptedBankAccount, employee.EncryptedRoutingNumber).
		Scan(&employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employee, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query :=
		`SELECT id, company_id, first_name, last_name, encrypted_ssn, encrypted_bank_account, encrypted_routing_number, created_at, updated_at
		 FROM employees
		 WHERE id = $1
		 `

	employee := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&employee.ID, &employee.CompanyID, &employee.FirstName, &employee.LastName,
		&employee.EncryptedSSN, &employee.EncryptedBankAccount, &employee.EncryptedRoutingNumber,
		&employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employee, nil
}

// Update replaces the name fields and every encrypted blob wholesale.
func (r *PostgresRepository) Update(ctx context.Context, employee *models.Employee) error {
	query :=
		`UPDATE employees SET first_name = $2, last_name = $3, encrypted_ssn = $4, encrypted_bank_account = $5, encrypted_routing_number = $6, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		employee.ID, employee.FirstName, employee.LastName,
		employee.EncryptedSSN, employee.EncryptedBankAccount, employee.EncryptedRoutingNumber)

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
