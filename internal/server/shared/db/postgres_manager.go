package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ledgerline/payroll-server/internal/server/migrations"
	"github.com/ledgerline/payroll-server/internal/server/repositories/companies"
	"github.com/ledgerline/payroll-server/internal/server/repositories/employees"
	"github.com/ledgerline/payroll-server/internal/server/repositories/identities"
)

type PostgresRepositoryManager struct {
	db         *sql.DB
	identities identities.Repository
	companies  companies.Repository
	employees  employees.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Identities() identities.Repository {
	return m.identities
}

func (m *PostgresRepositoryManager) Companies() companies.Repository {
	return m.companies
}

func (m *PostgresRepositoryManager) Employees() employees.Repository {
	return m.employees
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:         db,
		identities: identities.NewPostgresRepository(db),
		companies:  companies.NewPostgresRepository(db),
		employees:  employees.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
