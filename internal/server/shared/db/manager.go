// Package db wires the relational store: it opens the connection, runs
// migrations, and hands out repository instances over a shared handle.
package db

import (
	"context"
	"database/sql"

	"github.com/ledgerline/payroll-server/internal/server/repositories/companies"
	"github.com/ledgerline/payroll-server/internal/server/repositories/employees"
	"github.com/ledgerline/payroll-server/internal/server/repositories/identities"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Identities() identities.Repository
	Companies() companies.Repository
	Employees() employees.Repository
}
