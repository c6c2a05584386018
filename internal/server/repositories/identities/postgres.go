package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/dbx"
	"github.com/ledgerline/payroll-server/internal/lockout"
	"github.com/ledgerline/payroll-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const identityColumns = `id, email, password_hash, first_name, last_name, role, company_id,
	active, deleted, failed_login_attempts, locked_until, last_login_at, remember_me, created_at`

func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO identities (id, email, password_hash, first_name, last_name, role, company_id, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash, identity.FirstName,
		identity.LastName, identity.Role, identity.CompanyID, identity.Active).Scan(&identity.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return identity, nil
}

// GetByEmail looks up a non-deleted identity by email, matched
// case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + `
		 FROM identities
		 WHERE lower(email) = lower($1) AND deleted = false
		 `

	return r.scanIdentity(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + `
		 FROM identities
		 WHERE id = $1 AND deleted = false
		 `

	return r.scanIdentity(r.db.QueryRowContext(ctx, query, id))
}

// RecordFailedLogin increments the failed-attempt counter by exactly
// one. The increment happens in SQL so concurrent failures against the
// same identity serialize through the store instead of losing updates.
// It never sets locked_until; the lock policy is applied separately via
// UpdateLockout.
func (r *PostgresRepository) RecordFailedLogin(ctx context.Context, id string) error {
	query :=
		`UPDATE identities SET failed_login_attempts = failed_login_attempts + 1
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// UpdateLockout persists the failed-attempt counter and lock window.
// The login flow never sets a lock itself (the trip threshold is an
// undecided policy); this is the write path for operator tooling and a
// future policy to apply or clear a lock.
func (r *PostgresRepository) UpdateLockout(ctx context.Context, id string, state lockout.State) error {
	query :=
		`UPDATE identities SET failed_login_attempts = $2, locked_until = $3
		 WHERE id = $1
		 `

	var lockedUntil sql.NullTime
	if state.LockedUntil != nil {
		lockedUntil = sql.NullTime{Time: *state.LockedUntil, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, id, state.FailedAttempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// RecordLogin clears the lockout state, stamps the last successful login
// and stores the remember-me preference in one update.
func (r *PostgresRepository) RecordLogin(ctx context.Context, id string, at time.Time, rememberMe bool) error {
	query :=
		`UPDATE identities SET failed_login_attempts = 0, locked_until = NULL, last_login_at = $2, remember_me = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, at, rememberMe)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) scanIdentity(row *sql.Row) (*models.Identity, error) {
	identity := &models.Identity{}
	var lockedUntil, lastLoginAt sql.NullTime

	err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash,
		&identity.FirstName, &identity.LastName, &identity.Role, &identity.CompanyID,
		&identity.Active, &identity.Deleted, &identity.Lockout.FailedAttempts,
		&lockedUntil, &lastLoginAt, &identity.RememberMe, &identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lockedUntil.Valid {
		identity.Lockout.LockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		identity.LastLoginAt = &lastLoginAt.Time
	}

	return identity, nil
}

func requireRow(res sql.Result) error {
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
