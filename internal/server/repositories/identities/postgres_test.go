package identities

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/lockout"
	"github.com/ledgerline/payroll-server/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func identityRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role", "company_id",
		"active", "deleted", "failed_login_attempts", "locked_until", "last_login_at",
		"remember_me", "created_at",
	})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+identities\s*\(.+\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+created_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("id-1", "dana@acme.test", "digest", "Dana", "Kim", "admin", "co-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	identity := &models.Identity{
		ID: "id-1", Email: "dana@acme.test", PasswordHash: "digest",
		FirstName: "Dana", LastName: "Kim", Role: "admin", CompanyID: "co-1", Active: true,
	}
	got, err := repo.Create(context.Background(), identity)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned: %v", got.CreatedAt)
	}
}

func TestCreate_GeneratesID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+identities\s*\(.+\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "dana@acme.test", "digest", "", "", "", "co-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := repo.Create(context.Background(), &models.Identity{
		Email: "dana@acme.test", PasswordHash: "digest", CompanyID: "co-1", Active: true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+identities\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s+AND\s+deleted\s*=\s*false\s*$`

	lockedUntil := time.Now().Add(10 * time.Minute)
	rows := identityRows(t).AddRow(
		"id-1", "dana@acme.test", "digest", "Dana", "Kim", "admin", "co-1",
		true, false, 3, lockedUntil, nil, false, time.Now())
	mock.ExpectQuery(q).WithArgs("Dana@Acme.Test").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "Dana@Acme.Test")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "id-1" || got.Email != "dana@acme.test" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.Lockout.FailedAttempts != 3 || got.Lockout.LockedUntil == nil {
		t.Fatalf("lockout state not scanned: %+v", got.Lockout)
	}
	if got.LastLoginAt != nil {
		t.Fatalf("expected nil last_login_at, got %v", got.LastLoginAt)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+identities\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s+AND\s+deleted\s*=\s*false\s*$`
	mock.ExpectQuery(q).WithArgs("nobody@acme.test").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@acme.test")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+identities\s+WHERE\s+id\s*=\s*\$1\s+AND\s+deleted\s*=\s*false\s*$`
	mock.ExpectQuery(q).WithArgs("id-1").WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), "id-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestRecordFailedLogin_IncrementsInSQL(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+identities\s+SET\s+failed_login_attempts\s*=\s*failed_login_attempts\s*\+\s*1\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordFailedLogin(context.Background(), "id-1"); err != nil {
		t.Fatalf("RecordFailedLogin error: %v", err)
	}
}

func TestRecordFailedLogin_UnknownID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+identities\s+SET\s+failed_login_attempts\s*=\s*failed_login_attempts\s*\+\s*1\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordFailedLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdateLockout(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+identities\s+SET\s+failed_login_attempts\s*=\s*\$2,\s*locked_until\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s*$`

	until := time.Now().Add(15 * time.Minute)
	mock.ExpectExec(q).
		WithArgs("id-1", 5, sql.NullTime{Time: until, Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLockout(context.Background(), "id-1", lockout.State{
		FailedAttempts: 5, LockedUntil: &until,
	})
	if err != nil {
		t.Fatalf("UpdateLockout error: %v", err)
	}

	// Clearing the lock stores NULL.
	mock.ExpectExec(q).
		WithArgs("id-1", 0, sql.NullTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLockout(context.Background(), "id-1", lockout.State{}); err != nil {
		t.Fatalf("UpdateLockout (clear) error: %v", err)
	}
}

func TestRecordLogin_ResetsLockoutAndStamps(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+identities\s+SET\s+failed_login_attempts\s*=\s*0,\s*locked_until\s*=\s*NULL,\s*last_login_at\s*=\s*\$2,\s*remember_me\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s*$`

	at := time.Now()
	mock.ExpectExec(q).WithArgs("id-1", at, true).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordLogin(context.Background(), "id-1", at, true); err != nil {
		t.Fatalf("RecordLogin error: %v", err)
	}
}
