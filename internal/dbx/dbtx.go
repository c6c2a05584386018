// Package dbx holds the small database plumbing the repositories share:
// a handle interface satisfied by both *sql.DB and *sql.Tx, and a
// transaction wrapper. Repositories are constructed over a DBTX, so the
// same repository code runs standalone or inside a WithTx block.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql the repositories use. Both *sql.DB
// and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit on nil error, rollback on
// error or panic (the panic is rethrown). The employee sensitive-field
// update is the canonical caller; it builds a repository over the tx
// handle so its read and write cannot interleave with a concurrent
// update:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := employees.NewPostgresRepository(tx)
//	    ...
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
