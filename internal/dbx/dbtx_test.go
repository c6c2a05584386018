package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS login_counters (id TEXT PRIMARY KEY, attempts INTEGER NOT NULL DEFAULT 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM login_counters`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO login_counters (id, attempts) VALUES ('id-1', 0)`)
	require.NoError(t, err)
	return db
}

func attempts(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT attempts FROM login_counters WHERE id = 'id-1'`).Scan(&n))
	return n
}

func bump(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE login_counters SET attempts = attempts + 1 WHERE id = 'id-1'`)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return bump(ctx, tx)
	})
	require.NoError(t, err)
	require.Equal(t, 1, attempts(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, bump(ctx, tx))
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, 0, attempts(t, db), "increment must not survive the rollback")
}

func TestWithTx_RollsBackAndRethrowsOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, attempts(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, bump(ctx, tx))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
}

func TestWithTx_RowVisibleInsideTx(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := bump(ctx, tx); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT attempts FROM login_counters WHERE id = 'id-1'`).Scan(&n); err != nil {
			return err
		}
		require.Equal(t, 1, n, "tx must see its own write")
		return nil
	})
	require.NoError(t, err)
}
