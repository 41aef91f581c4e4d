package db

import (
	"context"
	"database/sql"

	"meetreg/internal/domain"
)

// DBTX is the subset of *sql.DB and *sql.Tx that repositories use. Binding
// repositories to this interface lets the registration replacer run its whole
// load-validate-commit sequence against one transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx executes fn inside a single transaction on the write pool. With the
// immediate-mode DSN the write lock is taken at BEGIN, so nothing fn reads can
// be invalidated by a concurrent writer before commit. Domain errors from fn
// pass through untouched; begin/commit failures surface as PersistenceError.
func RunInTx(ctx context.Context, writeDB *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := writeDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrPersistence(err, "begin transaction")
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrPersistence(err, "commit transaction")
	}
	return nil
}
