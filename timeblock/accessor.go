package timeblock

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// querier is satisfied by *sql.DB and *sql.Tx so the same data-access code
// runs both inside and outside a WithBlockLock transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Accessor is the DB layer entrypoint for time-block queries.
type Accessor struct {
	db  *sql.DB
	q   querier
	now func() time.Time
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db, q: db, now: time.Now}
}

// WithBlockLock serializes the enclosed check-and-write against other writers
// for the same student and day. It takes a Postgres advisory lock scoped to
// the transaction, so the lock releases on commit or rollback.
func (a *Accessor) WithBlockLock(ctx context.Context, studentID int, day string, fn func(Store) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, studentID, day); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(&Accessor{db: a.db, q: tx, now: a.now}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
