package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// WithTx executes fn inside a repeatable-read transaction. Every document
// state transition runs through here so journal, inventory, and debt writes
// commit or roll back as one unit.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return TranslateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", TranslateError(err))
	}

	return nil
}

// TranslateError maps low-level pgx failures onto the domain taxonomy.
// Serialization and lock-timeout failures become shared.ErrIntegrity so the
// caller knows the whole transition is safe to retry.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization, deadlock, lock not available
			return fmt.Errorf("%w: %s", shared.ErrIntegrity, pgErr.Message)
		case "23505":
			return fmt.Errorf("%w: duplicate key %s", shared.ErrIntegrity, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: referenced row %s", shared.ErrNotFound, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}
