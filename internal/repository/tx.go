package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sqlcart/internal/db"
)

const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

// txScope is either bound to a pool, and opens a transaction per write path,
// or to a caller-owned transaction, in which case pool is nil.
type txScope struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func inTx[T any](ctx context.Context, s txScope, fn func(q *db.Queries) (T, error)) (_ T, txErr error) {
	var zero T

	if s.pool == nil {
		return fn(s.q)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(s.q.WithTx(tx))
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == numericValueOutOfRange
}
