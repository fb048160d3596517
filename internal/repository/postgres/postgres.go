package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor abstracts the subset of pgxpool.Pool and pgx.Tx the repositories
// rely on, so tests can substitute a mock pool.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStarter is satisfied by pool-like executors that can open transactions.
type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
