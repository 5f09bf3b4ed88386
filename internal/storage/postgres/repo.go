// Package postgres implements the Postgres storage.Repository using pgx v5.
// Rows are bulk loaded with COPY inside the replacing transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"disasteretl/internal/storage"
	pgddl "disasteretl/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// ReplaceTable drops req.Table, runs req.CreateSQL and COPYs rows in one
// transaction. Postgres DDL is transactional, so a failure restores the
// previous table.
func (r *Repository) ReplaceTable(ctx context.Context, req storage.ReplaceRequest, rows [][]any) (int64, error) {
	if len(req.Columns) == 0 {
		return 0, fmt.Errorf("postgres: ReplaceTable: columns must not be empty")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	// No-op after a successful Commit.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgddl.QuoteFQN(req.Table)); err != nil {
		return 0, fmt.Errorf("postgres: drop %s: %w", req.Table, pgError(err))
	}
	if _, err := tx.Exec(ctx, req.CreateSQL); err != nil {
		return 0, fmt.Errorf("postgres: create %s: %w", req.Table, pgError(err))
	}

	ident := pgx.Identifier(pgddl.SplitFQN(req.Table))
	n, err := storage.LoadBatches(ctx, req.Columns, rows, req.BatchSize,
		func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
			n, err := tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(batch))
			if err != nil {
				return n, fmt.Errorf("postgres: copy: %w", pgError(err))
			}
			return n, nil
		})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// pgError adds the server-side detail and SQLSTATE when err carries them.
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s: %s)", err, pgErr.SQLState(), pgErr.Detail)
	}
	return err
}
