// Package mssql implements the Microsoft SQL Server storage.Repository using
// go-mssqldb. Rows are loaded with the bulk copy API inside the replacing
// transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"disasteretl/internal/storage"
	msddl "disasteretl/internal/storage/mssql/ddl"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// ReplaceTable drops req.Table, runs req.CreateSQL and bulk copies rows in one
// transaction. SQL Server DDL is transactional, so a failure restores the
// previous table.
func (r *Repository) ReplaceTable(ctx context.Context, req storage.ReplaceRequest, rows [][]any) (int64, error) {
	if len(req.Columns) == 0 {
		return 0, fmt.Errorf("mssql: ReplaceTable: columns must not be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table := msddl.QuoteFQN(req.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("drop %s: %w", req.Table, err)
	}
	if _, err := tx.ExecContext(ctx, req.CreateSQL); err != nil {
		return 0, fmt.Errorf("create %s: %w", req.Table, err)
	}

	n, err := storage.LoadBatches(ctx, req.Columns, rows, req.BatchSize,
		func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
			return bulkCopy(ctx, tx, table, columns, batch)
		})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return n, nil
}

// bulkCopy sends one batch through mssql.CopyIn and returns the server's row
// count.
func bulkCopy(ctx context.Context, tx *sql.Tx, table string, columns []string, batch [][]any) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, columns...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range batch {
		if _, err := stmt.ExecContext(ctx, batch[i]...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
