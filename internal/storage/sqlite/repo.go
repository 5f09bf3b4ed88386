// Package sqlite implements the SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. SQLite has no bulk
// load API, so rows go through a prepared INSERT inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"disasteretl/internal/frame"
	"disasteretl/internal/storage"
	sqliteddl "disasteretl/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens the SQLite database at cfg.DSN, creating the file if
// needed, and returns a Repository plus a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer; keeps the transaction on a single connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// ReplaceTable drops req.Table, runs req.CreateSQL and inserts rows in one
// transaction. Any error rolls the whole replacement back.
func (r *Repository) ReplaceTable(ctx context.Context, req storage.ReplaceRequest, rows [][]any) (int64, error) {
	if len(req.Columns) == 0 {
		return 0, fmt.Errorf("sqlite: ReplaceTable: columns must not be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table := sqliteddl.QuoteFQN(req.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return 0, fmt.Errorf("sqlite: drop %s: %w", req.Table, err)
	}
	if _, err := tx.ExecContext(ctx, req.CreateSQL); err != nil {
		return 0, fmt.Errorf("sqlite: create %s: %w", req.Table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, req.Columns))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	n, err := storage.LoadBatches(ctx, req.Columns, rows, req.BatchSize,
		func(ctx context.Context, _ []string, batch [][]any) (int64, error) {
			var inserted int64
			for _, row := range batch {
				if _, err := stmt.ExecContext(ctx, row...); err != nil {
					return inserted, fmt.Errorf("sqlite: insert: %w", err)
				}
				inserted++
			}
			return inserted, nil
		})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	committed = true
	return n, nil
}

// ReadTable returns every row of table in rowid order. TEXT values come back
// as strings, INTEGER as int64 and REAL as float64.
func (r *Repository) ReadTable(ctx context.Context, table string) (*frame.Frame, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+sqliteddl.QuoteFQN(table)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("sqlite: select %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: columns: %w", err)
	}
	out, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		if err := out.Append(vals); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}

func insertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = sqliteddl.QuoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(marks, ", "))
}
