package storage

import (
	"context"
	"fmt"

	"disasteretl/internal/config"
	"disasteretl/internal/ddl"
	"disasteretl/internal/frame"
	"disasteretl/internal/metrics"
)

// SaveOptions configures Save. Zero values take the defaults.
type SaveOptions struct {
	Kind      string // overrides the kind derived from the destination
	Table     string // default config.DefaultTable
	BatchSize int    // default 5000
	Job       string // metrics job label
}

func (o SaveOptions) withDefaults() SaveOptions {
	if o.Table == "" {
		o.Table = config.DefaultTable
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 5000
	}
	if o.Job == "" {
		o.Job = "process_data"
	}
	return o
}

// Save replaces the destination table with the contents of f and returns the
// number of rows written. dest picks the backend (see KindFromDestination).
//
// The table schema is inferred from f; the row index is not stored. The drop,
// create and insert run in one transaction, so a failed Save leaves any
// previous table as it was.
func Save(ctx context.Context, f *frame.Frame, dest string, opt SaveOptions) (int64, error) {
	opt = opt.withDefaults()

	kind, dsn, err := KindFromDestination(dest)
	if err != nil {
		return 0, err
	}
	if opt.Kind != "" {
		kind = opt.Kind
	}
	td, err := ddl.FromFrame(opt.Table, f)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	createSQL, err := BuildCreateSQL(kind, td)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}

	repo, err := New(ctx, Config{Kind: kind, DSN: dsn})
	if err != nil {
		return 0, fmt.Errorf("save: open %s: %w", kind, err)
	}
	defer repo.Close()

	n, err := repo.ReplaceTable(ctx, ReplaceRequest{
		Table:     opt.Table,
		CreateSQL: createSQL,
		Columns:   td.Names(),
		BatchSize: opt.BatchSize,
	}, ddl.Conform(td, f.Rows))
	if err != nil {
		return 0, fmt.Errorf("save: replace %s: %w", opt.Table, err)
	}

	metrics.RecordRow(opt.Job, "inserted", n)
	metrics.RecordBatches(opt.Job, (n+int64(opt.BatchSize)-1)/int64(opt.BatchSize))
	return n, nil
}
