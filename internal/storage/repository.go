// Package storage holds the backend-agnostic write path: the Repository
// contract, the backend and DDL registries, the batched loader and Save, the
// pipeline's Writer stage.
//
// Concrete backends live in subpackages (sqlite, postgres, mssql) and register
// themselves from init; import internal/storage/all to enable every backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownKind is returned when no backend is registered for a kind.
var ErrUnknownKind = errors.New("unknown storage kind")

// Config selects and configures a backend.
type Config struct {
	Kind string // "sqlite", "postgres", "mssql"
	DSN  string // driver-specific connection string or file path
}

// ReplaceRequest describes a full table replacement.
type ReplaceRequest struct {
	// Table is the unquoted destination table name.
	Table string
	// CreateSQL is the backend-rendered CREATE TABLE statement.
	CreateSQL string
	// Columns is the insert column order; every row has len(Columns) values.
	Columns []string
	// BatchSize is the number of rows per bulk insert call.
	BatchSize int
}

// Repository is implemented by every backend.
//
// ReplaceTable drops Table if it exists, runs CreateSQL and inserts rows, all
// in one transaction. On error nothing is committed and any prior table is
// left untouched. It returns the number of rows inserted.
type Repository interface {
	ReplaceTable(ctx context.Context, req ReplaceRequest, rows [][]any) (int64, error)
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind. An
// unknown kind fails with ErrUnknownKind and the list of registered kinds.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage.kind=%q: %w (registered: %s)",
			cfg.Kind, ErrUnknownKind, strings.Join(ListKinds(), ", "))
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KindFromDestination maps a destination string to a backend kind and the DSN
// that backend expects:
//
//	postgres://... or postgresql://...  -> "postgres", dest unchanged
//	sqlserver://...                      -> "mssql", dest unchanged
//	sqlite://path                        -> "sqlite", path
//	anything else                        -> "sqlite", dest as a file path
func KindFromDestination(dest string) (kind, dsn string, err error) {
	d := strings.TrimSpace(dest)
	if d == "" {
		return "", "", fmt.Errorf("storage: empty destination")
	}
	lower := strings.ToLower(d)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", d, nil
	case strings.HasPrefix(lower, "sqlserver://"):
		return "mssql", d, nil
	case strings.HasPrefix(lower, "sqlite://"):
		path := d[len("sqlite://"):]
		if path == "" {
			return "", "", fmt.Errorf("storage: sqlite destination %q has no path", dest)
		}
		return "sqlite", path, nil
	default:
		return "sqlite", d, nil
	}
}
