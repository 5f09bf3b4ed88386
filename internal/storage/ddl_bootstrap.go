package storage

import (
	"fmt"
	"sync"

	"disasteretl/internal/ddl"
)

// DDLBuilder renders a backend-specific CREATE TABLE statement for td.
// Backends register one per storage kind at init time.
type DDLBuilder func(td ddl.TableDef) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) the DDL builder for kind.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// BuildCreateSQL renders td with the builder registered for kind.
func BuildCreateSQL(kind string, td ddl.TableDef) (string, error) {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no DDL builder for storage.kind=%q: %w", kind, ErrUnknownKind)
	}
	return fn(td)
}
