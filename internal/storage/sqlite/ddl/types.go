// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "disasteretl/internal/ddl"
)

// MapType maps a logical type into a SQLite column type. SQLite is
// dynamically typed, so these are affinities:
//   - int   -> INTEGER
//   - float -> REAL
//   - text and anything unknown -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInt, "integer", "bigint":
		return "INTEGER"
	case gddl.TypeFloat, "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}
