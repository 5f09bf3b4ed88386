// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "disasteretl/internal/ddl"
)

// MapType normalizes a logical type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint"   -> BIGINT
//	"float"/"double"           -> DOUBLE PRECISION
//	everything else            -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInt, "integer", "bigint":
		return "BIGINT"
	case gddl.TypeFloat, "double":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
