// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "disasteretl/internal/ddl"
)

// MapType maps a logical type into a SQL Server column type. Unknown or empty
// kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case gddl.TypeInt, "integer", "bigint":
		return "BIGINT"
	case gddl.TypeFloat, "double":
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}
