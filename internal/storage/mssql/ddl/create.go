// Package ddl renders ddl.TableDef as T-SQL with bracket-quoted identifiers.
package ddl

import (
	"fmt"
	"strings"

	gddl "disasteretl/internal/ddl"
)

// BuildCreateTableSQL returns a T-SQL CREATE TABLE statement for t:
//
//	CREATE TABLE [dbo].[Project2] (
//	  [id] BIGINT NULL,
//	  [message] NVARCHAR(MAX) NULL
//	);
//
// Nullability is always spelled out because the server default depends on
// ANSI_NULL_DFLT settings.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mssql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", fqn)
		}
		null := " NOT NULL"
		if c.Nullable {
			null = " NULL"
		}
		cols = append(cols, QuoteIdent(c.Name)+" "+MapType(c.Type)+null)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// QuoteIdent quotes a single identifier segment using bracket syntax:
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified table name:
//
//	"dbo.Project2" -> [dbo].[Project2]
//	"Project2"     -> [Project2]
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, QuoteIdent(p))
	}
	return strings.Join(out, ".")
}
