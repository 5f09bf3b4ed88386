package ddl

import (
	"fmt"
	"strings"

	gddl "disasteretl/internal/ddl"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for t:
//
//	CREATE TABLE "Project2" (
//	  "id" INTEGER,
//	  "message" TEXT
//	);
//
// The caller drops any existing table first, so there is no IF NOT EXISTS.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", fqn)
		}
		col := QuoteIdent(c.Name) + " " + MapType(c.Type)
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// QuoteIdent double-quotes a single identifier, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each dot-separated segment of fqn, skipping empty ones.
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
