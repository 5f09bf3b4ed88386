package ddl

import (
	"fmt"
	"strings"

	gddl "disasteretl/internal/ddl"
)

// BuildCreateTableSQL builds a Postgres CREATE TABLE statement for t.
// Identifiers are double-quoted, so mixed-case names like Project2 keep
// their case.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("postgres ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("postgres ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("postgres ddl: column with empty name in table %s", fqn)
		}
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c.Type))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// QuoteIdent quotes a single identifier segment for Postgres:
//
//	QuoteIdent(`related`)    => `"related"`
//	QuoteIdent(`weird"name`) => `"weird""name"`
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes a possibly schema-qualified name like "public.Project2" to
// `"public"."Project2"`. Empty segments are ignored.
func QuoteFQN(f string) string {
	parts := SplitFQN(f)
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// SplitFQN splits a dotted name into its non-empty segments.
func SplitFQN(f string) []string {
	raw := strings.Split(f, ".")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
