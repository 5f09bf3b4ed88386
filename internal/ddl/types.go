package ddl

// ColumnDef is one output column. Type is the logical type inferred from the
// frame (TypeInt, TypeFloat, TypeText); each backend maps it to its dialect.
type ColumnDef struct {
	Name     string
	Type     string
	Nullable bool
}

// TableDef is a table name (optionally "schema.table") and its ordered
// columns. Names are unquoted; renderers quote them.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Names returns the column names in order.
func (t TableDef) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
