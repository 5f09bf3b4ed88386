// Package ddl defines a small, backend-agnostic model for SQL DDL and infers
// it from a frame. Backend packages (internal/storage/<backend>/ddl) map the
// logical types to their dialect and render CREATE TABLE statements.
package ddl

import (
	"errors"
	"fmt"
	"strconv"

	"disasteretl/internal/frame"
)

// Logical column types.
const (
	TypeInt   = "int"
	TypeFloat = "float"
	TypeText  = "text"
)

// ErrUnsupportedType is returned for a cell whose Go type cannot be stored.
var ErrUnsupportedType = errors.New("unsupported column type")

// FromFrame infers a table definition named table from the values in f.
//
// A column holding only int64 (and nil) is "int"; int64 mixed with float64 is
// "float"; anything with a string is "text". A column with no values at all
// is "text". Every column is nullable and none is a primary key; the frame's
// row position is not stored.
func FromFrame(table string, f *frame.Frame) (TableDef, error) {
	if table == "" {
		return TableDef{}, fmt.Errorf("ddl: missing table")
	}
	if len(f.Columns) == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", table)
	}

	td := TableDef{FQN: table, Columns: make([]ColumnDef, len(f.Columns))}
	for j, name := range f.Columns {
		typ := ""
		for i, row := range f.Rows {
			switch v := row[j].(type) {
			case nil:
			case int64:
				if typ == "" {
					typ = TypeInt
				}
			case float64:
				if typ != TypeText {
					typ = TypeFloat
				}
			case string:
				typ = TypeText
			default:
				return TableDef{}, fmt.Errorf("ddl: column %q row %d: %w %T", name, i, ErrUnsupportedType, v)
			}
		}
		if typ == "" {
			typ = TypeText
		}
		td.Columns[j] = ColumnDef{Name: name, Type: typ, Nullable: true}
	}
	return td, nil
}

// Conform converts row values to the Go types expected for td's logical
// types: ints widen to float64 in "float" columns and numbers render as
// strings in "text" columns. rows is not modified.
func Conform(td TableDef, rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		nr := make([]any, len(row))
		for j, v := range row {
			nr[j] = conformValue(td.Columns[j].Type, v)
		}
		out[i] = nr
	}
	return out
}

func conformValue(typ string, v any) any {
	switch typ {
	case TypeFloat:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
	case TypeText:
		switch t := v.(type) {
		case int64:
			return strconv.FormatInt(t, 10)
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
	}
	return v
}
