package builtin

import (
	"errors"
	"fmt"

	"disasteretl/internal/frame"
)

// ErrNotNumeric is returned by Coerce for a value that is not a number.
var ErrNotNumeric = errors.New("not numeric")

// Coerce converts the string cells of Columns to numbers. Integer literals
// become int64, other numeric literals float64; a column that ends up holding
// any float64 is widened to float64 throughout. nil cells stay nil. Any other
// string fails the whole operation.
type Coerce struct {
	Columns []string
}

// Apply returns a coerced copy of in.
func (c Coerce) Apply(in *frame.Frame) (*frame.Frame, error) {
	out := in.Clone()
	for _, col := range c.Columns {
		idx := out.Index(col)
		if idx < 0 {
			return nil, fmt.Errorf("coerce: no column %q", col)
		}
		hasFloat := false
		for i, row := range out.Rows {
			switch v := row[idx].(type) {
			case string:
				n, ok := frame.ParseNumber(v)
				if !ok {
					return nil, fmt.Errorf("coerce: column %q row %d: %w: %q", col, i, ErrNotNumeric, v)
				}
				row[idx] = n
				if _, f := n.(float64); f {
					hasFloat = true
				}
			case float64:
				hasFloat = true
			}
		}
		if hasFloat {
			widen(out.Rows, idx)
		}
	}
	return out, nil
}

// widen converts every int64 in column idx to float64.
func widen(rows [][]any, idx int) {
	for _, row := range rows {
		if i, ok := row[idx].(int64); ok {
			row[idx] = float64(i)
		}
	}
}
