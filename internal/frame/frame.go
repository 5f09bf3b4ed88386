// Package frame is a small in-memory table used between the pipeline stages.
//
// A Frame is an ordered list of column names plus rows aligned to that order.
// Cells hold one of nil (missing value), int64, float64 or string. Operations
// return new frames; a frame passed to a function is never modified in place.
package frame

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn is returned when an operation would produce two columns
// with the same name.
var ErrDuplicateColumn = errors.New("duplicate column")

// Frame is a row-oriented table.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New returns an empty frame with the given columns. It fails when a column
// name repeats.
func New(columns ...string) (*Frame, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("frame: %w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = struct{}{}
	}
	cols := append([]string(nil), columns...)
	return &Frame{Columns: cols}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool { return f.Index(name) >= 0 }

// Append adds a row. The row length must match the column count.
func (f *Frame) Append(row []any) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("frame: row length %d != columns length %d", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// Clone returns a deep copy of the frame's structure. Cell values are
// immutable scalars, so copying the row slices is sufficient.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]any, len(f.Rows)),
	}
	for i, r := range f.Rows {
		out.Rows[i] = append([]any(nil), r...)
	}
	return out
}

// Drop returns a new frame without column name.
func (f *Frame) Drop(name string) (*Frame, error) {
	idx := f.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("frame: drop: no column %q", name)
	}
	out := &Frame{
		Columns: make([]string, 0, len(f.Columns)-1),
		Rows:    make([][]any, len(f.Rows)),
	}
	out.Columns = append(out.Columns, f.Columns[:idx]...)
	out.Columns = append(out.Columns, f.Columns[idx+1:]...)
	for i, r := range f.Rows {
		nr := make([]any, 0, len(r)-1)
		nr = append(nr, r[:idx]...)
		nr = append(nr, r[idx+1:]...)
		out.Rows[i] = nr
	}
	return out, nil
}

// HConcat joins two frames side by side, pairing rows by position. Both
// frames must have the same number of rows and disjoint column names.
func HConcat(left, right *Frame) (*Frame, error) {
	if left.Len() != right.Len() {
		return nil, fmt.Errorf("frame: concat: row counts differ (%d vs %d)", left.Len(), right.Len())
	}
	cols := make([]string, 0, len(left.Columns)+len(right.Columns))
	cols = append(cols, left.Columns...)
	cols = append(cols, right.Columns...)
	out, err := New(cols...)
	if err != nil {
		return nil, fmt.Errorf("frame: concat: %w", err)
	}
	out.Rows = make([][]any, left.Len())
	for i := range left.Rows {
		row := make([]any, 0, len(cols))
		row = append(row, left.Rows[i]...)
		row = append(row, right.Rows[i]...)
		out.Rows[i] = row
	}
	return out, nil
}
