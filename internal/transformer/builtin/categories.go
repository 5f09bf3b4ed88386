// Package builtin contains the frame transformers used by the cleaner.
package builtin

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"disasteretl/internal/frame"
)

var (
	// ErrNoCategories is returned when the first row carries no category
	// tokens to derive column names from.
	ErrNoCategories = errors.New("no categories in first row")

	// ErrBadToken is returned for a token without a name/value separator.
	ErrBadToken = errors.New("malformed category token")

	// ErrCategoryMismatch is returned when a row's tokens do not line up with
	// the names derived from the first row.
	ErrCategoryMismatch = errors.New("category tokens do not match first row")
)

// ExpandCategories replaces an encoded category column such as
// "related-1;request-0;offer-0" with one numeric column per category.
//
// Column names come from the first row only: each token's text before its
// last ValueSeparator. Every row's value at position i lands in column i; the
// suffix after the last ValueSeparator is coerced to a number. Values outside
// {0,1} are kept as they are.
//
// With Strict unset, a row with fewer tokens (or no categories at all) gets
// nil for the missing positions and token names are not checked. With Strict
// set, any count or name mismatch fails. A row with more tokens than the first
// row always fails.
type ExpandCategories struct {
	Column         string
	Separator      string
	ValueSeparator string
	Strict         bool
}

func (e ExpandCategories) withDefaults() ExpandCategories {
	if e.Column == "" {
		e.Column = "categories"
	}
	if e.Separator == "" {
		e.Separator = ";"
	}
	if e.ValueSeparator == "" {
		e.ValueSeparator = "-"
	}
	return e
}

// Names derives the category column names from the first row of in.
func (e ExpandCategories) Names(in *frame.Frame) ([]string, error) {
	e = e.withDefaults()
	idx := in.Index(e.Column)
	if idx < 0 {
		return nil, fmt.Errorf("categories: no column %q", e.Column)
	}
	if in.Len() == 0 {
		return nil, fmt.Errorf("categories: %w: input is empty", ErrNoCategories)
	}
	s := cellString(in.Rows[0][idx])
	if s == "" {
		return nil, fmt.Errorf("categories: %w", ErrNoCategories)
	}
	tokens := strings.Split(s, e.Separator)
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		name, _, err := e.splitToken(tok)
		if err != nil {
			return nil, fmt.Errorf("categories: row 0: %w", err)
		}
		names[i] = name
	}
	return names, nil
}

// Apply returns a new frame without e.Column and with the category columns
// appended in first-row order.
func (e ExpandCategories) Apply(in *frame.Frame) (*frame.Frame, error) {
	e = e.withDefaults()
	names, err := e.Names(in)
	if err != nil {
		return nil, err
	}
	idx := in.Index(e.Column)

	values, err := frame.New(names...)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	values.Rows = make([][]any, in.Len())
	short := 0
	for i, row := range in.Rows {
		cells := make([]any, len(names))
		values.Rows[i] = cells

		s := cellString(row[idx])
		if s == "" {
			if e.Strict {
				return nil, fmt.Errorf("categories: row %d: %w: no categories", i, ErrCategoryMismatch)
			}
			short++
			continue
		}
		tokens := strings.Split(s, e.Separator)
		if len(tokens) > len(names) || (e.Strict && len(tokens) != len(names)) {
			return nil, fmt.Errorf("categories: row %d: %w: %d tokens, want %d", i, ErrCategoryMismatch, len(tokens), len(names))
		}
		if len(tokens) < len(names) {
			short++
		}
		for j, tok := range tokens {
			name, val, err := e.splitToken(tok)
			if err != nil {
				return nil, fmt.Errorf("categories: row %d: %w", i, err)
			}
			if e.Strict && name != names[j] {
				return nil, fmt.Errorf("categories: row %d position %d: %w: %q, want %q", i, j, ErrCategoryMismatch, name, names[j])
			}
			cells[j] = val
		}
	}
	if short > 0 {
		log.Printf("categories: %d rows with missing category values", short)
	}

	values, err = Coerce{Columns: names}.Apply(values)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	rest, err := in.Drop(e.Column)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	out, err := frame.HConcat(rest, values)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return out, nil
}

// splitToken cuts tok at its last value separator.
func (e ExpandCategories) splitToken(tok string) (name, value string, err error) {
	i := strings.LastIndex(tok, e.ValueSeparator)
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	return tok[:i], tok[i+len(e.ValueSeparator):], nil
}

// cellString renders a cell as text; nil is "".
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
