// Package transformer composes frame transformations. Clean is the cleaning
// stage of the pipeline: expand categories, then drop duplicate rows.
package transformer

import (
	"fmt"

	"disasteretl/internal/frame"
	"disasteretl/internal/transformer/builtin"
)

// Transformer turns one frame into another without modifying its input.
type Transformer interface {
	Apply(*frame.Frame) (*frame.Frame, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer in order, stopping at the first error.
func (c Chain) Apply(in *frame.Frame) (*frame.Frame, error) {
	out := in
	for _, t := range c {
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Options configures Clean.
type Options struct {
	Categories builtin.ExpandCategories
}

// Stats summarizes a Clean run.
type Stats struct {
	RowsIn     int
	RowsOut    int
	Duplicates int
	Categories []string
}

// Clean expands the category column into numeric columns and removes rows
// that duplicate an earlier row in every column.
func Clean(in *frame.Frame, opt Options) (*frame.Frame, error) {
	out, _, err := CleanWithStats(in, opt)
	return out, err
}

// CleanWithStats is Clean plus a summary of what changed.
func CleanWithStats(in *frame.Frame, opt Options) (*frame.Frame, Stats, error) {
	st := Stats{RowsIn: in.Len()}

	names, err := opt.Categories.Names(in)
	if err != nil {
		return nil, st, fmt.Errorf("clean: %w", err)
	}
	st.Categories = names

	out, err := Chain{opt.Categories, builtin.DeDup{}}.Apply(in)
	if err != nil {
		return nil, st, fmt.Errorf("clean: %w", err)
	}
	st.RowsOut = out.Len()
	st.Duplicates = st.RowsIn - st.RowsOut
	return out, st, nil
}
