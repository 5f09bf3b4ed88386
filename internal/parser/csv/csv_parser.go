// Package csv reads delimited text files into a frame.Frame. The first row is
// the header; column types are inferred from the body so that identifier
// columns come out as integers and free text stays text.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"disasteretl/internal/frame"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value before
	// type inference. Headers are always trimmed.
	TrimSpace bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the whole input. Rows whose width differs from the header, or
// with broken quoting, fail the parse. Empty fields become nil.
func (p *Parser) Parse(r io.Reader) (*frame.Frame, error) {
	// A leading UTF-8 (or UTF-16) BOM is consumed and the stream decoded to UTF-8.
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	out, err := frame.New(normalizeHeaders(h)...)
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var raw [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if p.opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		raw = append(raw, row)
	}

	kinds := inferKinds(raw, len(out.Columns))
	out.Rows = make([][]any, len(raw))
	for i, row := range raw {
		rec := make([]any, len(row))
		for j, val := range row {
			rec[j] = convert(val, kinds[j])
		}
		out.Rows[i] = rec
	}
	return out, nil
}

// kind is the inferred storage type of a column.
type kind int

const (
	kindInt kind = iota
	kindFloat
	kindString
)

// inferKinds picks, per column, the narrowest type that every non-empty value
// parses as: int64, then float64, then string. Columns with no values are
// int-typed but hold only nils.
func inferKinds(rows [][]string, width int) []kind {
	kinds := make([]kind, width)
	for _, row := range rows {
		for j, val := range row {
			if val == "" || kinds[j] == kindString {
				continue
			}
			n, ok := frame.ParseNumber(val)
			switch {
			case !ok:
				kinds[j] = kindString
			case kinds[j] == kindInt:
				if _, isFloat := n.(float64); isFloat {
					kinds[j] = kindFloat
				}
			}
		}
	}
	return kinds
}

// convert turns a raw field into a cell of kind k.
func convert(val string, k kind) any {
	if val == "" {
		return nil
	}
	if k == kindString {
		return val
	}
	n, _ := frame.ParseNumber(val)
	if k == kindFloat {
		if i, ok := n.(int64); ok {
			return float64(i)
		}
	}
	return n
}

// normalizeHeaders trims and NFC-normalizes header names and names empty
// headers "Unnamed: N".
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := norm.NFC.String(strings.TrimSpace(col))
		if c == "" {
			c = fmt.Sprintf("Unnamed: %d", i)
		}
		res[i] = c
	}
	return res
}
