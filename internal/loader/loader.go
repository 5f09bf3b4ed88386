// Package loader reads the messages and categories files and outer-joins them
// on their shared identifier column.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"disasteretl/internal/datasource"
	"disasteretl/internal/frame"
	pcsv "disasteretl/internal/parser/csv"
)

// ErrMissingKey is returned when an input lacks the join key column.
var ErrMissingKey = errors.New("missing key column")

// Options configures Load.
type Options struct {
	// Key is the join column; "id" when empty.
	Key string

	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// TrimSpace strips surrounding spaces from every field.
	TrimSpace bool

	// Verbose logs per-file row counts.
	Verbose bool

	// HTTPClient fetches inputs given as http(s) URLs; nil means
	// http.DefaultClient.
	HTTPClient *http.Client
}

// Load reads both inputs and returns their outer join on opt.Key. Each input
// is a local path or an http(s) URL. The two are parsed concurrently; either
// failure aborts the load.
func Load(ctx context.Context, messagesPath, categoriesPath string, opt Options) (*frame.Frame, error) {
	key := opt.Key
	if key == "" {
		key = "id"
	}
	parser := func() *pcsv.Parser { return pcsv.NewParser(pcsv.Options{Comma: opt.Comma, TrimSpace: opt.TrimSpace}) }

	var messages, categories *frame.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := readInput(gctx, parser(), datasource.For(messagesPath, opt.HTTPClient), messagesPath, key)
		messages = f
		return err
	})
	g.Go(func() error {
		f, err := readInput(gctx, parser(), datasource.For(categoriesPath, opt.HTTPClient), categoriesPath, key)
		categories = f
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opt.Verbose {
		log.Printf("loader: messages=%d rows categories=%d rows", messages.Len(), categories.Len())
	}

	joined, err := frame.OuterJoin(messages, categories, key)
	if err != nil {
		return nil, fmt.Errorf("loader: join: %w", err)
	}
	return joined, nil
}

// readInput parses src and checks that it carries the key column.
func readInput(ctx context.Context, p *pcsv.Parser, src datasource.Source, loc, key string) (*frame.Frame, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer rc.Close()

	f, err := p.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", loc, err)
	}
	if !f.Has(key) {
		return nil, fmt.Errorf("loader: %s: %w %q", loc, ErrMissingKey, key)
	}
	return f, nil
}
