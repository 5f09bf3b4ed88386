package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"disasteretl/internal/config"
	"disasteretl/internal/frame"
	"disasteretl/internal/loader"
	"disasteretl/internal/metrics"
	"disasteretl/internal/storage"
	"disasteretl/internal/transformer"
	"disasteretl/internal/transformer/builtin"
)

// process runs load, clean and save in order, printing one progress line per
// stage. Any stage error stops the run; nothing is written unless save
// commits.
func process(ctx context.Context, p config.Pipeline, stdout io.Writer, verbose bool) error {
	job := p.Job

	fmt.Fprintf(stdout, "Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", p.Source.Messages, p.Source.Categories)
	var df *frame.Frame
	err := metrics.Time(job, "load", func() error {
		var err error
		df, err = loader.Load(ctx, p.Source.Messages, p.Source.Categories, loader.Options{
			Key:       p.Join.Key,
			Comma:     config.Rune(p.Source.Delimiter, ','),
			TrimSpace: p.Source.TrimSpace,
			Verbose:   verbose,
		})
		return err
	})
	if err != nil {
		return err
	}
	metrics.RecordRow(job, "loaded", int64(df.Len()))

	fmt.Fprintln(stdout, "Cleaning data...")
	var (
		cleaned *frame.Frame
		st      transformer.Stats
	)
	err = metrics.Time(job, "clean", func() error {
		var err error
		cleaned, st, err = transformer.CleanWithStats(df, transformer.Options{
			Categories: builtin.ExpandCategories{
				Column:         p.Categories.Column,
				Separator:      p.Categories.Separator,
				ValueSeparator: p.Categories.ValueSeparator,
				Strict:         p.Categories.Strict,
			},
		})
		return err
	})
	if err != nil {
		return err
	}
	metrics.RecordRow(job, "duplicates", int64(st.Duplicates))
	log.Printf("clean: rows_in=%d rows_out=%d duplicates=%d categories=%d",
		st.RowsIn, st.RowsOut, st.Duplicates, len(st.Categories))

	fmt.Fprintf(stdout, "Saving data...\n    DATABASE: %s\n", p.Storage.DSN)
	var n int64
	err = metrics.Time(job, "save", func() error {
		var err error
		n, err = storage.Save(ctx, cleaned, p.Storage.DSN, storage.SaveOptions{
			Kind:      p.Storage.Kind,
			Table:     p.Storage.Table,
			BatchSize: p.Storage.BatchSize,
			Job:       job,
		})
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("save: inserted=%d table=%s", n, p.Storage.Table)

	fmt.Fprintln(stdout, "Cleaned data saved to database!")
	return nil
}
