// Command process_data loads the disaster messages and categories files,
// cleans the joined data and replaces the Project2 table in the destination
// store.
//
//	process_data [flags] MESSAGES CATEGORIES DESTINATION
//
// MESSAGES and CATEGORIES are local paths or http(s) URLs. DESTINATION is a
// SQLite file path (or sqlite://path), a postgres:// URL or a sqlserver://
// URL.
//
// Settings are layered: defaults, then the -config file, then environment
// (with .env), then flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disasteretl/internal/config"
	"disasteretl/internal/metrics"
	"disasteretl/internal/metrics/datadog"
	"disasteretl/internal/metrics/prompush"

	// Register every storage backend; the destination picks one at runtime.
	_ "disasteretl/internal/storage/all"
)

const usageText = "Please provide the filepaths of the messages and categories " +
	"datasets as the first and second argument respectively, as " +
	"well as the filepath of the database to save the cleaned data " +
	"to as the third argument. \n\nExample: process_data " +
	"disaster_messages.csv disaster_categories.csv " +
	"DisasterResponse.db"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit. Progress goes to stdout; errors and
// (with -v) log lines go to stderr. It returns the exit status. Any
// invocation that does not parse to exactly three positional arguments,
// -h included, prints the usage text to stdout and exits 0.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("process_data", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		verbose        = fs.Bool("v", false, "enable verbose logs")
		strict         = fs.Bool("strict", false, "reject rows whose categories do not match the first row")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
		pushURL        = fs.String("pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
		statsdAddr     = fs.String("statsd-addr", "", "DogStatsD address (overrides env STATSD_ADDR)")
		batchSize      = fs.Int("batch-size", 0, "rows per bulk insert (overrides env ETL_BATCH_SIZE)")
		envFile        = fs.String("env-file", ".env", "dotenv file to load if present")
		configPath     = fs.String("config", "", "JSON or YAML pipeline file")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: process_data [flags] MESSAGES CATEGORIES DESTINATION\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil || fs.NArg() != 3 {
		fmt.Fprintln(stdout, usageText)
		return 0
	}

	errLog := log.New(stderr, "", log.LstdFlags)
	if *verbose {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		errLog.Print(err)
		return 1
	}
	p := config.Default()
	if *configPath != "" {
		var err error
		if p, err = config.LoadFile(*configPath); err != nil {
			errLog.Print(err)
			return 1
		}
	}
	if err := config.ApplyEnv(&p, os.LookupEnv); err != nil {
		errLog.Print(err)
		return 1
	}

	// Flags win over env.
	p.Source.Messages = fs.Arg(0)
	p.Source.Categories = fs.Arg(1)
	p.Storage.DSN = fs.Arg(2)
	if *strict {
		p.Categories.Strict = true
	}
	if *metricsBackend != "" {
		p.Metrics.Backend = *metricsBackend
	}
	if *pushURL != "" {
		p.Metrics.PushgatewayURL = *pushURL
	}
	if *statsdAddr != "" {
		p.Metrics.StatsdAddr = *statsdAddr
	}
	if *batchSize > 0 {
		p.Storage.BatchSize = *batchSize
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			errLog.Print(iss)
		} else {
			log.Print(iss)
		}
	}
	if config.HasErrors(issues) {
		return 1
	}

	flush := setupMetrics(p)
	defer flush()

	start := time.Now()
	if err := process(ctx, p, stdout, *verbose); err != nil {
		errLog.Print(err)
		return 1
	}
	log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	return 0
}

// setupMetrics installs the configured metrics backend and returns the
// function that flushes it. Backend failures fall back to no metrics.
func setupMetrics(p config.Pipeline) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.StatsdAddr,
			GlobalTags: []string{"job:" + p.Job},
		})
	case "", "none":
		log.Printf("metrics: disabled")
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", p.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: init %s backend: %v; metrics disabled", p.Metrics.Backend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%s job=%s", p.Metrics.Backend, p.Job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
