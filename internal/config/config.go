// Package config defines the configuration model for the message/category
// pipeline. A Pipeline starts from Default, is overlaid with an optional JSON
// or YAML pipeline file, then with environment variables (optionally read
// from a .env file) and finally with command-line values by the caller.
//
// Example (JSON form, as printed with -v):
//
//	{
//	  "job": "process_data",
//	  "source": { "messages": "disaster_messages.csv", "categories": "disaster_categories.csv", "delimiter": ",", "trim_space": false },
//	  "join": { "key": "id" },
//	  "categories": { "column": "categories", "separator": ";", "value_separator": "-", "strict": false },
//	  "storage": { "kind": "sqlite", "dsn": "DisasterResponse.db", "table": "Project2", "batch_size": 5000 },
//	  "metrics": { "backend": "none" }
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultTable is the fixed name of the output table.
const DefaultTable = "Project2"

// Pipeline describes one run of the pipeline.
type Pipeline struct {
	// Job labels metrics and log lines.
	Job string `json:"job" yaml:"job"`

	Source     Source     `json:"source" yaml:"source"`
	Join       Join       `json:"join" yaml:"join"`
	Categories Categories `json:"categories" yaml:"categories"`
	Storage    Storage    `json:"storage" yaml:"storage"`
	Metrics    Metrics    `json:"metrics" yaml:"metrics"`
}

// Source names the two input files.
type Source struct {
	Messages   string `json:"messages" yaml:"messages"`
	Categories string `json:"categories" yaml:"categories"`

	// Delimiter is the single-character field separator of both files.
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// TrimSpace strips surrounding spaces from every field before type
	// inference.
	TrimSpace bool `json:"trim_space" yaml:"trim_space"`
}

// Join configures the outer join of the two inputs.
type Join struct {
	// Key is the identifier column present in both files.
	Key string `json:"key" yaml:"key"`
}

// Categories configures expansion of the encoded category column.
type Categories struct {
	// Column holds tokens like "related-1;request-0".
	Column string `json:"column" yaml:"column"`

	// Separator splits the column into tokens.
	Separator string `json:"separator" yaml:"separator"`

	// ValueSeparator splits a token into name and value at its last occurrence.
	ValueSeparator string `json:"value_separator" yaml:"value_separator"`

	// Strict rejects rows whose tokens do not line up with the first row.
	Strict bool `json:"strict" yaml:"strict"`
}

// Storage selects the destination store.
type Storage struct {
	// Kind is "sqlite", "postgres" or "mssql". Empty means derive from DSN.
	Kind string `json:"kind" yaml:"kind"`

	// DSN is a file path (sqlite) or a connection URL.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is replaced on every run.
	Table string `json:"table" yaml:"table"`

	// BatchSize bounds the number of rows per bulk insert call.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog".
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	StatsdAddr     string `json:"statsd_addr" yaml:"statsd_addr"`
}

// Default returns the pipeline defaults.
func Default() Pipeline {
	return Pipeline{
		Job:    "process_data",
		Source: Source{Delimiter: ","},
		Join:   Join{Key: "id"},
		Categories: Categories{
			Column:         "categories",
			Separator:      ";",
			ValueSeparator: "-",
		},
		Storage: Storage{
			Table:     DefaultTable,
			BatchSize: 5000,
		},
		Metrics: Metrics{
			Backend:        "none",
			PushgatewayURL: "http://localhost:9091",
			StatsdAddr:     "127.0.0.1:8125",
		},
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment values found through lookup onto p.
// lookup is usually os.LookupEnv.
func ApplyEnv(p *Pipeline, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("ETL_JOB", &p.Job)
	str("ETL_TABLE", &p.Storage.Table)
	str("ETL_KEY_COLUMN", &p.Join.Key)
	str("ETL_CATEGORIES_COLUMN", &p.Categories.Column)
	str("METRICS_BACKEND", &p.Metrics.Backend)
	str("PUSHGATEWAY_URL", &p.Metrics.PushgatewayURL)
	str("STATSD_ADDR", &p.Metrics.StatsdAddr)

	// A delimiter may itself be whitespace, so it is taken verbatim.
	if v, ok := lookup("ETL_DELIMITER"); ok && v != "" {
		p.Source.Delimiter = v
	}

	if v, ok := lookup("ETL_BATCH_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: ETL_BATCH_SIZE: %w", err)
		}
		p.Storage.BatchSize = n
	}
	if v, ok := lookup("ETL_STRICT_CATEGORIES"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: ETL_STRICT_CATEGORIES: %w", err)
		}
		p.Categories.Strict = b
	}
	if v, ok := lookup("ETL_TRIM_SPACE"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: ETL_TRIM_SPACE: %w", err)
		}
		p.Source.TrimSpace = b
	}
	return nil
}

// Rune returns the first rune of s, or def when s is empty.
func Rune(s string, def rune) rune {
	if s == "" {
		return def
	}
	return []rune(s)[0]
}
