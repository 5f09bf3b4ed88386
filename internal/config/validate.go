package config

// Static checks over a Pipeline. Issues are returned, not raised, so the CLI
// can print warnings and errors together.

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.table").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics will be unlabeled",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateJoin(p.Join)...)
	issues = append(issues, validateCategories(p.Categories, p.Join)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Messages) == "" {
		issues = append(issues, Issue{SeverityError, "source.messages", "messages path must not be empty"})
	}
	if strings.TrimSpace(s.Categories) == "" {
		issues = append(issues, Issue{SeverityError, "source.categories", "categories path must not be empty"})
	}
	if n := utf8.RuneCountInString(s.Delimiter); n > 1 {
		issues = append(issues, Issue{SeverityError, "source.delimiter", fmt.Sprintf("delimiter must be a single character, got %q", s.Delimiter)})
	}
	switch s.Delimiter {
	case "\"", "\r", "\n":
		issues = append(issues, Issue{SeverityError, "source.delimiter", fmt.Sprintf("delimiter %q is not allowed", s.Delimiter)})
	}
	return issues
}

func validateJoin(j Join) []Issue {
	if strings.TrimSpace(j.Key) == "" {
		return []Issue{{SeverityError, "join.key", "join key column must not be empty"}}
	}
	return nil
}

func validateCategories(c Categories, j Join) []Issue {
	var issues []Issue
	if strings.TrimSpace(c.Column) == "" {
		issues = append(issues, Issue{SeverityError, "categories.column", "categories column must not be empty"})
	} else if c.Column == j.Key {
		issues = append(issues, Issue{SeverityError, "categories.column", "categories column must differ from the join key"})
	}
	if c.Separator == "" {
		issues = append(issues, Issue{SeverityError, "categories.separator", "separator must not be empty"})
	}
	if c.ValueSeparator == "" {
		issues = append(issues, Issue{SeverityError, "categories.value_separator", "value separator must not be empty"})
	}
	if c.Separator != "" && c.Separator == c.ValueSeparator {
		issues = append(issues, Issue{SeverityError, "categories.value_separator", "value separator must differ from separator"})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	switch s.Kind {
	case "", "sqlite", "postgres", "mssql":
	default:
		issues = append(issues, Issue{SeverityError, "storage.kind", fmt.Sprintf("unknown storage kind %q", s.Kind)})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn", "destination must not be empty"})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.table", "table must not be empty"})
	} else if s.Table != DefaultTable {
		issues = append(issues, Issue{SeverityWarning, "storage.table", fmt.Sprintf("table overridden to %q (default %q)", s.Table, DefaultTable)})
	}
	if s.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "storage.batch_size", "batch_size must be > 0"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
		return nil
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a URL"}}
		}
	case "datadog":
		if strings.TrimSpace(m.StatsdAddr) == "" {
			return []Issue{{SeverityError, "metrics.statsd_addr", "datadog backend requires a statsd address"}}
		}
	default:
		return []Issue{{SeverityWarning, "metrics.backend", fmt.Sprintf("unknown metrics backend %q; metrics disabled", m.Backend)}}
	}
	return nil
}
