package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	p := Default()
	if p.Storage.Table != "Project2" {
		t.Errorf("Storage.Table = %q, want Project2", p.Storage.Table)
	}
	if p.Join.Key != "id" || p.Categories.Column != "categories" {
		t.Errorf("Join.Key=%q Categories.Column=%q, want id/categories", p.Join.Key, p.Categories.Column)
	}
	if p.Categories.Separator != ";" || p.Categories.ValueSeparator != "-" {
		t.Errorf("separators = %q/%q, want ;/-", p.Categories.Separator, p.Categories.ValueSeparator)
	}
	if p.Categories.Strict {
		t.Errorf("Categories.Strict = true, want permissive default")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	p := Default()
	err := ApplyEnv(&p, envMap(map[string]string{
		"ETL_JOB":               " nightly ",
		"ETL_TABLE":             "messages",
		"ETL_DELIMITER":         ";",
		"ETL_BATCH_SIZE":        "250",
		"ETL_STRICT_CATEGORIES": "true",
		"ETL_TRIM_SPACE":        "1",
		"METRICS_BACKEND":       "datadog",
		"STATSD_ADDR":           "",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	want := Default()
	want.Job = "nightly"
	want.Storage.Table = "messages"
	want.Source.Delimiter = ";"
	want.Storage.BatchSize = 250
	want.Categories.Strict = true
	want.Source.TrimSpace = true
	want.Metrics.Backend = "datadog"
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("ApplyEnv() =\n%+v\nwant\n%+v", p, want)
	}
}

func TestApplyEnvWhitespaceDelimiter(t *testing.T) {
	t.Parallel()

	for _, d := range []string{"\t", " "} {
		p := Default()
		if err := ApplyEnv(&p, envMap(map[string]string{"ETL_DELIMITER": d})); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if p.Source.Delimiter != d {
			t.Fatalf("Source.Delimiter = %q, want %q", p.Source.Delimiter, d)
		}
		if got := Rune(p.Source.Delimiter, ','); got != []rune(d)[0] {
			t.Fatalf("Rune() = %q, want %q", got, d)
		}
	}
}

func TestApplyEnvErrors(t *testing.T) {
	t.Parallel()

	for _, env := range []map[string]string{
		{"ETL_BATCH_SIZE": "many"},
		{"ETL_STRICT_CATEGORIES": "maybe"},
		{"ETL_TRIM_SPACE": "yes please"},
	} {
		p := Default()
		if err := ApplyEnv(&p, envMap(env)); err == nil {
			t.Errorf("ApplyEnv(%v) error = nil, want non-nil", env)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ETL_TEST_DOTENV_TABLE=from_file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("ETL_TEST_DOTENV_TABLE") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("ETL_TEST_DOTENV_TABLE"); got != "from_file" {
		t.Fatalf("ETL_TEST_DOTENV_TABLE = %q, want from_file", got)
	}
}

func TestRune(t *testing.T) {
	t.Parallel()

	if got := Rune("", ','); got != ',' {
		t.Errorf("Rune(\"\") = %q, want ','", got)
	}
	if got := Rune("\t", ','); got != '\t' {
		t.Errorf("Rune(tab) = %q, want tab", got)
	}
}
