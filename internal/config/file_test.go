package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	want := Default()
	want.Job = "nightly"
	want.Categories.Strict = true
	want.Storage.Table = "messages_clean"
	want.Storage.BatchSize = 250

	tests := []struct {
		name, file, body string
	}{
		{
			name: "json",
			file: "pipeline.json",
			body: `{"job":"nightly","categories":{"strict":true},"storage":{"table":"messages_clean","batch_size":250}}`,
		},
		{
			name: "yaml",
			file: "pipeline.yaml",
			body: "job: nightly\ncategories:\n  strict: true\nstorage:\n  table: messages_clean\n  batch_size: 250\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := LoadFile(writeConfig(t, tt.file, tt.body))
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("LoadFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, file, body, wantSub string
	}{
		{name: "unknown json key", file: "p.json", body: `{"jobs":"x"}`, wantSub: "jobs"},
		{name: "unknown yaml key", file: "p.yml", body: "storage:\n  tabel: x\n", wantSub: "tabel"},
		{name: "bad json", file: "p.json", body: `{"job":`, wantSub: "parse"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeConfig(t, tt.file, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("LoadFile() error = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("LoadFile(missing) error = nil")
	}
}
