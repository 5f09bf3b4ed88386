package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "disaster_messages.csv")
	if err := os.WriteFile(existing, []byte("id,message\n1,help\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		path      string
		ctx       context.Context
		wantErrIs error
		wantBody  string
	}{
		{name: "reads content", path: existing, ctx: context.Background(), wantBody: "id,message\n1,help\n"},
		{name: "missing file", path: filepath.Join(dir, "missing.csv"), ctx: context.Background(), wantErrIs: os.ErrNotExist},
		{name: "canceled context", path: existing, ctx: canceled, wantErrIs: context.Canceled},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rc, err := NewLocal(tt.path).Open(tt.ctx)
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErrIs)
				}
				if rc != nil {
					t.Fatalf("Open() returned a reader on error")
				}
				if tt.wantErrIs == os.ErrNotExist && !strings.Contains(err.Error(), tt.path) {
					t.Fatalf("error %q does not name the path", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != tt.wantBody {
				t.Fatalf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func BenchmarkLocalOpen(b *testing.B) {
	p := filepath.Join(b.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte("id\n1\n"), 0o644); err != nil {
		b.Fatal(err)
	}
	src := NewLocal(p)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		rc.Close()
	}
}
