package loader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

// TestMain fails the package if a load leaves reader goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(tb testing.TB, dir, name, body string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadOuterJoin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	msgs := writeFile(t, dir, "messages.csv",
		"id,message,genre\n1,flood,direct\n2,fire,news\n4,quake,social\n")
	cats := writeFile(t, dir, "categories.csv",
		"id,categories\n2,related-0;request-1\n1,related-1;request-0\n3,related-1;request-1\n")

	got, err := Load(context.Background(), msgs, cats, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff([]string{"id", "message", "genre", "categories"}, got.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	want := [][]any{
		{int64(1), "flood", "direct", "related-1;request-0"},
		{int64(2), "fire", "news", "related-0;request-1"},
		{int64(3), nil, nil, "related-1;request-1"},
		{int64(4), "quake", "social", nil},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCustomKeyAndDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	msgs := writeFile(t, dir, "m.csv", "msg_id;message\n10;hello\n")
	cats := writeFile(t, dir, "c.csv", "msg_id;categories\n10;related-1\n")

	got, err := Load(context.Background(), msgs, cats, Options{Key: "msg_id", Comma: ';'})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0][2] != "related-1" {
		t.Fatalf("Load() = %+v, want a single joined row", got)
	}
}

func TestLoadTrimSpace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	msgs := writeFile(t, dir, "m.csv", "id,genre\n1, direct \n")
	cats := writeFile(t, dir, "c.csv", "id,categories\n1, related-1;request-0 \n")

	got, err := Load(context.Background(), msgs, cats, Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := [][]any{{int64(1), "direct", "related-1;request-0"}}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "id,message\n1,a\n")
	noKey := writeFile(t, dir, "nokey.csv", "ident,categories\n1,related-1\n")
	ragged := writeFile(t, dir, "ragged.csv", "id,categories\n1,related-1,oops\n")
	missing := filepath.Join(dir, "missing.csv")

	tests := []struct {
		name       string
		msgs, cats string
		wantKeyErr bool
	}{
		{name: "missing messages file", msgs: missing, cats: good},
		{name: "missing categories file", msgs: good, cats: missing},
		{name: "categories without id", msgs: good, cats: noKey, wantKeyErr: true},
		{name: "messages without id", msgs: noKey, cats: good, wantKeyErr: true},
		{name: "ragged categories", msgs: good, cats: ragged},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(context.Background(), tt.msgs, tt.cats, Options{})
			if err == nil {
				t.Fatalf("Load() error = nil, want non-nil")
			}
			if got := errors.Is(err, ErrMissingKey); got != tt.wantKeyErr {
				t.Fatalf("errors.Is(err, ErrMissingKey) = %v, want %v (err=%v)", got, tt.wantKeyErr, err)
			}
		})
	}
}

func TestLoadCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "id,message\n1,a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, good, good, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadFromURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories.csv" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "id,categories\n1,related-1;request-0\n")
	}))
	defer srv.Close()

	msgs := writeFile(t, t.TempDir(), "messages.csv", "id,message\n1,water needed\n")
	f, err := Load(context.Background(), msgs, srv.URL+"/categories.csv", Options{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"id", "message", "categories"}, f.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]any{{int64(1), "water needed", "related-1;request-0"}}, f.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(context.Background(), msgs, srv.URL+"/gone.csv", Options{HTTPClient: srv.Client()}); err == nil {
		t.Fatalf("Load(404) error = nil, want non-nil")
	}
}
