// Package bench holds whole-pipeline benchmarks that cut across packages.
package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"disasteretl/internal/ddl"
	"disasteretl/internal/frame"
	"disasteretl/internal/storage"
	_ "disasteretl/internal/storage/sqlite"
	"disasteretl/internal/transformer"
)

var categoryNames = []string{"related", "request", "offer", "aid_related", "medical_help", "water", "food", "shelter"}

// joinedFrame builds what the loader hands to the cleaner: n messages with
// their category strings, every tenth row repeated.
func joinedFrame(tb testing.TB, n int) *frame.Frame {
	tb.Helper()
	f, err := frame.New("id", "message", "original", "genre", "categories")
	if err != nil {
		tb.Fatal(err)
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.Reset()
		for j, name := range categoryNames {
			if j > 0 {
				sb.WriteByte(';')
			}
			fmt.Fprintf(&sb, "%s-%d", name, (i+j)%2)
		}
		row := []any{int64(i), fmt.Sprintf("need water and food in sector %d", i), nil, "direct", sb.String()}
		if err := f.Append(row); err != nil {
			tb.Fatal(err)
		}
		if i%10 == 0 {
			if err := f.Append(append([]any(nil), row...)); err != nil {
				tb.Fatal(err)
			}
		}
	}
	return f
}

// BenchmarkCleanAndBatch measures the in-memory hot path: category
// expansion, dedup, type inference and batching into a fake copy function.
//
//	go test -run=^$ -bench ^BenchmarkCleanAndBatch$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkCleanAndBatch(b *testing.B) {
	ctx := context.Background()
	in := joinedFrame(b, 20000)
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return int64(len(rows)), nil
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := transformer.Clean(in, transformer.Options{})
		if err != nil {
			b.Fatalf("Clean: %v", err)
		}
		td, err := ddl.FromFrame("Project2", out)
		if err != nil {
			b.Fatalf("FromFrame: %v", err)
		}
		n, err := storage.LoadBatches(ctx, td.Names(), ddl.Conform(td, out.Rows), 4096, copyFn)
		if err != nil {
			b.Fatalf("LoadBatches: %v", err)
		}
		if n != 20000 {
			b.Fatalf("rows = %d, want 20000", n)
		}
	}
}

// BenchmarkSaveSQLite includes the real SQLite write.
func BenchmarkSaveSQLite(b *testing.B) {
	ctx := context.Background()
	out, err := transformer.Clean(joinedFrame(b, 5000), transformer.Options{})
	if err != nil {
		b.Fatalf("Clean: %v", err)
	}
	dest := filepath.Join(b.TempDir(), "bench.db")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := storage.Save(ctx, out, dest, storage.SaveOptions{}); err != nil {
			b.Fatalf("Save: %v", err)
		}
	}
}
