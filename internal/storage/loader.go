package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert. It inserts rows (aligned to
// columns) and returns how many rows it inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for each.
// It returns the total reported by copyFn and the first error.
//
// Progress is logged after every successful batch. Cancellation is checked
// between batches.
func LoadBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total     int64
		batches   int64
		start     = time.Now()
		lastFlush = start
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))
		for i, r := range rows[lo:hi] {
			if len(r) != len(columns) {
				return total, fmt.Errorf("row %d has %d values, want %d", lo+i, len(r), len(columns))
			}
		}

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: copy failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlush)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(n) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlush = now
	}
	return total, nil
}
