package builtin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"

	"disasteretl/internal/frame"
)

// DeDup drops rows that equal an earlier row in every column, keeping the
// first occurrence. Surviving rows keep their input order. Rows are bucketed
// by an xxh3 hash of their cells and confirmed with frame.Equal, so hash
// collisions never merge distinct rows. nil equals nil.
type DeDup struct{}

// Apply returns a new frame without duplicates. The input is not modified.
func (DeDup) Apply(in *frame.Frame) (*frame.Frame, error) {
	// buckets maps a hash to the kept row indexes that share it.
	buckets := make(map[uint64][]int, in.Len())
	out := &frame.Frame{
		Columns: append([]string(nil), in.Columns...),
		Rows:    make([][]any, 0, in.Len()),
	}

	h := xxh3.New()
	var scratch [8]byte
	for i, row := range in.Rows {
		sum := hashRow(h, scratch[:], row)
		dup := false
		for _, k := range buckets[sum] {
			if frame.RowsEqual(in.Rows[k], row) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[sum] = append(buckets[sum], i)
		out.Rows = append(out.Rows, append([]any(nil), row...))
	}
	return out, nil
}

// Type tags written before each cell so that, e.g., "1" and 1 hash apart.
const (
	tagNil byte = iota
	tagNum
	tagString
	tagOther
)

// hashRow feeds a canonical encoding of the row's cells into h. Numbers are
// encoded as float64 bits so that int64(1) and 1.0 hash alike, matching
// frame.Equal.
func hashRow(h *xxh3.Hasher, buf []byte, row []any) uint64 {
	h.Reset()
	for _, cell := range row {
		switch v := cell.(type) {
		case nil:
			h.Write([]byte{tagNil})
		case int64:
			h.Write([]byte{tagNum})
			binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
			h.Write(buf)
		case float64:
			h.Write([]byte{tagNum})
			if v == 0 {
				v = 0 // fold -0
			}
			if math.IsNaN(v) {
				v = math.NaN()
			}
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		case string:
			h.Write([]byte{tagString})
			binary.LittleEndian.PutUint64(buf, uint64(len(v)))
			h.Write(buf)
			h.WriteString(v)
		default:
			h.Write([]byte{tagOther})
			h.WriteString(fmt.Sprint(v))
		}
	}
	return h.Sum64()
}
