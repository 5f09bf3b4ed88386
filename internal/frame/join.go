package frame

import (
	"fmt"
	"sort"
)

// Suffixes appended to non-key columns that exist on both sides of a join.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// OuterJoin merges left and right on column key. Every key value found in
// either frame appears in the result; rows without a partner are padded with
// nil. A key repeated on both sides yields the cross product of its rows.
//
// The key keeps its position among the left columns; the right columns other
// than key follow the left ones. Output
// rows are ordered by key with Compare; within a key, left row order and then
// right row order are preserved.
func OuterJoin(left, right *Frame, key string) (*Frame, error) {
	lk, rk := left.Index(key), right.Index(key)
	if lk < 0 {
		return nil, fmt.Errorf("frame: join: left has no column %q", key)
	}
	if rk < 0 {
		return nil, fmt.Errorf("frame: join: right has no column %q", key)
	}

	cols, rightPos := joinColumns(left.Columns, right.Columns, key, rk)
	out, err := New(cols...)
	if err != nil {
		return nil, fmt.Errorf("frame: join: %w", err)
	}

	type group struct {
		key   any
		left  []int
		right []int
	}
	groups := make(map[string]*group)
	order := make([]*group, 0)
	groupFor := func(v any) *group {
		k := Key(v)
		g, ok := groups[k]
		if !ok {
			g = &group{key: v}
			groups[k] = g
			order = append(order, g)
		}
		return g
	}
	for i, r := range left.Rows {
		g := groupFor(r[lk])
		g.left = append(g.left, i)
	}
	for i, r := range right.Rows {
		g := groupFor(r[rk])
		g.right = append(g.right, i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return Compare(order[i].key, order[j].key) < 0
	})

	width := len(cols)
	nLeft := len(left.Columns)
	emit := func(li, ri int, k any) {
		row := make([]any, width)
		if li >= 0 {
			copy(row, left.Rows[li])
		}
		row[lk] = k
		if ri >= 0 {
			for j, v := range right.Rows[ri] {
				if p := rightPos[j]; p >= 0 {
					row[nLeft+p] = v
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}

	for _, g := range order {
		switch {
		case len(g.left) == 0:
			for _, ri := range g.right {
				emit(-1, ri, right.Rows[ri][rk])
			}
		case len(g.right) == 0:
			for _, li := range g.left {
				emit(li, -1, left.Rows[li][lk])
			}
		default:
			for _, li := range g.left {
				for _, ri := range g.right {
					emit(li, ri, left.Rows[li][lk])
				}
			}
		}
	}
	return out, nil
}

// joinColumns builds the output column list. rightPos maps each right column
// index to its offset after the left columns, or -1 for the key.
func joinColumns(left, right []string, key string, rk int) ([]string, []int) {
	inRight := make(map[string]struct{}, len(right))
	for _, c := range right {
		inRight[c] = struct{}{}
	}
	inLeft := make(map[string]struct{}, len(left))
	for _, c := range left {
		inLeft[c] = struct{}{}
	}

	cols := make([]string, 0, len(left)+len(right)-1)
	for _, c := range left {
		if _, both := inRight[c]; both && c != key {
			c += LeftSuffix
		}
		cols = append(cols, c)
	}
	rightPos := make([]int, len(right))
	next := 0
	for j, c := range right {
		if j == rk {
			rightPos[j] = -1
			continue
		}
		if _, both := inLeft[c]; both {
			c += RightSuffix
		}
		cols = append(cols, c)
		rightPos[j] = next
		next++
	}
	return cols, rightPos
}
