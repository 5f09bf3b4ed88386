package frame

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts s into an int64 when it is an integer literal, or a
// float64 when it is any other numeric literal. Surrounding whitespace is
// ignored. ok is false for non-numeric input.
func ParseNumber(s string) (v any, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

// Equal reports whether two cells hold the same value. nil equals nil; int64
// and float64 compare numerically.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return x == y || (math.IsNaN(x) && math.IsNaN(y))
		case int64:
			return x == float64(y)
		}
	}
	return false
}

// RowsEqual reports whether two rows are equal cell by cell.
func RowsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Compare orders cells: numbers (numerically) before strings (bytewise),
// and nil after everything else.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		ia, aInt := a.(int64)
		ib, bInt := b.(int64)
		if aInt && bInt {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			}
			return 0
		}
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 1:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case int64, float64:
		return 0
	case string:
		return 1
	}
	return 2
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

// Key returns a string usable as a map key such that Key(a) == Key(b)
// whenever Equal(a, b) holds. Integral floats share keys with integers.
func Key(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case int64:
		return "n" + strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<63 {
			return "n" + strconv.FormatInt(int64(t), 10)
		}
		return "n" + strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return "s" + t
	}
	return "?"
}
