package scheme

import (
	"fmt"
	"math"

	"github.com/quickwritereader/PackBits/types"
)

// Values arriving from JSON or YAML decoders carry numbers as float64, int or
// uint64, so every numeric scheme accepts any of Go's numeric kinds.

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return asInt64(float64(n))
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n < 0 || n >= math.MaxUint64 {
			return 0, false
		}
		return uint64(n), true
	}
	i, ok := asInt64(v)
	if !ok || i < 0 {
		return 0, false
	}
	return uint64(i), true
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	if u, ok := asUint64(v); ok {
		return float64(u), true
	}
	return 0, false
}

func typeErr(scheme string, v any) error {
	return fmt.Errorf("scheme: %s cannot encode %T: %w", scheme, v, types.ErrTypeMismatch)
}
