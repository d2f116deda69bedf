package database

import (
	"fmt"
	"strconv"
	"strings"
)

// NullRefs replaces blank reference values with nil for every listed column
// present in values. Foreign key columns must never receive ''.
func NullRefs(values map[string]any, columns ...string) {
	for _, col := range columns {
		v, ok := values[col]
		if !ok {
			continue
		}
		values[col] = NullRef(v)
	}
}

// NullRef maps "", whitespace-only strings and nil to nil; other values pass through.
func NullRef(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return t
	case *string:
		if t == nil || strings.TrimSpace(*t) == "" {
			return nil
		}
		return *t
	}
	return v
}

// RefString converts a normalized reference value into a nullable string.
func RefString(v any) *string {
	v = NullRef(v)
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return &s
}

// RefUint converts a normalized reference value (JSON number or numeric
// string) into a nullable id. Zero is treated as absent.
func RefUint(v any) (*uint, error) {
	v = NullRef(v)
	if v == nil {
		return nil, nil
	}
	var n uint64
	switch t := v.(type) {
	case float64:
		if t < 0 || t != float64(uint64(t)) {
			return nil, fmt.Errorf("geçersiz id: %v", t)
		}
		n = uint64(t)
	case int:
		if t < 0 {
			return nil, fmt.Errorf("geçersiz id: %v", t)
		}
		n = uint64(t)
	case uint:
		n = uint64(t)
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("geçersiz id: %q", t)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("geçersiz id: %v", v)
	}
	if n == 0 {
		return nil, nil
	}
	id := uint(n)
	return &id, nil
}
