package shape

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolve returns the value of the first candidate present on rec, or fallback.
// A key holding null counts as absent.
func Resolve(rec Record, candidates []string, fallback any) any {
	if _, v, ok := ResolveKey(rec, candidates); ok {
		return v
	}
	return fallback
}

// ResolveKey is Resolve that also reports which candidate matched.
func ResolveKey(rec Record, candidates []string) (string, any, bool) {
	if rec == nil {
		return "", nil, false
	}
	for _, key := range candidates {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		return key, v, true
	}
	return "", nil, false
}

// ResolveString resolves candidates and renders the hit as a string.
// Empty strings are skipped so the next alias gets a chance.
func ResolveString(rec Record, candidates []string, fallback string) string {
	for _, key := range candidates {
		if s, ok := String(rec[key]); ok && s != "" {
			return s
		}
	}
	return fallback
}

// Int coerces a JSON number or numeric string into an int.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case uint:
		return int(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case float32:
		return Int(float64(t))
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Uint is Int restricted to positive values, the shape of backend ids.
func Uint(v any) (uint, bool) {
	n, ok := Int(v)
	if !ok || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// String renders scalars as text. Objects and lists are rejected.
func String(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", false
	case map[string]any, Record, []any:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

// Float coerces JSON numbers and decimal strings ("25000.00").
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool reads JSON booleans plus the 0/1 and "true"/"false" spellings.
func Bool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

// Sub returns the nested object stored under key.
func Sub(rec Record, key string) (Record, bool) {
	if rec == nil {
		return nil, false
	}
	return AsRecord(rec[key])
}

// List returns the sequence stored under key.
func List(rec Record, key string) ([]any, bool) {
	if rec == nil {
		return nil, false
	}
	items, ok := rec[key].([]any)
	return items, ok
}

// Ref reads a reference that may be a bare id or an embedded object with an id.
func Ref(v any) (uint, bool) {
	if rec, ok := AsRecord(v); ok {
		return Uint(rec["id"])
	}
	return Uint(v)
}
