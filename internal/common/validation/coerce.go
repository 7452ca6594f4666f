package validation

import "math"

// Lenient readers used by the deliverable computers. Computation proceeds on
// best-effort defaults even when validation has already flagged the field, so
// these never fail: a missing or mistyped value yields the documented default.

// String reads a string field or returns def.
func String(input map[string]interface{}, key, def string) string {
	if s, ok := input[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Number reads a finite numeric field or returns def.
func Number(input map[string]interface{}, key string, def float64) float64 {
	n, ok := asNumber(input[key])
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return n
}

// Int reads a numeric field truncated to int, or returns def.
func Int(input map[string]interface{}, key string, def int) int {
	n, ok := asNumber(input[key])
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return int(n)
}

// Bool reads a boolean field or returns def.
func Bool(input map[string]interface{}, key string, def bool) bool {
	if b, ok := input[key].(bool); ok {
		return b
	}
	return def
}

// StringSlice reads an array field, keeping only string elements.
func StringSlice(input map[string]interface{}, key string) []string {
	arr, ok := input[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ObjectSlice reads an array field, keeping only object elements.
func ObjectSlice(input map[string]interface{}, key string) []map[string]interface{} {
	arr, ok := input[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Object reads a nested object field or returns nil.
func Object(input map[string]interface{}, key string) map[string]interface{} {
	obj, _ := input[key].(map[string]interface{})
	return obj
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
