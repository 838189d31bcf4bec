// Package numeric converts floating-point values into an exact-decimal
// form that survives storage in backends without native binary floats.
package numeric

import (
	"encoding/json"
	"strconv"
)

// Normalize walks an arbitrary value built from maps, slices and scalar
// leaves and replaces every float leaf with a json.Number holding the
// float's shortest round-trip decimal string. The input shape is
// preserved exactly; non-float leaves pass through unchanged. Cyclic
// values are not supported.
func Normalize(v any) any {
	switch val := v.(type) {
	case float64:
		return json.Number(strconv.FormatFloat(val, 'g', -1, 64))
	case float32:
		return json.Number(strconv.FormatFloat(float64(val), 'g', -1, 32))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeMap is Normalize for the common top-level record-metadata case.
// A nil map stays nil.
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return Normalize(m).(map[string]any)
}
