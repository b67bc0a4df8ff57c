package orrery

import "fmt"

// normalizeValue maps argument values onto the small set of types calls and
// instructions carry: float64, string, bool, Vec3, NodeID and nil. Every
// integer and float width becomes float64. Three-number arrays and slices
// become Vec3. Maps and slices of other shapes are normalized element-wise.
// Anything else is returned unchanged.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64, Vec3, NodeID:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case [3]float64:
		return Vec3(x)
	case []float64:
		if len(x) == 3 {
			return Vec3{x[0], x[1], x[2]}
		}
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out
	case []any:
		if vec, ok := asVec3(x); ok {
			return vec
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeValue(e)
		}
		return out
	}
	return v
}

// asVec3 converts a three-element slice of numbers into a Vec3.
func asVec3(xs []any) (Vec3, bool) {
	if len(xs) != 3 {
		return Vec3{}, false
	}
	var out Vec3
	for i, e := range xs {
		f, ok := normalizeValue(e).(float64)
		if !ok {
			return Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}

func normalizeArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = normalizeValue(a)
	}
	return out
}

func normalizeKwargs(kw map[string]any) map[string]any {
	if len(kw) == 0 {
		return nil
	}
	out := make(map[string]any, len(kw))
	for k, v := range kw {
		out[k] = normalizeValue(v)
	}
	return out
}

// persistValue converts a normalized value into its document form. Values
// outside the primitive set degrade to their fmt text.
func persistValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x
	case NodeID:
		return float64(x)
	case Vec3:
		return []float64{x[0], x[1], x[2]}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = persistValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = persistValue(e)
		}
		return out
	}
	return fmt.Sprint(v)
}
