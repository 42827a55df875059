package testutil

import "reflect"

// Clone returns a deep copy of a generated value, used to check that
// operations leave their input untouched.
func Clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Clone(e)
		}
		return out
	case Pair:
		return Pair{A: Clone(x.A), B: Clone(x.B)}
	case *Pair:
		if x == nil {
			return x
		}
		return &Pair{A: Clone(x.A), B: Clone(x.B)}
	default:
		return v
	}
}

// Equivalent reports whether a and b read the same through every key
// path: a map entry holding nil is the same as a missing entry, and a map
// with no readable entries is the same as nil.
func Equivalent(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			if n := normalize(e); n != nil {
				out[k] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case Pair:
		return Pair{A: normalize(x.A), B: normalize(x.B)}
	case *Pair:
		if x == nil {
			return x
		}
		return &Pair{A: normalize(x.A), B: normalize(x.B)}
	default:
		return v
	}
}
