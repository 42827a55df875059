package lens

import "maps"

// At creates a lens for the value stored under key in a map. A missing
// key reads as the zero V. Writing to a nil map creates a new one.
func At[K comparable, V any](key K) Lens[map[K]V, V] {
	return New(
		func(m map[K]V) V {
			return m[key]
		},
		func(m map[K]V, v V) map[K]V {
			result := make(map[K]V, len(m)+1)
			maps.Copy(result, m)
			result[key] = v
			return result
		},
	)
}

// Index creates a lens for the slice element at index. Reading past the
// end yields the zero T; writing past the end grows the copy with zero
// values. A negative index panics.
func Index[T any](index int) Lens[[]T, T] {
	if index < 0 {
		panic("lens: negative index")
	}
	return New(
		func(s []T) T {
			if index < len(s) {
				return s[index]
			}
			var zero T
			return zero
		},
		func(s []T, v T) []T {
			result := make([]T, max(len(s), index+1))
			copy(result, s)
			result[index] = v
			return result
		},
	)
}

// Deref creates a lens through a pointer. A nil pointer reads as the zero
// T. Writing always allocates a new pointee.
func Deref[T any]() Lens[*T, T] {
	return New(
		func(p *T) T {
			if p == nil {
				var zero T
				return zero
			}
			return *p
		},
		func(_ *T, v T) *T {
			return &v
		},
	)
}
