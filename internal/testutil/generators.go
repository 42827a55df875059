// Package testutil provides rapid generators for dynamic lens subjects.
package testutil

import (
	"pgregory.net/rapid"
)

// Pair is a struct subject reachable through the keys "a" and "b". Any
// other key is a field it does not have.
type Pair struct {
	A any `lens:"a"`
	B any `lens:"b"`
}

// KeyGen generates short keys, so that generated paths often collide with
// existing members. Digits address slice elements.
func KeyGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[a-e]{1,2}`),
		rapid.StringMatching(`[0-3]`),
	)
}

// PathGen generates paths of 1 to maxLen keys.
func PathGen(maxLen int) *rapid.Generator[[]string] {
	return rapid.SliceOfN(KeyGen(), 1, maxLen)
}

// ScalarGen generates leaf values of the dynamic model.
func ScalarGen() *rapid.Generator[any] {
	return rapid.OneOf(
		rapid.Map(rapid.Int(), func(v int) any { return v }),
		rapid.Map(rapid.String(), func(v string) any { return v }),
		rapid.Map(rapid.Bool(), func(v bool) any { return v }),
	)
}

// SubjectGen generates nested map[string]any documents up to depth
// levels deep.
func SubjectGen(depth int) *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		return drawRecord(t, depth, false)
	})
}

// DocumentGen generates decoded-document values: nil, scalars, maps and
// []any nested up to depth levels.
func DocumentGen(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		return drawValue(t, depth, false)
	})
}

// ValueGen generates everything DocumentGen does plus Pair values, *Pair
// values and nil *Pair pointers.
func ValueGen(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		return drawValue(t, depth, true)
	})
}

// OptionalSubjectGen generates either nil or a SubjectGen document.
func OptionalSubjectGen(depth int) *rapid.Generator[any] {
	return rapid.Custom(func(t *rapid.T) any {
		if rapid.Bool().Draw(t, "present") {
			return drawRecord(t, depth, false)
		}
		return nil
	})
}

func drawValue(t *rapid.T, depth int, structs bool) any {
	kinds := 2
	if depth > 0 {
		kinds = 4
		if structs {
			kinds = 7
		}
	}
	switch rapid.IntRange(0, kinds-1).Draw(t, "kind") {
	case 0:
		return nil
	case 1:
		return ScalarGen().Draw(t, "scalar")
	case 2:
		return drawRecord(t, depth-1, structs)
	case 3:
		n := rapid.IntRange(0, 3).Draw(t, "len")
		out := make([]any, n)
		for i := range out {
			out[i] = drawValue(t, depth-1, structs)
		}
		return out
	case 4:
		return Pair{A: drawValue(t, depth-1, structs), B: drawValue(t, depth-1, structs)}
	case 5:
		return &Pair{A: drawValue(t, depth-1, structs), B: drawValue(t, depth-1, structs)}
	default:
		return (*Pair)(nil)
	}
}

func drawRecord(t *rapid.T, depth int, structs bool) map[string]any {
	n := rapid.IntRange(0, 4).Draw(t, "size")
	out := make(map[string]any, n)
	for range n {
		key := KeyGen().Draw(t, "key")
		if depth > 0 && rapid.Bool().Draw(t, "nested") {
			out[key] = drawValue(t, depth-1, structs)
			continue
		}
		out[key] = ScalarGen().Draw(t, "value")
	}
	return out
}
