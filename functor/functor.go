// Package functor provides the two boxes lenses are threaded through.
// Const ignores every mapping and is used for reading; Identity applies
// every mapping and is used for rebuilding.
package functor

import "fmt"

// Box is a value wrapped in one of the functor variants of this package.
// The set of variants is closed: Const and Identity.
type Box[T any] interface {
	Mappable[T]
	// Unbox returns the stored value untyped.
	Unbox() any

	sealed()
}

// Mappable is the same-type half of Map, available as a method.
type Mappable[T any] interface {
	// MapSame applies fn to the boxed value according to the variant.
	MapSame(fn func(T) T) Box[T]
}

var (
	_ Box[int]      = Const[int]{}
	_ Box[int]      = Identity[int]{}
	_ Mappable[int] = Const[int]{}
)

// Map applies fn to the contents of b. For a Const box the payload is
// carried over unchanged and only the type tag moves from A to B.
func Map[A, B any](fn func(A) B, b Box[A]) Box[B] {
	switch v := b.(type) {
	case Const[A]:
		return Const[B]{value: v.value}
	case Identity[A]:
		return Identity[B]{value: fn(v.value)}
	default:
		panic(fmt.Sprintf("functor: unknown box %T", b))
	}
}
