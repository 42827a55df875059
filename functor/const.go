package functor

import (
	"fmt"
	"reflect"
)

// Const holds a value that survives any mapping untouched. The payload
// is untyped because mapping changes T while keeping the payload.
type Const[T any] struct {
	value any
}

// ConstOf boxes v in a Const.
func ConstOf[T any](v T) Box[T] {
	return Const[T]{value: v}
}

// UnboxConst returns the value stored in a Const box as R. A nil payload
// yields the zero R.
func UnboxConst[R, T any](b Box[T]) R {
	c, ok := b.(Const[T])
	if !ok {
		panic(fmt.Sprintf("functor: UnboxConst on %T", b))
	}
	if c.value == nil {
		var zero R
		return zero
	}
	r, ok := c.value.(R)
	if !ok {
		panic(fmt.Sprintf("functor: Const holds %T, not %s", c.value, reflect.TypeFor[R]()))
	}
	return r
}

// MapSame returns c unchanged.
func (c Const[T]) MapSame(func(T) T) Box[T] {
	return c
}

// Unbox returns the stored value.
func (c Const[T]) Unbox() any {
	return c.value
}

func (Const[T]) sealed() {}

func (c Const[T]) String() string {
	return fmt.Sprintf("Const(%v)", c.value)
}
