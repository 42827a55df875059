package functor

import "fmt"

// Identity forwards every mapping to its contents.
type Identity[T any] struct {
	value T
}

// IdOf boxes v in an Identity.
func IdOf[T any](v T) Box[T] {
	return Identity[T]{value: v}
}

// UnboxId returns the value stored in an Identity box.
func UnboxId[T any](b Box[T]) T {
	id, ok := b.(Identity[T])
	if !ok {
		panic(fmt.Sprintf("functor: UnboxId on %T", b))
	}
	return id.value
}

// MapSame returns a new Identity holding fn(value).
func (i Identity[T]) MapSame(fn func(T) T) Box[T] {
	return Identity[T]{value: fn(i.value)}
}

// Unbox returns the stored value.
func (i Identity[T]) Unbox() any {
	return i.value
}

func (Identity[T]) sealed() {}

func (i Identity[T]) String() string {
	return fmt.Sprintf("Id(%v)", i.value)
}
