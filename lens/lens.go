// Package lens provides composable functional lenses for reading and
// non-destructively updating values nested inside larger structures.
//
// A Lens is a single function polymorphic over the functor it is run
// with: View runs it with functor.Const so nothing is rebuilt, Over and
// Set run it with functor.Identity so the subject is rebuilt level by
// level. Subjects are never mutated.
package lens

import "github.com/authcorp/optics/functor"

// Lens focuses on an A inside an S.
type Lens[S, A any] func(toBox func(A) functor.Box[A]) func(S) functor.Box[S]

// New creates a lens from get and set functions. set must return a new
// S and leave its argument untouched.
func New[S, A any](get func(S) A, set func(S, A) S) Lens[S, A] {
	return func(toBox func(A) functor.Box[A]) func(S) functor.Box[S] {
		return func(s S) functor.Box[S] {
			return functor.Map(func(a A) S { return set(s, a) }, toBox(get(s)))
		}
	}
}

// View returns the value l focuses on in subject.
func View[S, A any](l Lens[S, A], subject S) A {
	return functor.UnboxConst[A](l(functor.ConstOf[A])(subject))
}

// Over returns a copy of subject with the focus replaced by fn(focus).
func Over[S, A any](l Lens[S, A], fn func(A) A, subject S) S {
	return functor.UnboxId(l(func(a A) functor.Box[A] {
		return functor.IdOf(fn(a))
	})(subject))
}

// Set returns a copy of subject with the focus replaced by value.
func Set[S, A any](l Lens[S, A], value A, subject S) S {
	return Over(l, func(A) A { return value }, subject)
}

// Compose creates a lens focusing through outer and then inner.
func Compose[S, A, B any](outer Lens[S, A], inner Lens[A, B]) Lens[S, B] {
	return func(toBox func(B) functor.Box[B]) func(S) functor.Box[S] {
		return outer(inner(toBox))
	}
}

// Compose3 composes three lenses left to right.
func Compose3[S, A, B, C any](first Lens[S, A], second Lens[A, B], third Lens[B, C]) Lens[S, C] {
	return Compose(Compose(first, second), third)
}

// Transparent creates the identity lens: its focus is the whole subject.
func Transparent[S any]() Lens[S, S] {
	return func(toBox func(S) functor.Box[S]) func(S) functor.Box[S] {
		return toBox
	}
}

// Get is View with the lens as receiver.
func (l Lens[S, A]) Get(subject S) A {
	return View(l, subject)
}

// Set is Set with the lens as receiver.
func (l Lens[S, A]) Set(subject S, value A) S {
	return Set(l, value, subject)
}

// Modify is Over with the lens as receiver.
func (l Lens[S, A]) Modify(subject S, fn func(A) A) S {
	return Over(l, fn, subject)
}
