//go:build darwin

package objcrt

import "runtime"

// Object is implemented by every generated wrapper type (e.g. the
// NSString emitted for Foundation), whose zero-cost underlying
// representation is always a single ID.
type Object interface {
	Ptr() ID
}

// Retained owns a +1 reference to an Objective-C object: Release runs
// exactly once, either explicitly or via a finalizer if the caller
// never calls it. It is the Go shape of the emission contract's
// `Retained<T>` return type (spec.md §4.4's method_return /
// fn_return positions with ownership transferred to the caller).
type Retained[T Object] struct {
	value    T
	released bool
}

// NewRetained wraps id, already owned at +1 by the caller, as a
// Retained[T]. wrap constructs the generated T from the raw ID; it is
// passed explicitly because Go generics cannot synthesize T from its
// interface constraint alone.
func NewRetained[T Object](id ID, wrap func(ID) T) Retained[T] {
	r := Retained[T]{value: wrap(id)}
	if !id.Nil() {
		runtime.SetFinalizer(&r, func(r *Retained[T]) { r.Release() })
	}
	return r
}

// Get returns the wrapped value without transferring ownership; the
// Retained handle still owns the release.
func (r *Retained[T]) Get() T { return r.value }

// Release releases the underlying object. Safe to call more than
// once; only the first call does anything.
func (r *Retained[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	Release(r.value.Ptr())
}

// Autoreleased wraps a value returned already autoreleased by the
// Objective-C runtime (spec.md §4.4's plain method_return /
// fn_return position): valid only until the enclosing
// AutoreleasePool drains, and owns nothing itself. It is the Go shape
// of a borrowed `&T`.
type Autoreleased[T Object] struct {
	value T
}

// NewAutoreleased wraps an autoreleased id as a T via wrap, for the
// same reason NewRetained takes one.
func NewAutoreleased[T Object](id ID, wrap func(ID) T) Autoreleased[T] {
	return Autoreleased[T]{value: wrap(id)}
}

// Get returns the wrapped value.
func (a Autoreleased[T]) Get() T { return a.value }

// Retain promotes the borrowed reference to an owned Retained[T] by
// sending retain, the Go shape of cloning a borrowed `&T` into an
// owned `Retained<T>`.
func (a Autoreleased[T]) Retain(wrap func(ID) T) Retained[T] {
	return NewRetained(Retain(a.value.Ptr()), wrap)
}
