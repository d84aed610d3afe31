// Package lazy provides lazily computed values bound to their builder.
//
// A Lazy pairs one once cell with the function that fills it, so call
// sites read the value without repeating the builder:
//
//	var config = lazy.New(loadConfig)
//
//	func handler() { use(config.Get()) }
package lazy

import (
	"github.com/auth-platform/lazystatic/libs/go/concurrency/once"
)

// Lazy is a value computed on first access and cached for the lifetime of
// the Lazy.
type Lazy[T any] struct {
	cell once.Initializer[T]
	fn   func() T
}

// New creates a Lazy backed by a blocking cell. fn is not called until
// the first access.
func New[T any](fn func() T) *Lazy[T] {
	return NewWithStrategy(once.Blocking, fn)
}

// NewWithStrategy creates a Lazy backed by the given cell strategy.
func NewWithStrategy[T any](s once.Strategy, fn func() T) *Lazy[T] {
	return &Lazy[T]{cell: once.New[T](s), fn: fn}
}

// Get returns the value, initializing it if necessary.
func (l *Lazy[T]) Get() T {
	return *l.Ref()
}

// Ref returns a pointer to the shared value, initializing it if necessary.
// Every caller receives the same pointer. The value must not be modified.
func (l *Lazy[T]) Ref() *T {
	return l.cell.GetOrInit(l.fn)
}

// TryRef is like Ref but returns the poison error instead of panicking.
func (l *Lazy[T]) TryRef() (*T, error) {
	return l.cell.TryGetOrInit(l.fn)
}

// TryGet returns the value, or the poison error if the builder aborted.
func (l *Lazy[T]) TryGet() (T, error) {
	p, err := l.TryRef()
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// IsInitialized returns true if the value has been initialized.
func (l *Lazy[T]) IsInitialized() bool {
	return l.cell.IsDone()
}

// State returns the state of the underlying cell.
func (l *Lazy[T]) State() once.State {
	return l.cell.State()
}

// Memoize creates a memoized version of a function.
func Memoize[T any](fn func() T) func() T {
	lazy := New(fn)
	return func() T {
		return lazy.Get()
	}
}

// Value creates a lazy value that is already initialized to value.
func Value[T any](value T) *Lazy[T] {
	l := &Lazy[T]{
		cell: &once.SpinCell[T]{},
		fn:   func() T { return value },
	}
	l.cell.Set(value)
	return l
}
