package registry

import (
	"github.com/auth-platform/lazystatic/libs/go/concurrency/once"
	"github.com/auth-platform/lazystatic/libs/go/functional/lazy"
)

// Static is a named lazy value declared in a Catalog.
type Static[T any] struct {
	name     string
	strategy once.Strategy
	value    *lazy.Lazy[T]
}

// Get returns the shared value, building it on first use.
func (s *Static[T]) Get() *T {
	return s.value.Ref()
}

// Value returns a copy of the value, building it on first use.
func (s *Static[T]) Value() T {
	return s.value.Get()
}

// TryGet returns the shared value or the poison error.
func (s *Static[T]) TryGet() (*T, error) {
	return s.value.TryRef()
}

// Name returns the declared name.
func (s *Static[T]) Name() string {
	return s.name
}

// State returns the state of the underlying cell.
func (s *Static[T]) State() once.State {
	return s.value.State()
}

// Strategy returns the cell strategy the static was declared with.
func (s *Static[T]) Strategy() once.Strategy {
	return s.strategy
}
