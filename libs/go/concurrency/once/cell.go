package once

import "sync"

// Cell is a lazy initialization cell backed by sync.Once. Goroutines that
// lose the race are parked until the winner finishes, so waiting costs no
// CPU.
//
// A Cell must not be copied after first use.
type Cell[T any] struct {
	once sync.Once
	slot[T]
}

// GetOrInit returns the cell's value, running build first if no other
// goroutine has started it. build runs at most once over the lifetime of
// the cell; later calls ignore their argument. It panics with a
// *PoisonError if the cell is poisoned.
func (c *Cell[T]) GetOrInit(build func() T) *T {
	return mustValue(c.TryGetOrInit(build))
}

// TryGetOrInit is like GetOrInit but returns the *PoisonError instead of
// panicking.
func (c *Cell[T]) TryGetOrInit(build func() T) (*T, error) {
	if st := c.load(); st.Terminal() {
		return c.result(st)
	}
	c.once.Do(func() {
		c.state.Store(uint32(Running))
		c.fill(build)
	})
	return c.result(c.load())
}

// Get returns the value without initializing. ok is false unless the
// cell is Done.
func (c *Cell[T]) Get() (value *T, ok bool) {
	return c.peek()
}

// Set stores value if the cell is still Empty and reports whether it did.
func (c *Cell[T]) Set(value T) bool {
	won := false
	c.TryGetOrInit(func() T {
		won = true
		return value
	})
	return won
}

// State returns the current state.
func (c *Cell[T]) State() State {
	return c.load()
}

// IsDone reports whether the value has been initialized.
func (c *Cell[T]) IsDone() bool {
	return c.load() == Done
}
