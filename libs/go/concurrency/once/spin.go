package once

// SpinCell is a lazy initialization cell that takes no lock. The winner
// moves the state from Empty to Running with a compare-and-swap; everyone
// else re-reads the state until it is terminal.
//
// Waiters consume CPU while the builder runs. Prefer Cell unless the
// builder is known to be short or blocking primitives are unwanted.
//
// A SpinCell must not be copied after first use.
type SpinCell[T any] struct {
	slot[T]
}

// GetOrInit returns the cell's value, running build first if no other
// goroutine has started it. build runs at most once over the lifetime of
// the cell; later calls ignore their argument. It panics with a
// *PoisonError if the cell is poisoned.
func (c *SpinCell[T]) GetOrInit(build func() T) *T {
	return mustValue(c.TryGetOrInit(build))
}

// TryGetOrInit is like GetOrInit but returns the *PoisonError instead of
// panicking.
func (c *SpinCell[T]) TryGetOrInit(build func() T) (*T, error) {
	st := c.load()
	if st == Done {
		return &c.value, nil
	}
	for {
		switch st {
		case Empty:
			if c.state.CompareAndSwap(uint32(Empty), uint32(Running)) {
				c.fill(build)
				return c.result(c.load())
			}
			st = c.load()
		case Running:
			st = c.spin()
		default:
			return c.result(st)
		}
	}
}

// Get returns the value without initializing. ok is false unless the
// cell is Done.
func (c *SpinCell[T]) Get() (value *T, ok bool) {
	return c.peek()
}

// Set stores value if the cell is still Empty and reports whether it did.
func (c *SpinCell[T]) Set(value T) bool {
	won := false
	c.TryGetOrInit(func() T {
		won = true
		return value
	})
	return won
}

// State returns the current state.
func (c *SpinCell[T]) State() State {
	return c.load()
}

// IsDone reports whether the value has been initialized.
func (c *SpinCell[T]) IsDone() bool {
	return c.load() == Done
}
