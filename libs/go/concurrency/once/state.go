package once

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// State is the initialization state of a cell.
type State uint32

const (
	// Empty means no builder has started.
	Empty State = iota
	// Running means exactly one goroutine is executing the builder.
	Running
	// Done means the value is valid and permanent.
	Done
	// Poisoned means the builder aborted; the cell will never hold a value.
	Poisoned
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Running:
		return "running"
	case Done:
		return "done"
	case Poisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == Done || s == Poisoned
}

// maxSpins bounds the tight re-check loop before yielding to the scheduler.
const maxSpins = 16

// slot is the storage and state word shared by both cell variants.
// The strategy that guards the Empty -> Running transition lives in the
// embedding type.
type slot[T any] struct {
	state  atomic.Uint32
	value  T
	poison *PoisonError
}

func (s *slot[T]) load() State {
	return State(s.state.Load())
}

// result interprets a terminal state. It must only be called after a
// load observed Done or Poisoned.
func (s *slot[T]) result(st State) (*T, error) {
	if st == Done {
		return &s.value, nil
	}
	return nil, s.poison
}

// fill runs build as the single winner. The caller must own the Running
// state. value and poison are written before the state store that
// publishes them.
func (s *slot[T]) fill(build func() T) {
	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		s.poison = &PoisonError{
			Value:  r,
			Goexit: r == nil,
			Stack:  debug.Stack(),
		}
		s.state.Store(uint32(Poisoned))
	}()

	s.value = build()
	completed = true
	s.state.Store(uint32(Done))
}

// spin waits until the state leaves Running and returns the new state.
func (s *slot[T]) spin() State {
	spins := 0
	for {
		st := s.load()
		if st != Running {
			return st
		}
		spins++
		if spins > maxSpins {
			spins = 0
			runtime.Gosched()
		}
	}
}

func (s *slot[T]) peek() (*T, bool) {
	if s.load() == Done {
		return &s.value, true
	}
	return nil, false
}

func mustValue[T any](p *T, err error) *T {
	if err != nil {
		panic(err)
	}
	return p
}
