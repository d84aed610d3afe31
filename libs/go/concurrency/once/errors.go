package once

import (
	"errors"
	"fmt"
)

var (
	// ErrPoisoned is matched by every error returned from a poisoned cell.
	ErrPoisoned = errors.New("once: cell poisoned by aborted initializer")

	// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names.
	ErrUnknownStrategy = errors.New("once: unknown strategy")
)

// PoisonError describes an initializer that aborted while the cell was
// Running. The same *PoisonError is delivered to every caller of the cell.
type PoisonError struct {
	// Value is what the builder panicked with. It is nil when Goexit is set.
	Value any
	// Goexit reports that the builder called runtime.Goexit.
	Goexit bool
	// Stack is the winner's stack at the time of the abort.
	Stack []byte
}

func (e *PoisonError) Error() string {
	if e.Goexit {
		return ErrPoisoned.Error() + ": initializer called runtime.Goexit"
	}
	return fmt.Sprintf("%s: initializer panicked: %v", ErrPoisoned.Error(), e.Value)
}

// Unwrap exposes ErrPoisoned and, when the builder panicked with an error,
// that error.
func (e *PoisonError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPoisoned, err}
	}
	return []error{ErrPoisoned}
}
