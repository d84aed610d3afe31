package once

import (
	"fmt"
	"strings"
)

// Initializer is the contract shared by Cell and SpinCell.
type Initializer[T any] interface {
	GetOrInit(build func() T) *T
	TryGetOrInit(build func() T) (*T, error)
	Get() (*T, bool)
	Set(value T) bool
	State() State
	IsDone() bool
}

var (
	_ Initializer[int] = (*Cell[int])(nil)
	_ Initializer[int] = (*SpinCell[int])(nil)
)

// Strategy selects how goroutines that lose the initialization race wait.
type Strategy int

const (
	// Blocking parks waiters in sync.Once.
	Blocking Strategy = iota
	// Spin busy-waits on an atomic state word.
	Spin
)

func (s Strategy) String() string {
	switch s {
	case Blocking:
		return "blocking"
	case Spin:
		return "spin"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts "blocking" or "spin" into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blocking":
		return Blocking, nil
	case "spin":
		return Spin, nil
	default:
		return Blocking, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// New returns an empty cell for the given strategy. Unknown strategies
// fall back to Blocking.
func New[T any](s Strategy) Initializer[T] {
	if s == Spin {
		return &SpinCell[T]{}
	}
	return &Cell[T]{}
}
