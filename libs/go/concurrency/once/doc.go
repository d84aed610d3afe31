// Package once provides exactly-once lazy initialization cells.
//
// A cell holds one value of type T that is computed on first access by
// whichever goroutine gets there first. Every other concurrent or later
// caller waits for that computation and then observes the same value, by
// pointer, for the lifetime of the cell.
//
// Two variants share one contract ([Initializer]):
//
//   - [Cell] parks waiters inside [sync.Once]. This is the default.
//   - [SpinCell] uses a compare-and-swap on a three-state word and busy-waits.
//     It takes no lock at any point.
//
// The zero value of both is an empty cell, so they can be declared as
// package-level variables without a constructor:
//
//	var table once.Cell[map[int]string]
//
//	func Table() map[int]string {
//		return *table.GetOrInit(func() map[int]string {
//			return map[int]string{0: "foo", 1: "bar", 2: "baz"}
//		})
//	}
//
// # Failure
//
// If the builder panics or calls [runtime.Goexit], the cell becomes
// [Poisoned]. Every waiter and every later caller gets the same
// [*PoisonError]: TryGetOrInit returns it and GetOrInit panics with it.
// A poisoned cell is never retried.
//
// # Reentrancy
//
// A builder must not read its own cell, directly or through other cells.
// Doing so deadlocks: SpinCell spins forever and Cell blocks inside
// sync.Once. Builders may freely initialize other, independent cells.
package once
