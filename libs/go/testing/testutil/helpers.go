// Package testutil provides helpers for concurrency and property-based tests.
package testutil

import (
	"sync"
	"testing"
	"time"
)

// Release starts n goroutines, holds them at a common gate, then lets them
// all run fn at once. It returns after every goroutine has finished.
func Release(n int, fn func(i int)) {
	var ready, done sync.WaitGroup
	gate := make(chan struct{})

	ready.Add(n)
	done.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer done.Done()
			ready.Done()
			<-gate
			fn(i)
		}(i)
	}

	ready.Wait()
	close(gate)
	done.Wait()
}

// Collect runs fn on n released goroutines and returns their results in
// goroutine order.
func Collect[T any](n int, fn func(i int) T) []T {
	out := make([]T, n)
	Release(n, func(i int) {
		out[i] = fn(i)
	})
	return out
}

// Elapsed returns how long fn took.
func Elapsed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// AllSame reports whether every pointer in ptrs is non-nil and identical.
func AllSame[T any](ptrs []*T) bool {
	if len(ptrs) == 0 {
		return true
	}
	first := ptrs[0]
	if first == nil {
		return false
	}
	for _, p := range ptrs[1:] {
		if p != first {
			return false
		}
	}
	return true
}

// Recovered runs fn and returns the value it panicked with, or nil.
func Recovered(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

// Eventually polls cond until it is true or timeout elapses.
func Eventually(t testing.TB, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v: %s", timeout, msg)
		}
		time.Sleep(time.Millisecond)
	}
}
