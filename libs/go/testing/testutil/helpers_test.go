package testutil

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestRelease(t *testing.T) {
	var calls atomic.Int32
	Release(16, func(int) {
		calls.Add(1)
	})
	if got := calls.Load(); got != 16 {
		t.Errorf("expected 16 calls, got %d", got)
	}
}

func TestCollectKeepsOrder(t *testing.T) {
	out := Collect(8, func(i int) int { return i * i })
	for i, v := range out {
		if v != i*i {
			t.Errorf("index %d: expected %d, got %d", i, i*i, v)
		}
	}
}

func TestAllSame(t *testing.T) {
	a, b := 1, 1
	if !AllSame([]*int{&a, &a, &a}) {
		t.Error("expected identical pointers to match")
	}
	if AllSame([]*int{&a, &b}) {
		t.Error("expected distinct pointers not to match")
	}
	if AllSame([]*int{nil, nil}) {
		t.Error("expected nil pointers not to match")
	}
}

func TestRecovered(t *testing.T) {
	if r := Recovered(func() {}); r != nil {
		t.Errorf("expected nil, got %v", r)
	}
	if r := Recovered(func() { panic("boom") }); r != "boom" {
		t.Errorf("expected boom, got %v", r)
	}
}

func TestRecordingObserver(t *testing.T) {
	r := NewRecordingObserver()
	done := r.InitStarted("a")
	done(errors.New("failed"))

	if r.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", r.Len())
	}
	finished := r.Count(func(e InitEvent) bool { return e.Finished && e.Err != nil })
	if finished != 1 {
		t.Errorf("expected 1 failed finish, got %d", finished)
	}
}
