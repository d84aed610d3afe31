package testutil

import "sync"

// InitEvent is one builder run seen by a RecordingObserver.
type InitEvent struct {
	Name     string
	Finished bool
	Err      error
}

// RecordingObserver records builder starts and finishes. It satisfies the
// registry observer contract structurally.
type RecordingObserver struct {
	mu     sync.RWMutex
	events []InitEvent
}

// NewRecordingObserver creates an empty recorder.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{events: make([]InitEvent, 0)}
}

// InitStarted records a start and returns the matching finish hook.
func (r *RecordingObserver) InitStarted(name string) func(err error) {
	r.append(InitEvent{Name: name})
	return func(err error) {
		r.append(InitEvent{Name: name, Finished: true, Err: err})
	}
}

func (r *RecordingObserver) append(e InitEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events.
func (r *RecordingObserver) Events() []InitEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]InitEvent, len(r.events))
	copy(result, r.events)
	return result
}

// Count returns the number of events matching the predicate.
func (r *RecordingObserver) Count(predicate func(InitEvent) bool) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, e := range r.events {
		if predicate(e) {
			count++
		}
	}
	return count
}

// Len returns the number of recorded events.
func (r *RecordingObserver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
