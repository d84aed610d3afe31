// Package registry provides a process-wide catalog of named lazy statics
// and the generic thread-safe Registry[K, V] it is built on.
package registry

import "sync"

// Registry is a thread-safe key-value store.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a new empty Registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{items: make(map[K]V)}
}

// RegisterIfAbsent stores value under key unless the key is taken. It
// returns the value now held for key and whether this call stored it.
func (r *Registry[K, V]) RegisterIfAbsent(key K, value V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[key]; ok {
		return existing, false
	}
	r.items[key] = value
	return value, true
}

// Get retrieves a value by key. Returns the value and true if found.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[key]
	return value, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[key]
	return ok
}

// Keys returns all keys in the registry.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all values in the registry.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := make([]V, 0, len(r.items))
	for _, v := range r.items {
		values = append(values, v)
	}
	return values
}

// ForEach applies fn to each key-value pair. fn must not modify r.
func (r *Registry[K, V]) ForEach(fn func(K, V)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, v := range r.items {
		fn(k, v)
	}
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Filter returns a new registry with entries that satisfy the predicate.
func (r *Registry[K, V]) Filter(predicate func(K, V) bool) *Registry[K, V] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := New[K, V]()
	for k, v := range r.items {
		if predicate(k, v) {
			result.items[k] = v
		}
	}
	return result
}
