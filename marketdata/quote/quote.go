// Package quote implements a versioned market observable, replacing the
// Observer/Observable push-notification pattern with a pull-based
// dirty-flag and monotonic version counter: consumers compare the
// version they last saw against Version() instead of registering a
// callback.
package quote

import "sync"

// Quote is a mutex-guarded float64 whose every mutation bumps a
// monotonic version counter. An engine holding a Quote's value and the
// version it was read at can cheaply detect staleness by re-reading
// Version() rather than subscribing to change notifications.
type Quote struct {
	mu      sync.RWMutex
	value   float64
	version uint64
}

// New returns a Quote initialized to value, at version 1.
func New(value float64) *Quote {
	return &Quote{value: value, version: 1}
}

// Value returns the current value.
func (q *Quote) Value() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.value
}

// Version returns the current version. It increases by one on every
// Set call, including a Set that leaves the value unchanged.
func (q *Quote) Version() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.version
}

// Set updates the value and bumps the version.
func (q *Quote) Set(value float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.value = value
	q.version++
}

// Snapshot returns the value and version read atomically together, so a
// caller can cache both without a torn read between them.
func (q *Quote) Snapshot() (value float64, version uint64) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.value, q.version
}
