// Package debounce coalesces bursts of calls so only the latest value is handled
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the last value submitted within a wait window to its handler
type Debouncer[T any] struct {
	// callMu serializes deliveries so fn never runs concurrently with itself
	callMu  sync.Mutex
	mu      sync.Mutex
	wait    time.Duration
	fn      func(T)
	timer   *time.Timer
	pending *T
	stopped bool
}

// New creates a Debouncer that calls fn with the latest value once no new value has arrived for wait
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		wait: wait,
		fn:   fn,
	}
}

// Call submits a value, replacing any value still waiting to be delivered
func (d *Debouncer[T]) Call(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = &value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

// Flush delivers the pending value (if any) immediately
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Stop drops the pending value and waits for an in-flight delivery to return. Calls after Stop are ignored.
// Stop must not be called from the handler.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.callMu.Lock()
	d.callMu.Unlock()
}

func (d *Debouncer[T]) fire() {
	d.callMu.Lock()
	defer d.callMu.Unlock()
	d.mu.Lock()
	value := d.pending
	d.pending = nil
	stopped := d.stopped
	d.mu.Unlock()
	if value == nil || stopped {
		return
	}
	d.fn(*value)
}
