// Package activity tracks in-flight sync operations and whether the view that
// started them is still around.
package activity

import "sync"

// Tracker is a reference-counted busy flag.
// The loading indicator is shown while Count() > 0.
type Tracker struct {
	mu       sync.Mutex
	count    int
	onChange func(busy bool)
}

// NewTracker creates a tracker; onChange (optional) fires on idle<->busy edges.
// It runs with the tracker locked, so it must not call back into the tracker.
func NewTracker(onChange func(busy bool)) *Tracker {
	return &Tracker{onChange: onChange}
}

// Begin marks one operation in flight and returns its completion func.
// Calling the returned func more than once has no further effect.
func (t *Tracker) Begin() (done func()) {
	t.mu.Lock()
	t.count++
	if t.count == 1 && t.onChange != nil {
		t.onChange(true)
	}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(t.end)
	}
}

func (t *Tracker) end() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return
	}
	t.count--
	if t.count == 0 && t.onChange != nil {
		t.onChange(false)
	}
}

// Count returns the number of operations in flight
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Busy returns true while any operation is in flight
func (t *Tracker) Busy() bool {
	return t.Count() > 0
}
