package editor

import (
	"sync"
	"time"
)

// DefaultDebounceInterval guards a control against touch+click double firing
const DefaultDebounceInterval = time.Second

// Debouncer lets an action through at most once per interval.
// Each control owns its own Debouncer.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewDebouncer creates a debouncer with the given minimum interval
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval, now: time.Now}
}

// Allow reports whether a trigger at the current time may proceed,
// and if so records it
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}

// Do runs action unless it was triggered less than an interval ago.
// It reports whether action ran.
func (d *Debouncer) Do(action func()) bool {
	if !d.Allow() {
		return false
	}
	action()
	return true
}
