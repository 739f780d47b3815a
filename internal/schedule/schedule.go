// Package schedule provides the cancelable deferred-task primitive behind
// auto-publish. Trigger collapses rapid repeated calls into a single run
// after a quiet period (debounce, not throttle).
package schedule

import (
	"sync"
	"time"
)

// Timer is the cancelable handle returned by a TimerFactory.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f to run once after d. Tests substitute a fake
// factory to drive time by hand.
type TimerFactory func(d time.Duration, f func()) Timer

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

func wallClockTimer(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

// Debouncer runs a task once after a quiet period from the most recent
// Trigger. A Trigger before the period elapses cancels and reschedules, so
// at most one run is ever pending.
type Debouncer struct {
	delay   time.Duration
	factory TimerFactory

	mu      sync.Mutex
	seq     int
	pending Timer
}

// NewDebouncer returns a wall-clock debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncerWithFactory(delay, wallClockTimer)
}

// NewDebouncerWithFactory is NewDebouncer with an injected timer source.
func NewDebouncerWithFactory(delay time.Duration, factory TimerFactory) *Debouncer {
	return &Debouncer{delay: delay, factory: factory}
}

// Trigger schedules fn after the quiet period, replacing any pending run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	id := d.seq
	d.pending = d.factory(d.delay, func() {
		d.mu.Lock()
		// A Trigger or Cancel that raced the firing timer wins.
		if d.seq != id {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending run.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Pending reports whether a run is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
