package debounce

import (
	"sync"
	"time"
)

// Default timings for pointer sampling.
const (
	DefaultWait    = 250 * time.Millisecond
	DefaultMaxWait = 500 * time.Millisecond
)

// Debouncer coalesces calls into trailing invocations of fn.
//
// It is idle until the first Call of a burst, which records the burst start
// and arms a timer. Every further Call re-arms the timer for the wait
// period, capped so it never lands later than burst start plus maxWait.
// A Call made at or after that ceiling invokes fn immediately.
// fn always receives the value of the most recent Call.
type Debouncer[T any] struct {
	wait    time.Duration
	maxWait time.Duration
	clock   Clock
	fn      func(T)

	mu         sync.Mutex
	pending    bool
	burstStart time.Time
	last       T
	timer      Timer
	gen        uint64
}

// New creates a Debouncer. A nil clock uses SystemClock. A maxWait smaller
// than wait is raised to wait.
func New[T any](wait, maxWait time.Duration, clock Clock, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	if maxWait < wait {
		maxWait = wait
	}
	return &Debouncer[T]{
		wait:    wait,
		maxWait: maxWait,
		clock:   clock,
		fn:      fn,
	}
}

// Call records v and schedules or forces an invocation.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	now := d.clock.Now()
	d.last = v
	if !d.pending {
		d.pending = true
		d.burstStart = now
	}

	elapsed := now.Sub(d.burstStart)
	if elapsed >= d.maxWait {
		d.resetLocked()
		d.mu.Unlock()
		d.fn(v)
		return
	}

	delay := d.wait
	if remaining := d.maxWait - elapsed; remaining < delay {
		delay = remaining
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// fire runs the trailing invocation unless the timer was superseded or
// cancelled after it was armed.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.timer = nil
	d.resetLocked()
	d.mu.Unlock()

	d.fn(v)
}

// resetLocked returns to idle. The pending timer, if any, is stopped and
// its generation invalidated.
func (d *Debouncer[T]) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	var zero T
	d.last = zero
}

// Cancel drops any pending invocation. Safe to call when idle and more than
// once. After Cancel returns no invocation from earlier calls will start.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

// Flush runs the pending invocation now. It reports whether one ran.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.last
	d.resetLocked()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
