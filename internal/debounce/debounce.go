// Package debounce coalesces rapid event bursts into single callbacks.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultWindow is the recommended quiet window for bursty sources such
// as filesystem events.
const DefaultWindow = 300 * time.Millisecond

// Debouncer delays a callback until a quiet window elapses with no new
// triggers. Rapid successive triggers reset the window and replace the
// pending callback, so only the newest one fires.
type Debouncer struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	window    time.Duration
	timer     clockwork.Timer
	pending   func()
	stopped   bool
	triggered uint64
	fired     uint64
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock substitutes the wall clock, usually with a fake in tests.
func WithClock(c clockwork.Clock) Option {
	return func(d *Debouncer) { d.clock = c }
}

// New creates a Debouncer with the given quiet window. A window of zero
// or less falls back to DefaultWindow.
func New(window time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		clock:  clockwork.NewRealClock(),
		window: window,
	}
	if d.window <= 0 {
		d.window = DefaultWindow
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger schedules fn to run once the window elapses without another
// trigger. A newer trigger replaces fn entirely. After Stop, Trigger is
// a no-op.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.triggered++
	d.pending = fn

	// Cancel the running window before arming a fresh one.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, d.fire)
}

// Flush runs the pending callback immediately, if there is one, instead
// of waiting out the window.
func (d *Debouncer) Flush() {
	d.fire()
}

// Stop cancels any pending callback and rejects future triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Triggered reports how many triggers have been accepted.
func (d *Debouncer) Triggered() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.triggered
}

// Fired reports how many callbacks have actually run.
func (d *Debouncer) Fired() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// fire drains the pending callback and runs it outside the lock. A
// trigger that raced the expiry simply sees its callback run now; the
// replaced timer finds nothing pending and does nothing.
func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if fn != nil {
		d.fired++
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}
