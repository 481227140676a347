package draft

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs fn once delay has passed without a new Trigger. At most one
// timer is pending at any time.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

func NewDebouncer(clock clockwork.Clock, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger cancels the pending run, if any, and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending run. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++

	if d.timer == nil {
		return false
	}

	d.timer.Stop()
	d.timer = nil

	return true
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()

	// A timer that fired while being replaced must not run.
	if gen != d.gen {
		d.mu.Unlock()

		return
	}

	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
