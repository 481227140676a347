package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultHideDelay is how long the completion state stays visible.
const DefaultHideDelay = 4 * time.Second

// Indicator is the shared counter and progress bar. When the page becomes
// complete it shows a completion state that hides itself after a delay, and
// hides it at once when the page becomes incomplete again.
type Indicator struct {
	clock     clockwork.Clock
	hideAfter time.Duration

	mu          sync.Mutex
	counts      Counts
	complete    bool
	celebrating bool
	timer       clockwork.Timer
	gen         uint64
}

// NewIndicator creates an indicator. hideAfter <= 0 means DefaultHideDelay
// and a nil clock means the real clock.
func NewIndicator(clock clockwork.Clock, hideAfter time.Duration) *Indicator {
	if hideAfter <= 0 {
		hideAfter = DefaultHideDelay
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Indicator{clock: clock, hideAfter: hideAfter}
}

// Update shows new counts.
func (i *Indicator) Update(c Counts) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.counts = c

	if !c.Complete() {
		i.complete = false
		i.hideLocked()

		return
	}

	if i.complete {
		return
	}

	i.complete = true
	i.celebrating = true
	i.gen++
	gen := i.gen

	i.timer = i.clock.AfterFunc(i.hideAfter, func() {
		i.mu.Lock()
		defer i.mu.Unlock()

		if gen == i.gen {
			i.celebrating = false
			i.timer = nil
		}
	})
}

// hideLocked must be called with i.mu held.
func (i *Indicator) hideLocked() {
	i.gen++
	i.celebrating = false

	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

// Counts returns the last counts shown.
func (i *Indicator) Counts() Counts {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.counts
}

// Text is the visible counter, e.g. "3/5".
func (i *Indicator) Text() string {
	c := i.Counts()

	return fmt.Sprintf("%d/%d", c.Filled, c.Total)
}

// Percent is the progress bar fill.
func (i *Indicator) Percent() int {
	return i.Counts().Percent()
}

// CompletionVisible reports whether the completion state is showing.
func (i *Indicator) CompletionVisible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.celebrating
}
