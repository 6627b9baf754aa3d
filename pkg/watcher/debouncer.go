package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the default quiet period before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer collapses a burst of Trigger calls into one call of fn,
// made once no Trigger has arrived for the debounce period.
type Debouncer struct {
	period time.Duration
	fn     func()

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer returns a debouncer that calls fn. A zero period means
// DefaultDebounce.
func NewDebouncer(period time.Duration, fn func()) *Debouncer {
	if period <= 0 {
		period = DefaultDebounce
	}
	return &Debouncer{period: period, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.period, func() {
		d.mu.Lock()
		// A stopped timer may already have fired; only the latest one runs.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops any scheduled call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Period returns the quiet period.
func (d *Debouncer) Period() time.Duration { return d.period }
