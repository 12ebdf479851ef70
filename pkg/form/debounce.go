package form

import (
	"sync"
	"time"
)

// debouncer is a trailing-edge debounce for one field: every push restarts
// the timer, and when it fires the most recent event is delivered.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	last    Event
	stopped bool
	fire    func(Event)
}

func newDebouncer(delay time.Duration, fire func(Event)) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) push(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.last = e
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.flush(gen) })
}

func (d *debouncer) flush(gen uint64) {
	d.mu.Lock()
	// superseded by a later push whose timer is still pending
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	e := d.last
	d.timer = nil
	d.mu.Unlock()

	d.fire(e)
}

// pending reports whether a timer is armed.
func (d *debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
