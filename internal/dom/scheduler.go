package dom

import (
	"sort"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running.
	// Returns false if it already ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the UI goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// ManualClock is a Scheduler whose time only moves when told to.
// It is used by tests and by the non-interactive renderer.
type ManualClock struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	due   time.Time
	seq   uint64
	fn    func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.clock.prune()
	return true
}

// NewManualClock creates a clock starting at the zero time.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	return c.now
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{clock: c, due: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of timers that have not run yet.
func (c *ManualClock) Pending() int {
	return len(c.timers)
}

// Advance moves the clock forward by d, running due timers in order.
// Timers scheduled by callbacks run too if they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		t := c.next()
		if t == nil || t.due.After(target) {
			break
		}
		c.now = t.due
		c.run(t)
	}
	c.now = target
}

// Flush runs every pending timer, advancing the clock as far as needed.
// Chains of timers are followed up to a fixed bound.
func (c *ManualClock) Flush() {
	for i := 0; i < 10000; i++ {
		t := c.next()
		if t == nil {
			return
		}
		if t.due.After(c.now) {
			c.now = t.due
		}
		c.run(t)
	}
}

func (c *ManualClock) next() *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].due.Equal(c.timers[j].due) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].due.Before(c.timers[j].due)
	})
	return c.timers[0]
}

func (c *ManualClock) run(t *manualTimer) {
	t.done = true
	c.prune()
	t.fn()
}

func (c *ManualClock) prune() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
}
