package gui

import "time"

// maxFrameDt caps a single frame so a stalled window does not produce one
// enormous step.
const maxFrameDt = 0.1

// Clock measures wall-clock seconds between frames. The first tick after
// Reset returns zero.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Reset() { c.started = false }

func (c *Clock) Tick() float64 {
	t := c.now()
	if !c.started {
		c.last, c.started = t, true
		return 0
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return min(max(dt, 0), maxFrameDt)
}
