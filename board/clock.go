package board

import (
	"sync/atomic"
	"time"
)

// clock hands out strictly increasing UTC timestamps. When the wall clock has
// not advanced past the previous stamp it returns the previous stamp plus 1ns.
type clock struct {
	now  func() time.Time
	last int64
}

func newClock(now func() time.Time) *clock {
	if now == nil {
		now = time.Now
	}
	return &clock{now: now}
}

func (c *clock) next() time.Time {
	for {
		now := c.now().UnixNano()
		last := atomic.LoadInt64(&c.last)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&c.last, last, now) {
			return time.Unix(0, now).UTC()
		}
	}
}

// observe moves the clock past t so stamps handed out later never precede
// seeded data.
func (c *clock) observe(t time.Time) {
	n := t.UnixNano()
	for {
		last := atomic.LoadInt64(&c.last)
		if n <= last || atomic.CompareAndSwapInt64(&c.last, last, n) {
			return
		}
	}
}
