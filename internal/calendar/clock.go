package calendar

import (
	"sync"
	"time"
)

// Clock supplies the current instant. Every "past date" and "today" rule
// reads it instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// Today returns the calendar day of c.Now().
func Today(c Clock) Date {
	return DateOf(c.Now())
}

type systemClock struct {
	loc *time.Location
}

// SystemClock reports wall time in loc. A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always returns the same instant until Set is called.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
