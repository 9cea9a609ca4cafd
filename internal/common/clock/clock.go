package clock

import "time"

type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FakeClock is a fixed-time clock for tests.
type FakeClock struct {
	time time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{time: t}
}

func (c *FakeClock) Now() time.Time {
	return c.time
}

func (c *FakeClock) Since(t time.Time) time.Duration {
	return c.time.Sub(t)
}

func (c *FakeClock) Advance(d time.Duration) {
	c.time = c.time.Add(d)
}
