package clock

import "time"

// FakeClock reports a fixed instant so tests can pin sync timestamps.
type FakeClock struct {
	Instant time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{Instant: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.Instant
}
