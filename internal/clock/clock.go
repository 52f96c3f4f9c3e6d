package clock

import "time"

// Clock supplies the current time. Each public action samples it exactly
// once, so every timing comparison inside one action sees the same instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a clock pinned to one instant, for tests.
type Fixed struct {
	Instant time.Time
}

// At returns a Fixed clock set to t.
func At(t time.Time) Fixed {
	return Fixed{Instant: t}
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return f.Instant
}
