package booking

import "time"

// Clock supplies the current time to the engine.  Injecting it keeps
// past-date validation deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// DateOnly truncates t to UTC midnight.  All stay boundaries and
// "today" comparisons happen at this granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
