package clock

import "time"

// Clock supplies the current time. Services and the sweep runner take a Clock
// at construction so scheduled runs, manual "run as of" triggers, and tests
// all flow through the same code path.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns a Clock backed by the wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock frozen at t. Used in tests and when an admin runs a
// sweep "as if" it were a given moment.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}
