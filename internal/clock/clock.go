package clock

import "time"

// Clock is the single wall-clock capability handed to services. Every
// operation reads Now exactly once and reuses that instant for all of its
// timing comparisons, so one atomic unit can never observe two times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a Clock backed by time.Now in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a Clock pinned to one instant, for tests.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
