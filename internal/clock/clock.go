package clock

import "time"

// Clock is the time oracle used for every end-time and resolution-time
// comparison. Production reads the wall clock; tests install a Fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// New returns a wall-clock backed Clock.
func New() Clock {
	return systemClock{}
}

// Fake is a settable clock for tests and simulations.
type Fake struct {
	current time.Time
}

// NewFake returns a Fake pinned to t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

// Now returns the pinned time.
func (f *Fake) Now() time.Time {
	return f.current
}

// Set pins the clock to t.
func (f *Fake) Set(t time.Time) {
	f.current = t
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
