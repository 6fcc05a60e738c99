package clock

import (
	"time"

	"salones/shared/timezone"
)

// Clock supplies the current time in the application timezone. Services take a
// Clock instead of calling timezone.Now directly so that time-dependent rules
// can be exercised deterministically in tests.
type Clock interface {
	Now() time.Time
}

type appClock struct{}

func (appClock) Now() time.Time {
	return timezone.Now()
}

// New returns a Clock backed by the application timezone.
func New() Clock {
	return appClock{}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// NewFixed returns a Clock that always reports t.
func NewFixed(t time.Time) Clock {
	return fixedClock{t: t}
}
