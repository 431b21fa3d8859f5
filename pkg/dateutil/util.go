package dateutil

import (
	"context"
	"time"
)

// Clock is the authoritative source of the current time.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

type systemClock struct{}

func NewSystemClock() *systemClock {
	return &systemClock{}
}

func (systemClock) Now(context.Context) (time.Time, error) {
	return time.Now().UTC(), nil
}

type fixedClock struct {
	t time.Time
}

// NewFixedClock always reports t.
func NewFixedClock(t time.Time) *fixedClock {
	return &fixedClock{t: t.UTC()}
}

func (c *fixedClock) Now(context.Context) (time.Time, error) {
	return c.t, nil
}

// Truncate drops the precision below milliseconds. Timestamp columns are
// datetime(3), so a truncated time reads back unchanged.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
