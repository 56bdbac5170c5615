package domain

import "time"

// Clock abstracts wall time so lifecycle transitions and quotes can be
// tested against a fixed point in time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
