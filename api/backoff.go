package api

import "time"

// BackoffStrategy yields the wait before the next retry attempt. Attempts are
// zero-indexed.
type BackoffStrategy interface {
	Delay(attempt int) time.Duration
}

// StaticBackoff waits the same interval between every attempt.
type StaticBackoff struct {
	Interval time.Duration
}

func (b StaticBackoff) Delay(int) time.Duration {
	return b.Interval
}

// IncrementalBackoff starts at Base and grows linearly by Step on every
// further attempt. Max caps the delay when set.
type IncrementalBackoff struct {
	Base time.Duration
	Step time.Duration
	Max  time.Duration
}

func (b IncrementalBackoff) Delay(attempt int) time.Duration {
	d := b.Base + time.Duration(attempt)*b.Step
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}
