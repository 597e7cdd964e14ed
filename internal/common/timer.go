// Package common provides small shared utilities for timing and
// throughput statistics.
package common

import "time"

// Timer measures elapsed wall-clock time for a unit of work.
type Timer struct {
	start   time.Time
	elapsed time.Duration
}

// NewTimer creates a started timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop records and returns the elapsed duration. Calling Stop again
// extends the measurement from the original start.
func (t *Timer) Stop() time.Duration {
	t.elapsed = time.Since(t.start)
	return t.elapsed
}

// Elapsed returns the duration recorded by the last Stop.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}
