// Package clock provides the wall-clock implementation of the time port.
package clock

import "time"

// SystemClock reads the operating system clock in UTC.
type SystemClock struct{}

// NewSystemClock creates a system clock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
