package ports

import "time"

// Clock supplies the current time. Only scan boundaries and request handlers
// sample it; domain services receive time as an explicit argument.
type Clock interface {
	Now() time.Time
}
