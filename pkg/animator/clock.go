package animator

import "time"

// Clock provides time for frame counting. The default implementation uses
// system time. Tests can inject a fake clock with WithClock to control
// frame timing deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the clock used when none is supplied.
var SystemClock Clock = realClock{}
