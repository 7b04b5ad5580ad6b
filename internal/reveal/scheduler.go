package reveal

import "time"

// Timer is a pending deferred callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already ran or was stopped.
	Stop() bool
}

// Scheduler arms deferred callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WallClock schedules on real time via time.AfterFunc.
var WallClock Scheduler = wallClock{}
