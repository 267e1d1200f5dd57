package chatsession

import "time"

// Timer is the stoppable handle returned by Clock.AfterFunc
type Timer interface {
	Stop() bool
}

// Clock abstracts wall-clock access so decay logic is testable without
// real waits.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package
func RealClock() Clock { return realClock{} }
