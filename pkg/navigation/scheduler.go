package navigation

import "time"

// Timer is a scheduled single-shot task.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemScheduler returns the wall-clock scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return clockScheduler{}
}
