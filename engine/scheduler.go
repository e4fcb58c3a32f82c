package engine

import (
	"time"
)

// Timer is a pending one-shot callback handed out by a Scheduler.
type Timer interface {
	// Stop cancels the timer. It reports whether the cancellation prevented
	// the callback from firing.
	Stop() bool
}

// Scheduler hands out one-shot timers. Production code uses the wall clock;
// tests drive a manual scheduler so playback scenarios run without sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type wallScheduler struct{}

type wallTimer struct {
	t *time.Timer
}

func (t wallTimer) Stop() bool {
	return t.t.Stop()
}

func (wallScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return wallTimer{t: time.AfterFunc(d, fn)}
}

// WallClock returns the wall-clock scheduler backed by time.AfterFunc.
func WallClock() Scheduler {
	return wallScheduler{}
}
