package patchbay

import "time"

// DefaultFrameInterval is the redraw interval of a TimerFrames scheduler.
const DefaultFrameInterval = time.Second / 60

// TimerFrames is a FrameScheduler backed by time.AfterFunc.
type TimerFrames struct {
	Interval time.Duration
}

// RequestFrame runs fn after one frame interval on a timer goroutine.
func (f TimerFrames) RequestFrame(fn func()) {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	time.AfterFunc(interval, fn)
}
