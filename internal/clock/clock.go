// Package clock provides the session-relative monotonic millisecond
// timestamps used throughout the recorder and replayer (spec §4.2).
package clock

import "time"

// Clock exposes NowMS, a monotonic millisecond offset from the moment the
// Clock was created. It never reads the wall clock again after that — T0 is
// captured once, at session start, and every subsequent reading is a delta
// against Go's monotonic clock reading embedded in time.Time.
type Clock struct {
	t0 time.Time
}

// New captures T0 and returns a ready Clock.
func New() *Clock {
	return &Clock{t0: time.Now()}
}

// NowMS returns milliseconds elapsed since T0.
func (c *Clock) NowMS() uint64 {
	return uint64(time.Since(c.t0) / time.Millisecond)
}

// T0 returns the absolute wall-clock time captured at construction, purely
// informational per spec §3 (Session.T0).
func (c *Clock) T0() time.Time {
	return c.t0
}

// Sleep blocks until d has elapsed according to the monotonic clock. It
// exists so the replayer (C10) never needs to touch time.Now directly.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
