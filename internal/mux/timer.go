package mux

import "time"

// timerHandle wraps time.AfterFunc so operationRecord doesn't need to know
// whether a deadline was even requested.
type timerHandle struct {
	t *time.Timer
}

func newTimerHandle(deadline time.Time, fn func()) *timerHandle {
	if deadline.IsZero() {
		return nil
	}
	d := time.Until(deadline)
	if d < 0 {
		d = 0
	}
	return &timerHandle{t: time.AfterFunc(d, fn)}
}

func (h *timerHandle) stop() {
	if h != nil {
		h.t.Stop()
	}
}
