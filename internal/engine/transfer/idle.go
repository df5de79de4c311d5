package transfer

import (
	"context"
	"sync/atomic"
	"time"
)

// idleWatch cancels a request context when no progress is reported for the
// configured window.
type idleWatch struct {
	timer   *time.Timer
	window  time.Duration
	stalled atomic.Bool
}

func newIdleWatch(window time.Duration, cancel context.CancelFunc) *idleWatch {
	w := &idleWatch{window: window}
	w.timer = time.AfterFunc(window, func() {
		w.stalled.Store(true)
		cancel()
	})
	return w
}

// Touch records activity and restarts the window.
func (w *idleWatch) Touch() {
	w.timer.Reset(w.window)
}

func (w *idleWatch) Stop() {
	w.timer.Stop()
}

// Stalled reports whether the window expired.
func (w *idleWatch) Stalled() bool {
	return w.stalled.Load()
}
