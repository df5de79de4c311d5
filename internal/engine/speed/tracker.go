package speed

import (
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// Tracker turns cumulative byte counts of one transfer into an
// average-since-start speed, emitting at most once per interval. Between
// emits, and after the stream ends, the last emitted speed is held; the pool
// zeroes the item's speed when the transfer terminates.
// A Tracker belongs to a single transfer and is not safe for concurrent use.
type Tracker struct {
	start    time.Time
	interval time.Duration
	lastEmit time.Time
	last     float64
}

// NewTracker starts measuring at start.
func NewTracker(start time.Time, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = types.DefaultSpeedSampleInterval
	}
	return &Tracker{start: start, interval: interval}
}

// Sample records the cumulative byte count at now. It returns the speed in MB/s
// and true when an event is due.
func (t *Tracker) Sample(now time.Time, cumulativeBytes int64) (float64, bool) {
	if !t.lastEmit.IsZero() && now.Sub(t.lastEmit) <= t.interval {
		return t.last, false
	}
	elapsed := now.Sub(t.start).Seconds()
	if elapsed <= 0 {
		return t.last, false
	}
	t.last = float64(cumulativeBytes) / elapsed / types.BytesPerMB
	t.lastEmit = now
	return t.last, true
}
