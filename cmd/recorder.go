package cmd

import (
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/state"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// historyRecorder writes every finished item to the history database. It
// sees the event stream before the sink does and is only called from the
// consuming goroutine.
type historyRecorder struct {
	started map[string]time.Time
	record  func(sessionID string, item types.DownloadItem, elapsed time.Duration) error
}

func newHistoryRecorder() *historyRecorder {
	return &historyRecorder{
		started: make(map[string]time.Time),
		record:  state.RecordResult,
	}
}

func (r *historyRecorder) Observe(msg any) {
	m, ok := msg.(events.ItemStateMsg)
	if !ok {
		return
	}
	item := m.Item
	switch {
	case item.State == types.StateResolving:
		r.started[item.ID] = time.Now()
	case item.State.IsTerminal():
		var elapsed time.Duration
		if t, ok := r.started[item.ID]; ok {
			elapsed = time.Since(t)
			delete(r.started, item.ID)
		}
		if err := r.record(m.SessionID, item, elapsed); err != nil {
			utils.Debug("History: failed to record %s: %v", item.ID, err)
		}
	}
}
