package events

import "github.com/hostfetch/hostfetch/internal/engine/types"

// Sink is the observer side of the event stream.
type Sink interface {
	OnItemStateChanged(itemID string, state types.ItemState, progressPercent int, errorMessage string)
	OnItemSpeed(itemID string, speedMBps float64)
	OnAggregateSpeed(totalMBps float64)
}

// BatchSink is implemented by sinks that also care about batch boundaries.
type BatchSink interface {
	Sink
	OnBatchQueued(msg BatchQueuedMsg)
	OnBatchDone(msg BatchDoneMsg)
}

// Dispatch folds one channel message into sink calls. It reports false for
// messages it does not know.
func Dispatch(msg any, sink Sink) bool {
	switch m := msg.(type) {
	case ItemStateMsg:
		sink.OnItemStateChanged(m.Item.ID, m.Item.State, m.Item.ProgressPercent, m.Item.ErrorMessage)
	case ItemSpeedMsg:
		sink.OnItemSpeed(m.ItemID, m.SpeedMBps)
	case AggregateSpeedMsg:
		sink.OnAggregateSpeed(m.TotalMBps)
	case BatchQueuedMsg:
		if bs, ok := sink.(BatchSink); ok {
			bs.OnBatchQueued(m)
		}
	case BatchDoneMsg:
		if bs, ok := sink.(BatchSink); ok {
			bs.OnBatchDone(m)
		}
	default:
		return false
	}
	return true
}

// Drain dispatches every message from ch until it is closed.
func Drain(ch <-chan any, sink Sink) {
	for msg := range ch {
		Dispatch(msg, sink)
	}
}
