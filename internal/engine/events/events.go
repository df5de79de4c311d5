package events

import (
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

// ItemStateMsg reports a state or progress change of one item. Item is a copy;
// receivers may keep it.
type ItemStateMsg struct {
	SessionID string
	Item      types.DownloadItem
}

// ItemSpeedMsg carries the latest average speed of one item in MB/s.
type ItemSpeedMsg struct {
	ItemID    string
	SpeedMBps float64
}

// AggregateSpeedMsg carries the total speed over all downloading items in MB/s.
type AggregateSpeedMsg struct {
	TotalMBps float64
}

// BatchQueuedMsg is sent once per submitted session, before any item starts.
type BatchQueuedMsg struct {
	SessionID   string
	Items       []types.DownloadItem
	Concurrency int
	DestDir     string
}

// BatchDoneMsg signals that every item of a session reached a terminal state.
type BatchDoneMsg struct {
	SessionID string
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}
