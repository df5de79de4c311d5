package types

import "github.com/google/uuid"

// ItemState is the lifecycle position of a DownloadItem.
type ItemState int

const (
	StatePending ItemState = iota
	StateResolving
	StateDownloading
	StateSucceeded
	StateFailed
)

func (s ItemState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolving:
		return "resolving"
	case StateDownloading:
		return "downloading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions can happen.
func (s ItemState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// IsActive reports whether the item occupies a worker slot.
func (s ItemState) IsActive() bool {
	return s == StateResolving || s == StateDownloading
}

// DownloadItem is one requested download. While a transfer runs the item is
// owned by exactly one worker; everyone else sees copies carried by events.
type DownloadItem struct {
	ID              string
	SourceURL       string
	DirectURL       string
	State           ItemState
	ProgressPercent int
	CurrentSpeed    float64 // MB/s
	Downloaded      int64
	TotalSize       int64 // -1 when the server did not send a length
	DestPath        string
	ErrorMessage    string
}

// NewDownloadItem registers a source URL in the Pending state.
func NewDownloadItem(sourceURL string) DownloadItem {
	return DownloadItem{
		ID:        uuid.New().String(),
		SourceURL: sourceURL,
		State:     StatePending,
		TotalSize: -1,
	}
}

// NewDownloadItems registers every URL in order.
func NewDownloadItems(sourceURLs []string) []DownloadItem {
	items := make([]DownloadItem, 0, len(sourceURLs))
	for _, u := range sourceURLs {
		items = append(items, NewDownloadItem(u))
	}
	return items
}

// Transition moves the item to next. Terminal states are sticky and a
// backwards move is refused; the return value reports whether the state changed.
func (it *DownloadItem) Transition(next ItemState) bool {
	if it.State.IsTerminal() || next < it.State {
		return false
	}
	if next == it.State {
		return false
	}
	it.State = next
	if next != StateDownloading {
		it.CurrentSpeed = 0
	}
	return true
}

// Fail moves the item to Failed and records the message.
func (it *DownloadItem) Fail(err error) bool {
	if !it.Transition(StateFailed) {
		return false
	}
	if err != nil {
		it.ErrorMessage = err.Error()
	}
	return true
}

// SetProgress records a byte count and recomputes the truncated percentage.
// Percent never decreases and stays 0 while the total is unknown.
func (it *DownloadItem) SetProgress(downloaded int64) {
	it.Downloaded = downloaded
	if it.TotalSize <= 0 {
		return
	}
	pct := int(downloaded * 100 / it.TotalSize)
	if pct > 100 {
		pct = 100
	}
	if pct > it.ProgressPercent {
		it.ProgressPercent = pct
	}
}

// DownloadStatus is a point-in-time view of an item, used by status queries.
type DownloadStatus struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	Filename   string  `json:"filename"`
	TotalSize  int64   `json:"total_size"`
	Downloaded int64   `json:"downloaded"`
	Progress   int     `json:"progress"`
	Speed      float64 `json:"speed"` // MB/s
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
}
