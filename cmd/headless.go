package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/tui/colors"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(colors.StateDownloading)
	failStyle = lipgloss.NewStyle().Foreground(colors.StateError)
)

// headlessSink prints one line per state change and a periodic speed line.
type headlessSink struct {
	out io.Writer

	mu      sync.Mutex
	names   map[string]string
	percent map[string]int
	total   float64
}

func newHeadlessSink(out io.Writer) *headlessSink {
	return &headlessSink{
		out:     out,
		names:   make(map[string]string),
		percent: make(map[string]int),
	}
}

func (h *headlessSink) OnBatchQueued(msg events.BatchQueuedMsg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, it := range msg.Items {
		h.names[it.ID] = it.SourceURL
	}
	fmt.Fprintf(h.out, "Queued %d downloads into %s (%d at a time)\n", len(msg.Items), msg.DestDir, msg.Concurrency)
}

func (h *headlessSink) OnBatchDone(msg events.BatchDoneMsg) {
	fmt.Fprintf(h.out, "Finished: %d succeeded, %d failed in %s\n", msg.Succeeded, msg.Failed, msg.Elapsed.Round(time.Millisecond))
}

func (h *headlessSink) OnItemStateChanged(itemID string, state types.ItemState, progressPercent int, errorMessage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	name := h.names[itemID]
	if name == "" {
		name = itemID
	}

	switch state {
	case types.StateResolving:
		fmt.Fprintf(h.out, "Resolving: %s\n", name)
	case types.StateDownloading:
		// Progress lines every 10%
		last, seen := h.percent[itemID]
		if !seen {
			fmt.Fprintf(h.out, "Downloading: %s\n", name)
			h.percent[itemID] = progressPercent
			return
		}
		if progressPercent/10 > last/10 {
			fmt.Fprintf(h.out, "  %s: %d%% (total %.2f MB/s)\n", name, progressPercent, h.total)
			h.percent[itemID] = progressPercent
		}
	case types.StateSucceeded:
		fmt.Fprintln(h.out, okStyle.Render("Completed: "+name))
	case types.StateFailed:
		fmt.Fprintln(h.out, failStyle.Render("Error: "+name+": "+errorMessage))
	}
}

func (h *headlessSink) OnItemSpeed(itemID string, speedMBps float64) {}

func (h *headlessSink) OnAggregateSpeed(totalMBps float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = totalMBps
}
