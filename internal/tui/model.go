package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/tui/colors"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// DownloadModel is the view state of one item, folded from events.
type DownloadModel struct {
	ID           string
	URL          string
	Filename     string
	State        types.ItemState
	Percent      int
	Speed        float64 // MB/s
	ErrorMessage string

	progress progress.Model
}

func newDownloadModel(id, url string) *DownloadModel {
	return &DownloadModel{
		ID:       id,
		URL:      url,
		Filename: utils.FilenameFromURL(url),
		State:    types.StatePending,
		progress: progress.New(progress.WithGradient(colors.ProgressStart, colors.ProgressEnd)),
	}
}

// RootModel is the bubbletea model of the download dashboard. It is the only
// consumer of the pool's event channel.
type RootModel struct {
	downloads []*DownloadModel
	index     map[string]*DownloadModel

	progressChan <-chan any
	width        int
	height       int

	totalSpeed   float64
	peakSpeed    float64
	speedHistory []float64

	destDir     string
	concurrency int
	openBatches int
	finished    []events.BatchDoneMsg

	// QuitWhenDone ends the program once every queued batch is done.
	QuitWhenDone bool

	pending []tea.Cmd
}

// channelClosedMsg is delivered once the event channel is closed.
type channelClosedMsg struct{}

type tickMsg time.Time

// NewRootModel builds a dashboard that listens on progressChan.
func NewRootModel(progressChan <-chan any) RootModel {
	return RootModel{
		index:        make(map[string]*DownloadModel),
		progressChan: progressChan,
	}
}

func (m RootModel) Init() tea.Cmd {
	return tea.Batch(listenForActivity(m.progressChan), tick())
}

// listenForActivity reads the next event. With a nil channel the model
// expects events to arrive through Program.Send instead.
func listenForActivity(sub <-chan any) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-sub
		if !ok {
			return channelClosedMsg{}
		}
		return msg
	}
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// lookup returns the row for id, adding one when the item was never queued
// through a BatchQueuedMsg.
func (m *RootModel) lookup(id string) *DownloadModel {
	if d, ok := m.index[id]; ok {
		return d
	}
	d := newDownloadModel(id, "")
	d.Filename = ""
	m.add(d)
	return d
}

func (m *RootModel) add(d *DownloadModel) {
	m.index[d.ID] = d
	m.downloads = append(m.downloads, d)
	if m.width > 0 {
		d.progress.Width = m.progressWidth()
	}
}

// OnBatchQueued adds one row per item in submission order.
func (m *RootModel) OnBatchQueued(msg events.BatchQueuedMsg) {
	m.openBatches++
	m.destDir = msg.DestDir
	m.concurrency = msg.Concurrency
	for _, item := range msg.Items {
		if _, ok := m.index[item.ID]; ok {
			continue
		}
		m.add(newDownloadModel(item.ID, item.SourceURL))
	}
}

// OnBatchDone records the batch summary.
func (m *RootModel) OnBatchDone(msg events.BatchDoneMsg) {
	if m.openBatches > 0 {
		m.openBatches--
	}
	m.finished = append(m.finished, msg)
}

func (m *RootModel) OnItemStateChanged(itemID string, state types.ItemState, progressPercent int, errorMessage string) {
	d := m.lookup(itemID)
	d.State = state
	d.ErrorMessage = errorMessage
	if progressPercent > d.Percent {
		d.Percent = progressPercent
		m.pending = append(m.pending, d.progress.SetPercent(float64(progressPercent)/100))
	}
	if state.IsTerminal() {
		d.Speed = 0
	}
}

func (m *RootModel) OnItemSpeed(itemID string, speedMBps float64) {
	m.lookup(itemID).Speed = speedMBps
}

func (m *RootModel) OnAggregateSpeed(totalMBps float64) {
	m.totalSpeed = totalMBps
	m.peakSpeed = max(m.peakSpeed, totalMBps)
}

// noteItem picks up what only the full item carries.
func (m *RootModel) noteItem(item types.DownloadItem) {
	d := m.lookup(item.ID)
	if item.SourceURL != "" {
		d.URL = item.SourceURL
	}
	if item.DestPath != "" {
		d.Filename = filepath.Base(item.DestPath)
	} else if d.Filename == "" && item.SourceURL != "" {
		d.Filename = utils.FilenameFromURL(item.SourceURL)
	}
}

// CalculateStats counts rows by state.
func (m RootModel) CalculateStats() (active, queued, done, failed int) {
	for _, d := range m.downloads {
		switch {
		case d.State.IsActive():
			active++
		case d.State == types.StatePending:
			queued++
		case d.State == types.StateSucceeded:
			done++
		case d.State == types.StateFailed:
			failed++
		}
	}
	return
}

// AllDone reports whether at least one batch ran and none is still open.
func (m RootModel) AllDone() bool {
	return len(m.finished) > 0 && m.openBatches == 0
}
