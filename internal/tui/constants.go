package tui

import (
	"time"

	"github.com/hostfetch/hostfetch/internal/engine/types"
)

const (
	TickInterval = 500 * time.Millisecond

	// Layout
	HeaderHeight           = 7
	RowHeight              = 2
	DefaultPaddingX        = 1
	ProgressBarWidthOffset = 4
	MinProgressBarWidth    = 10
	MaxProgressBarWidth    = 60
	NameColumnWidth        = 32
	GraphHeight            = 4

	// Aggregate speed samples kept for the header graph
	SpeedHistoryLen = 60

	ProgressChannelBuffer = types.ProgressChannelBuffer
)
