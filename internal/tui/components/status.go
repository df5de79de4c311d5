package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostfetch/hostfetch/internal/engine/types"
	"github.com/hostfetch/hostfetch/internal/tui/colors"
)

// statusInfo holds the display properties for each item state
type statusInfo struct {
	icon  string
	label string
	color lipgloss.Color
}

var statusMap = map[types.ItemState]statusInfo{
	types.StatePending:     {"⋯", "waiting", colors.StatePending},
	types.StateResolving:   {"⟳", "resolving", colors.StateResolving},
	types.StateDownloading: {"⬇", "downloading", colors.StateDownloading},
	types.StateSucceeded:   {"✔", "done", colors.StateDone},
	types.StateFailed:      {"✖", "error", colors.StateError},
}

// Icon returns the state icon
func Icon(s types.ItemState) string {
	if info, ok := statusMap[s]; ok {
		return info.icon
	}
	return "?"
}

// Color returns the state color
func Color(s types.ItemState) lipgloss.Color {
	if info, ok := statusMap[s]; ok {
		return info.color
	}
	return colors.Gray
}

// StatusText is the plain status line of one item: "waiting", "resolving",
// "downloading 42%", "done: <file>" or "error: <message>".
func StatusText(s types.ItemState, percent int, filename, errMsg string) string {
	info, ok := statusMap[s]
	if !ok {
		return "unknown"
	}
	switch s {
	case types.StateDownloading:
		return fmt.Sprintf("%s %d%%", info.label, percent)
	case types.StateSucceeded:
		return info.label + ": " + filename
	case types.StateFailed:
		return info.label + ": " + errMsg
	}
	return info.label
}

// Render returns the styled icon and status text.
func Render(s types.ItemState, percent int, filename, errMsg string) string {
	return lipgloss.NewStyle().Foreground(Color(s)).Render(Icon(s) + " " + StatusText(s, percent, filename, errMsg))
}
