package colors

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	NeonPurple = lipgloss.Color("#bd93f9")
	NeonPink   = lipgloss.Color("#ff79c6")
	NeonCyan   = lipgloss.Color("#8be9fd")
	DarkGray   = lipgloss.Color("#282a36")
	Gray       = lipgloss.Color("#44475a")
	LightGray  = lipgloss.Color("#a9b1d6")
	White      = lipgloss.Color("#f8f8f2")
)

// Item state colors
var (
	StatePending     = lipgloss.Color("#a9b1d6")
	StateResolving   = lipgloss.Color("#ffb86c")
	StateDownloading = lipgloss.Color("#50fa7b")
	StateDone        = lipgloss.Color("#bd93f9")
	StateError       = lipgloss.Color("#ff5555")
)

// Progress bar gradient
const (
	ProgressStart = "#ff79c6"
	ProgressEnd   = "#bd93f9"
)
