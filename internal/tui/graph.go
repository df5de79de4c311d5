package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var graphGradient = []lipgloss.Color{
	lipgloss.Color("#5f005f"),
	lipgloss.Color("#8700af"),
	lipgloss.Color("#af00d7"),
	lipgloss.Color("#ff00ff"),
}

var blocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// renderSpeedGraph draws the aggregate speed history as a bar graph of the
// given size. The newest sample is on the right; the scale is the largest
// sample shown.
func renderSpeedGraph(data []float64, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var peak float64
	for _, v := range data {
		peak = max(peak, v)
	}

	rows := make([][]string, height)
	for y := range rows {
		rows[y] = make([]string, width)
		for x := range rows[y] {
			rows[y][x] = " "
		}
	}

	offset := width - len(data)
	for i, v := range data {
		if peak <= 0 || v <= 0 {
			continue
		}
		eighths := int(v / peak * float64(height*8))
		for level := 0; level < height && eighths > 0; level++ {
			n := min(eighths, 8)
			eighths -= n
			style := lipgloss.NewStyle().Foreground(graphGradient[level*len(graphGradient)/height])
			rows[height-1-level][offset+i] = style.Render(blocks[n])
		}
	}

	lines := make([]string, height)
	for y, row := range rows {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
