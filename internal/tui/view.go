package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostfetch/hostfetch/internal/tui/colors"
	"github.com/hostfetch/hostfetch/internal/tui/components"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colors.NeonPink).Bold(true)
	speedStyle = lipgloss.NewStyle().Foreground(colors.NeonCyan).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(colors.LightGray)
	nameStyle  = lipgloss.NewStyle().Foreground(colors.White)
)

func (m RootModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	listHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 3)
	list := components.RenderBox(titleStyle.Render(" Downloads "), "", m.renderRows(listHeight-2),
		m.width, listHeight, components.AccentBorder)

	return lipgloss.JoinVertical(lipgloss.Left, header, list, footer)
}

func (m RootModel) renderHeader() string {
	active, queued, done, failed := m.CalculateStats()
	stats := dimStyle.Render(fmt.Sprintf("active %d  queued %d  done %d  failed %d   limit %d   → %s",
		active, queued, done, failed, m.concurrency, m.destDir))
	graph := renderSpeedGraph(m.speedHistory, max(m.width-2-2*DefaultPaddingX, 1), GraphHeight)
	content := lipgloss.NewStyle().Padding(0, DefaultPaddingX).Render(lipgloss.JoinVertical(lipgloss.Left, graph, stats))

	right := speedStyle.Render(fmt.Sprintf(" %.2f MB/s ", m.totalSpeed)) +
		dimStyle.Render(fmt.Sprintf("peak %.2f ", m.peakSpeed))
	return components.RenderBox(titleStyle.Render(" hostfetch "), right, content, m.width, HeaderHeight, components.DefaultBorderColor)
}

// renderRows renders as many rows as fit, keeping the first active or
// waiting item in view.
func (m RootModel) renderRows(height int) string {
	if len(m.downloads) == 0 {
		return dimStyle.Render(" no downloads queued")
	}

	visible := max(height/RowHeight, 1)
	start := 0
	for i, d := range m.downloads {
		if !d.State.IsTerminal() {
			start = i
			break
		}
	}
	if start+visible > len(m.downloads) {
		start = max(len(m.downloads)-visible, 0)
	}
	end := min(start+visible, len(m.downloads))

	rows := make([]string, 0, end-start)
	for _, d := range m.downloads[start:end] {
		rows = append(rows, m.renderRow(d))
	}
	return strings.Join(rows, "\n")
}

func (m RootModel) renderRow(d *DownloadModel) string {
	name := d.Filename
	if name == "" {
		name = d.URL
	}
	status := components.Render(d.State, d.Percent, d.Filename, d.ErrorMessage)
	line1 := " " + nameStyle.Render(fmt.Sprintf("%-*s", NameColumnWidth, components.TruncateName(name, NameColumnWidth))) + " " + status

	speed := ""
	if d.State.IsActive() {
		speed = speedStyle.Render(fmt.Sprintf(" %.2f MB/s", d.Speed))
	}
	line2 := " " + d.progress.View() + speed
	return line1 + "\n" + line2
}

func (m RootModel) renderFooter() string {
	total := speedStyle.Render(fmt.Sprintf("Total: %.2f MB/s", m.totalSpeed))
	help := dimStyle.Render("q quit")

	var summary string
	if m.AllDone() {
		var ok, bad int
		for _, b := range m.finished {
			ok += b.Succeeded
			bad += b.Failed
		}
		summary = dimStyle.Render(fmt.Sprintf("  finished: %d succeeded, %d failed", ok, bad))
	}
	gap := max(m.width-lipgloss.Width(total)-lipgloss.Width(summary)-lipgloss.Width(help)-2, 1)
	return " " + total + summary + strings.Repeat(" ", gap) + help
}

func (m RootModel) progressWidth() int {
	w := m.width - ProgressBarWidthOffset - 16
	return min(max(w, MinProgressBarWidth), MaxProgressBarWidth)
}
