package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostfetch/hostfetch/internal/tui/colors"
)

// Border colors
var (
	DefaultBorderColor = colors.NeonPink
	AccentBorder       = colors.NeonCyan
)

// RenderBox draws a rounded box with titles set into the top border:
//
//	╭─ Downloads ──────────── 2.50 MB/s ─╮
//
// Content lines are padded or cut to the inner width; height includes borders.
func RenderBox(leftTitle, rightTitle, content string, width, height int, borderColor lipgloss.Color) string {
	border := lipgloss.NewStyle().Foreground(borderColor)
	inner := max(width-2, 1)

	fill := inner - lipgloss.Width(leftTitle) - lipgloss.Width(rightTitle)
	if leftTitle != "" {
		fill--
	}
	if rightTitle != "" {
		fill--
	}
	fill = max(fill, 0)

	var top strings.Builder
	top.WriteString(border.Render("╭"))
	if leftTitle != "" {
		top.WriteString(border.Render("─") + leftTitle)
	}
	top.WriteString(border.Render(strings.Repeat("─", fill)))
	if rightTitle != "" {
		top.WriteString(rightTitle + border.Render("─"))
	}
	top.WriteString(border.Render("╮"))

	lines := strings.Split(content, "\n")
	body := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		} else if w > inner {
			line = truncate(line, inner)
		}
		body = append(body, border.Render("│")+line+border.Render("│"))
	}

	bottom := border.Render("╰" + strings.Repeat("─", inner) + "╯")
	return lipgloss.JoinVertical(lipgloss.Left, top.String(), strings.Join(body, "\n"), bottom)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// TruncateName shortens a name to n cells with a trailing ellipsis.
func TruncateName(s string, n int) string {
	if n <= 1 || len([]rune(s)) <= n {
		return s
	}
	return truncate(s, n-1) + "…"
}
