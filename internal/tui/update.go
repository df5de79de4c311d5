package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostfetch/hostfetch/internal/engine/events"
	"github.com/hostfetch/hostfetch/internal/utils"
)

// Update handles messages and updates the model
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, d := range m.downloads {
			d.progress.Width = m.progressWidth()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case progress.FrameMsg:
		for _, d := range m.downloads {
			next, cmd := d.progress.Update(msg)
			if pm, ok := next.(progress.Model); ok {
				d.progress = pm
			}
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		m.speedHistory = append(m.speedHistory, m.totalSpeed)
		if len(m.speedHistory) > SpeedHistoryLen {
			m.speedHistory = m.speedHistory[len(m.speedHistory)-SpeedHistoryLen:]
		}
		return m, tick()

	case channelClosedMsg:
		utils.Debug("TUI: event channel closed")
		return m, nil
	}

	if item, ok := msg.(events.ItemStateMsg); ok {
		m.noteItem(item.Item)
	}
	if !events.Dispatch(msg, &m) {
		return m, nil
	}

	if m.QuitWhenDone && m.AllDone() {
		return m, tea.Quit
	}

	cmds = append(cmds, m.pending...)
	m.pending = nil
	cmds = append(cmds, listenForActivity(m.progressChan))
	return m, tea.Batch(cmds...)
}
