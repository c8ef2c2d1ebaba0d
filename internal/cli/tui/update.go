package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "left", "h":
		if m.policyIndex > 0 {
			m.policyIndex--
		}
		m.taskOffset = 0

	case "right", "l", "tab":
		if m.policyIndex < len(m.policies)-1 {
			m.policyIndex++
		}
		m.taskOffset = 0

	case "up", "k":
		if m.taskOffset > 0 {
			m.taskOffset--
		}

	case "down", "j":
		if m.taskOffset < len(m.vector)-m.visibleTasks() {
			m.taskOffset++
		}
	}

	return m, nil
}
