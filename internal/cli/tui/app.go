package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/taskset"
)

// Run starts the results browser
func Run(v taskset.Vector, policies []analysis.Policy, results map[analysis.Policy]*analysis.Results) error {
	model := NewModel(v, policies, results)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
