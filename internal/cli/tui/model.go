package tui

import (
	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/taskset"
)

// Model represents the results-browser state: one task vector and the
// results of every policy that ran on it.
type Model struct {
	vector   taskset.Vector
	policies []analysis.Policy
	results  map[analysis.Policy]*analysis.Results

	// UI state
	width       int
	height      int
	policyIndex int
	taskOffset  int
}

// NewModel builds the browser over precomputed results.
func NewModel(v taskset.Vector, policies []analysis.Policy, results map[analysis.Policy]*analysis.Results) Model {
	return Model{
		vector:   v,
		policies: policies,
		results:  results,
	}
}

func (m Model) currentPolicy() analysis.Policy {
	return m.policies[m.policyIndex]
}

func (m Model) currentResults() *analysis.Results {
	return m.results[m.currentPolicy()]
}

// visibleTasks is how many task rows fit under the header and help lines.
func (m Model) visibleTasks() int {
	reserved := 6
	if m.height <= reserved {
		return 1
	}
	return m.height - reserved
}
