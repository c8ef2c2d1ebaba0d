package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/task"
	"github.com/haskel/accelsched/internal/taskset"
)

func testModel(t *testing.T) Model {
	t.Helper()
	v := taskset.Vector{
		task.MustNew(10, 50, 50, []task.Segment{{Ge: 8, F: 1}}),
		task.MustNew(20, 80, 80, nil),
	}
	policies := []analysis.Policy{analysis.RequestDriven, analysis.JobDriven}
	results := make(map[analysis.Policy]*analysis.Results)
	for _, p := range policies {
		res, err := analysis.Analyze(v.Clone(), p)
		if err != nil {
			t.Fatal(err)
		}
		results[p] = res
	}
	m := NewModel(v, policies, results)
	m.width = 80
	m.height = 24
	return m
}

func TestModel_PolicySwitching(t *testing.T) {
	m := testModel(t)

	if m.currentPolicy() != analysis.RequestDriven {
		t.Fatalf("initial policy = %v", m.currentPolicy())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.currentPolicy() != analysis.JobDriven {
		t.Errorf("after right: policy = %v, want job-driven", m.currentPolicy())
	}

	// Right at the last tab stays put.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.currentPolicy() != analysis.JobDriven {
		t.Errorf("policy moved past the last tab: %v", m.currentPolicy())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	if m.currentPolicy() != analysis.RequestDriven {
		t.Errorf("after left: policy = %v, want request-driven", m.currentPolicy())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestView_ShowsVerdictAndTasks(t *testing.T) {
	m := testModel(t)

	out := m.View()
	if !strings.Contains(out, "schedulable") {
		t.Error("view missing verdict")
	}
	if !strings.Contains(out, "request-driven") {
		t.Error("view missing policy tabs")
	}
}
