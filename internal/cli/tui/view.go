package tui

import (
	"fmt"
	"strings"
)

// View renders the browser: a policy tab line, the verdict, and the
// scrollable per-task response-time table.
func (m Model) View() string {
	var b strings.Builder

	// Policy tabs
	tabs := make([]string, 0, len(m.policies))
	for i, p := range m.policies {
		name := p.String()
		if i == m.policyIndex {
			name = titleStyle.Render("[" + name + "]")
		} else {
			name = mutedStyle.Render(name)
		}
		tabs = append(tabs, name)
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	res := m.currentResults()
	if res.Schedulable {
		b.WriteString(okStyle.Render("schedulable") + "\n")
	} else {
		b.WriteString(missStyle.Render(fmt.Sprintf("unschedulable (task %d)", res.FailedTask)) + "\n")
	}

	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-4s %-10s %-10s %-10s %-6s %s", "#", "C", "W", "D", "segs", "")) + "\n")

	end := m.taskOffset + m.visibleTasks()
	if end > len(m.vector) {
		end = len(m.vector)
	}
	for i := m.taskOffset; i < end; i++ {
		mark := okStyle.Render("ok")
		if res.ResponseTimes[i] > m.vector[i].D() {
			mark = missStyle.Render("miss")
		}
		b.WriteString(fmt.Sprintf("%-4d %-10.2f %-10.2f %-10.2f %-6d %s\n",
			i, m.vector[i].C(), res.ResponseTimes[i], m.vector[i].D(), m.vector[i].NumSegments(), mark))
	}

	b.WriteString("\n" + helpStyle.Render("←/→ policy · ↑/↓ scroll · q quit"))
	return b.String()
}
