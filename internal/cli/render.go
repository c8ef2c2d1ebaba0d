package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/accelsched/internal/analysis"
	"github.com/haskel/accelsched/internal/taskset"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// renderTaskset formats the vector as a table in priority order.
func renderTaskset(v taskset.Vector) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Task set") + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-4s %-8s %-8s %-8s %-5s %-6s", "#", "C", "D", "T", "segs", "core")) + "\n")
	for i := range v {
		core := "-"
		if v[i].Core() >= 0 {
			core = fmt.Sprintf("%d", v[i].Core())
		}
		b.WriteString(fmt.Sprintf("  %-4d %-8.2f %-8.2f %-8.2f %-5d %-6s\n",
			i, v[i].C(), v[i].D(), v[i].T(), v[i].NumSegments(), core))
		for j, s := range v[i].Segments() {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("       seg %d: Gm=%.2f Ge=%.2f F=%.1f", j, s.Gm, s.Ge, s.F)) + "\n")
		}
	}
	return b.String()
}

// renderResults formats one policy's verdict and response-time table.
func renderResults(v taskset.Vector, p analysis.Policy, res *analysis.Results) string {
	var b strings.Builder

	verdict := okStyle.Render("schedulable")
	if !res.Schedulable {
		verdict = failStyle.Render(fmt.Sprintf("unschedulable (task %d)", res.FailedTask))
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", headerStyle.Render(p.String()), verdict))

	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-4s %-10s %-10s %s", "#", "W", "D", "")) + "\n")
	for i := range v {
		mark := okStyle.Render("ok")
		if res.ResponseTimes[i] > v[i].D() {
			mark = failStyle.Render("miss")
		}
		b.WriteString(fmt.Sprintf("  %-4d %-10.2f %-10.2f %s\n", i, res.ResponseTimes[i], v[i].D(), mark))
	}
	return b.String()
}
