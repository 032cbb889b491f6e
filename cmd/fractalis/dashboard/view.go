package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"fractalis/internal/store"
	"fractalis/internal/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a8699"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a8699"))
)

var fractalTypeNames = map[int]string{
	0: "Mandelbrot",
	1: "Julia",
	2: "Burning Ship",
}

func fractalTypeName(t int) string {
	if name, ok := fractalTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type %d", t)
}

func (m Model) View() string {
	if !m.ready {
		return "\n  " + m.spinner.View() + " connecting to the shared directory..."
	}

	header := titleStyle.Render("FRACTALIS") + "  " + m.spinner.View() +
		labelStyle.Render(fmt.Sprintf(" polled %s", m.state.takenAt.Format("15:04:05")))
	footer := helpStyle.Render("q quit · r refresh · j/k scroll")

	return header + "\n" + m.viewport.View() + "\n" + footer
}

// renderBody rebuilds the scrollable content from the latest snapshot.
func (m Model) renderBody() string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label+": ") + valueStyle.Render(value) + "\n")
	}

	b.WriteString(sectionStyle.Render("COMPONENTS") + "\n")
	for _, name := range []string{types.ComponentMutator, types.ComponentExplorer} {
		h, ok := m.state.health.Components[name]
		if !ok {
			h.Status = store.HealthMissing
		}
		line := "  " + valueStyle.Render(name) + " " + healthBadge(h.Status)
		if h.Status != store.HealthMissing {
			line += labelStyle.Render(fmt.Sprintf(" (updated %ds ago)", h.AgeSeconds))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("FRACTAL") + "\n")
	if f := m.state.fractal; f != nil {
		p := f.Parameters
		row("Type", fractalTypeName(f.FractalType))
		row("Zoom", fmt.Sprintf("%.4f", p.Zoom))
		row("Center", fmt.Sprintf("%.6f, %.6f", p.CenterX, p.CenterY))
		row("Iterations", fmt.Sprintf("%d", p.MaxIterations))
		row("Mutation", fmt.Sprintf("strength %.3f, auto %v", p.MutationStrength, p.AutoMutate))
		row("Color scheme", fmt.Sprintf("%d (speed %.2f)", p.ColorScheme, p.ColorSpeed))
	} else {
		b.WriteString("  " + labelStyle.Render("no state published") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("EXPLORER") + "\n")
	if s := m.state.status; s != nil {
		row("Scans", fmt.Sprintf("%.0f", s.Metrics["total_scans"]))
		row("Regions found", fmt.Sprintf("%.0f", s.Metrics["regions_discovered"]))
		row("Avg interest", fmt.Sprintf("%.3f", s.Metrics["average_interest_score"]))
	}
	if a := m.state.analysis; a != nil {
		row("Last scan", fmt.Sprintf("interest %.3f at zoom %.2f",
			a.Metrics[types.MetricInterestingScore], a.Region.Zoom))
		if a.Recommendation != "" {
			row("Advice", a.Recommendation)
		}
	}
	if m.state.status == nil && m.state.analysis == nil {
		b.WriteString("  " + labelStyle.Render("no analysis published") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("LAST REPORT") + "\n")
	if rep := m.state.report; rep != nil {
		row("Session", rep.SessionID)
		row("Saved", rep.Timestamp.Format("15:04:05"))
		row("Uptime", (time.Duration(rep.UptimeSeconds) * time.Second).String())
		row("Commands", fmt.Sprintf("%d", rep.TotalCommands))
		row("Active", fmt.Sprintf("%d of %d components", rep.ActiveComponents, len(rep.Components)))
	} else {
		b.WriteString("  " + labelStyle.Render("no report persisted yet") + "\n")
	}

	return b.String()
}

func healthBadge(status store.HealthStatus) string {
	switch status {
	case store.HealthHealthy:
		return goodStyle.Render(string(status))
	case store.HealthStale:
		return warnStyle.Render(string(status))
	case store.HealthMissing:
		return labelStyle.Render(string(status))
	default:
		return badStyle.Render(string(status))
	}
}
