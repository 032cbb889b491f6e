package coordinator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"fractalis/internal/logging"
	"fractalis/internal/store"
	"fractalis/internal/types"
)

// Console summary styles. Semantic, not themed: the daemon prints the
// summary block to whatever terminal it runs in.
var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	reportLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a8699"))
	reportValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f2f2f2"))
	reportWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	reportBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#2a3850")).
				Padding(0, 1)
)

// report builds the periodic ecosystem report, prints a styled summary to
// the console, and persists the report JSON through the store.
func (c *Coordinator) report() error {
	start := time.Now()

	active := 0
	for _, component := range c.components {
		if component.Status == types.StatusRunning {
			active++
		}
	}

	rep := &types.EcosystemReport{
		SessionID:        c.sessionID,
		Timestamp:        time.Now(),
		UptimeSeconds:    int64(time.Since(c.startTime).Seconds()),
		TotalCommands:    c.totalCommands,
		ActiveComponents: active,
		Components:       types.CloneRegistry(c.components),
	}

	fmt.Println(c.renderSummary(rep))
	c.logReport(rep)

	if err := c.store.SaveEcosystemReport(rep); err != nil {
		c.audit.ReportSaved(store.FileEcosystemReport, time.Since(start).Milliseconds(), false, err.Error())
		return err
	}

	c.audit.ReportSaved(store.FileEcosystemReport, time.Since(start).Milliseconds(), true, "")
	return nil
}

// renderSummary formats the report as a bordered console block.
func (c *Coordinator) renderSummary(rep *types.EcosystemReport) string {
	var b strings.Builder

	b.WriteString(reportTitleStyle.Render("ECOSYSTEM REPORT"))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(reportLabelStyle.Render(label+": ") + reportValueStyle.Render(value) + "\n")
	}

	row("Uptime", fmt.Sprintf("%d minutes", rep.UptimeSeconds/60))
	row("Commands sent", fmt.Sprintf("%d", rep.TotalCommands))
	row("Active components", fmt.Sprintf("%d", rep.ActiveComponents))
	if !c.lastMutation.IsZero() {
		row("Last mutation", fmt.Sprintf("%d seconds ago", int(time.Since(c.lastMutation).Seconds())))
	}

	health := c.store.CheckComponentHealth()
	for _, name := range sortedComponentNames(rep.Components) {
		component := rep.Components[name]
		b.WriteString(reportValueStyle.Render(fmt.Sprintf("  %s: %s", name, component.Status)))
		if h, ok := health.Components[name]; ok && h.Status != store.HealthHealthy {
			b.WriteString(" " + reportWarnStyle.Render(fmt.Sprintf("[%s]", h.Status)))
		}
		b.WriteString("\n")

		if component.Data == nil {
			continue
		}
		switch {
		case component.Data.Fractal != nil:
			b.WriteString(reportLabelStyle.Render(fmt.Sprintf("    zoom %.2f, type %d",
				component.Data.Fractal.Parameters.Zoom, component.Data.Fractal.FractalType)) + "\n")
		case component.Data.Analysis != nil:
			b.WriteString(reportLabelStyle.Render(fmt.Sprintf("    analysis score %.3f",
				component.Data.Analysis.Metrics[types.MetricInterestingScore])) + "\n")
		}
	}

	b.WriteString(reportTitleStyle.Render("STRATEGIES"))
	b.WriteString("\n")
	for _, strat := range c.strategies {
		status := "active"
		if !strat.Enabled() {
			status = "paused"
		}
		row("  "+strat.Name(), status)
	}

	return reportBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// logReport mirrors the console summary into the report log category.
func (c *Coordinator) logReport(rep *types.EcosystemReport) {
	log := logging.Get(logging.CategoryReport)
	log.Info("Uptime %d minutes, %d commands, %d active components",
		rep.UptimeSeconds/60, rep.TotalCommands, rep.ActiveComponents)

	for _, name := range sortedComponentNames(rep.Components) {
		component := rep.Components[name]
		log.Info("Component %s: %s (last seen %s)",
			name, component.Status, component.LastSeen.Format(time.RFC3339))
	}

	for _, strat := range c.strategies {
		log.Info("Strategy %s enabled=%v", strat.Name(), strat.Enabled())
	}
}

// maintain runs the housekeeping tied to the report tick: stale temp-file
// cleanup and critical-state backup, both config gated.
func (c *Coordinator) maintain() {
	if c.cfg.Maintenance.CleanupEnabled {
		maxAge := time.Duration(c.cfg.Maintenance.CleanupMaxAgeHours) * time.Hour
		removed, err := c.store.CleanupOldFiles(maxAge)
		switch {
		case err != nil:
			c.audit.Maintenance("cleanup", removed, false, err.Error())
			c.log.Warn("Cleanup failed: %v", err)
		case removed > 0:
			c.audit.Maintenance("cleanup", removed, true, "")
			c.log.Info("Cleanup removed %d stale files", removed)
		}
	}

	if c.cfg.Maintenance.BackupEnabled {
		copied, err := c.store.BackupCriticalState()
		switch {
		case err != nil:
			c.audit.Maintenance("backup", copied, false, err.Error())
			c.log.Warn("Backup failed: %v", err)
		case copied > 0:
			c.audit.Maintenance("backup", copied, true, "")
			c.log.Debug("Backed up %d state files", copied)
		}
	}
}

func sortedComponentNames(components map[string]types.ComponentInfo) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
