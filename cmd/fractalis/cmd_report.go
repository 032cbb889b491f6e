package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"fractalis/internal/store"
	"fractalis/internal/types"
)

// reportCmd renders the last persisted ecosystem report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the last persisted ecosystem report",
	Long: `Reads the ecosystem report the coordinator persisted on its last
report tick and renders it as markdown in the terminal.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	st, err := store.New(cfg.Coordinator.SharedDir)
	if err != nil {
		return fmt.Errorf("failed to open shared directory: %w", err)
	}

	rep, err := st.ReadEcosystemReport()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no ecosystem report in %s yet (is the coordinator running?)", cfg.Coordinator.SharedDir)
		}
		return err
	}

	md := reportMarkdown(rep, st.CheckComponentHealth())

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

// reportMarkdown formats the persisted report, annotated with the current
// state-file freshness, as a markdown document.
func reportMarkdown(rep *types.EcosystemReport, health store.ComponentHealthReport) string {
	var b strings.Builder

	b.WriteString("# Fractalis Ecosystem Report\n\n")
	fmt.Fprintf(&b, "Session `%s`, generated %s\n\n",
		rep.SessionID, rep.Timestamp.Format("2006-01-02 15:04:05 MST"))

	uptime := time.Duration(rep.UptimeSeconds) * time.Second
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Uptime | %s |\n", uptime)
	fmt.Fprintf(&b, "| Commands sent | %d |\n", rep.TotalCommands)
	fmt.Fprintf(&b, "| Active components | %d of %d |\n\n", rep.ActiveComponents, len(rep.Components))

	b.WriteString("## Components\n\n")
	if len(rep.Components) == 0 {
		b.WriteString("No components were seen this session.\n")
	}

	names := make([]string, 0, len(rep.Components))
	for name := range rep.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		component := rep.Components[name]
		fmt.Fprintf(&b, "### %s\n\n", name)
		fmt.Fprintf(&b, "- Status: **%s**\n", component.Status)
		fmt.Fprintf(&b, "- Last seen: %s\n", component.LastSeen.Format("15:04:05"))
		if h, ok := health.Components[name]; ok {
			fmt.Fprintf(&b, "- State file: %s (%s)\n", h.Status, h.Message)
		}

		if component.Data != nil {
			switch {
			case component.Data.Fractal != nil:
				p := component.Data.Fractal.Parameters
				fmt.Fprintf(&b, "- Fractal type %d at zoom %.2f, %d iterations\n",
					component.Data.Fractal.FractalType, p.Zoom, p.MaxIterations)
				fmt.Fprintf(&b, "- Mutation strength %.3f (auto: %v)\n", p.MutationStrength, p.AutoMutate)
			case component.Data.Analysis != nil:
				a := component.Data.Analysis
				fmt.Fprintf(&b, "- Interest score %.3f\n", a.Metrics[types.MetricInterestingScore])
				if a.Recommendation != "" {
					fmt.Fprintf(&b, "- Recommendation: %s\n", a.Recommendation)
				}
			}
		}

		if uptimeSec, ok := component.Metrics["uptime_seconds"]; ok {
			fmt.Fprintf(&b, "- Tracked for %s\n", time.Duration(uptimeSec)*time.Second)
		}
		b.WriteString("\n")
	}

	return b.String()
}
