package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fractalis/cmd/fractalis/dashboard"
	"fractalis/internal/store"
)

var dashboardRefresh time.Duration

// dashboardCmd opens the live TUI view over the shared directory.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live terminal view of the ecosystem",
	Long: `Opens a terminal dashboard that watches the shared directory:
component state and freshness, the current fractal parameters, the
explorer's latest analysis, and the last persisted report.

The dashboard is read-only; it never writes commands.`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardRefresh, "refresh", 2*time.Second, "Refresh interval")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	st, err := store.New(cfg.Coordinator.SharedDir)
	if err != nil {
		return fmt.Errorf("failed to open shared directory: %w", err)
	}

	p := tea.NewProgram(
		dashboard.New(st, dashboardRefresh),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard terminated: %w", err)
	}
	return nil
}
