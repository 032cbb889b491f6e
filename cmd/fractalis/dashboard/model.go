// Package dashboard implements the read-only terminal view over the shared
// directory: component freshness, current fractal parameters, the explorer's
// latest analysis, and the last persisted report. The model polls the store
// on a timer and never writes a command.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"fractalis/internal/store"
	"fractalis/internal/types"
)

// snapshot is one polled view of the shared directory. Absent files leave
// their field nil; the view renders what it has.
type snapshot struct {
	takenAt  time.Time
	health   store.ComponentHealthReport
	fractal  *types.FractalState
	status   *types.AnalysisData
	analysis *types.AnalysisData
	report   *types.EcosystemReport
}

// Model is the dashboard's bubbletea model.
type Model struct {
	store   *store.Store
	refresh time.Duration

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	state snapshot
}

// New builds a dashboard over an initialized store.
func New(st *store.Store, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 2 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return Model{
		store:    st,
		refresh:  refresh,
		spinner:  sp,
		viewport: vp,
	}
}

// Init starts the spinner, the first poll, and the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(), m.tick())
}
