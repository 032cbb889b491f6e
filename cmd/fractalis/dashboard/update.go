package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg fires the next poll.
type tickMsg time.Time

// stateMsg delivers a completed poll.
type stateMsg struct {
	snap snapshot
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// poll reads the shared directory off the update loop. Read errors leave
// the affected section empty rather than surfacing; the next tick retries.
func (m Model) poll() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		snap := snapshot{
			takenAt: time.Now(),
			health:  st.CheckComponentHealth(),
		}
		if fractal, err := st.ReadFractalState(); err == nil {
			snap.fractal = fractal
		}
		if status, err := st.ReadExplorerStatus(); err == nil {
			snap.status = status
		}
		if analysis, err := st.ReadFractalAnalysis(); err == nil {
			snap.analysis = analysis
		}
		if report, err := st.ReadEcosystemReport(); err == nil {
			snap.report = report
		}
		return stateMsg{snap: snap}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3 // header and footer rows
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.ready = true
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case stateMsg:
		m.state = msg.snap
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
