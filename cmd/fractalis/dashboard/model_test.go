package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractalis/internal/store"
	"fractalis/internal/types"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(dir)
	require.NoError(t, err)
	return New(st, 50*time.Millisecond), dir
}

func writeJSON(t *testing.T, dir, name string, doc any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestNewClampsRefresh(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(dir)
	require.NoError(t, err)

	m := New(st, 0)
	assert.Equal(t, 2*time.Second, m.refresh)

	m = New(st, time.Second)
	assert.Equal(t, time.Second, m.refresh)
}

func TestPollReadsSharedDirectory(t *testing.T) {
	m, dir := newTestModel(t)

	params := types.DefaultFractalParameters()
	params.Zoom = 1500.0
	writeJSON(t, dir, store.FileFractalParams, types.FractalState{
		Timestamp:   time.Now().Format(time.RFC3339),
		FractalType: 1,
		Parameters:  params,
	})
	writeJSON(t, dir, store.FileEcosystemReport, types.EcosystemReport{
		SessionID:     "session-xyz",
		Timestamp:     time.Now(),
		UptimeSeconds: 120,
		TotalCommands: 9,
	})

	msg := m.poll()()
	state, ok := msg.(stateMsg)
	require.True(t, ok)

	require.NotNil(t, state.snap.fractal)
	assert.Equal(t, 1500.0, state.snap.fractal.Parameters.Zoom)
	assert.Nil(t, state.snap.status, "explorer never published")
	require.NotNil(t, state.snap.report)
	assert.Equal(t, "session-xyz", state.snap.report.SessionID)
	assert.Contains(t, state.snap.health.Components, types.ComponentMutator)
}

func TestUpdateQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, "key %s should quit", key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestUpdateTickRepolls(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "a tick should schedule the next poll")
}

func TestViewRendersSnapshot(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Contains(t, m.View(), "connecting", "pre-resize view shows the loading state")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	params := types.DefaultFractalParameters()
	params.Zoom = 42.5
	next, _ = m.Update(stateMsg{snap: snapshot{
		takenAt: time.Now(),
		health: store.ComponentHealthReport{
			Components: map[string]store.ComponentHealth{
				types.ComponentMutator:  {Status: store.HealthHealthy},
				types.ComponentExplorer: {Status: store.HealthMissing},
			},
		},
		fractal: &types.FractalState{FractalType: 0, Parameters: params},
	}})
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "FRACTALIS")
	assert.Contains(t, out, types.ComponentMutator)
	assert.Contains(t, out, "Mandelbrot")
	assert.Contains(t, out, "42.5000")
	assert.Contains(t, out, "no report persisted yet")
	assert.Contains(t, out, "q quit")
}
