package strategy

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractalis/internal/types"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func stateWith(level types.ActivityLevel, components map[string]types.ComponentInfo) *types.EcosystemState {
	if components == nil {
		components = map[string]types.ComponentInfo{}
	}
	return &types.EcosystemState{
		Timestamp:     time.Now(),
		Components:    components,
		ActivityLevel: level,
	}
}

func mutatorComponent(fractalType int, params types.FractalParameters) types.ComponentInfo {
	return types.ComponentInfo{
		Name:   types.ComponentMutator,
		Kind:   types.KindMutator,
		Status: types.StatusRunning,
		Data: &types.ComponentData{
			Fractal: &types.FractalState{
				FractalType: fractalType,
				Parameters:  params,
			},
		},
	}
}

func explorerComponent(metrics map[string]float64) types.ComponentInfo {
	info := types.ComponentInfo{
		Name:   types.ComponentExplorer,
		Kind:   types.KindAnalyzer,
		Status: types.StatusRunning,
	}
	if metrics != nil {
		info.Data = &types.ComponentData{
			Analysis: &types.AnalysisData{
				Timestamp: time.Now().Format(time.RFC3339),
				Region:    types.DefaultAnalysisRegion(),
				Metrics:   metrics,
			},
		}
	}
	return info
}

func TestDefaultStrategies(t *testing.T) {
	roster := DefaultStrategies(testRNG())

	var names []string
	for _, s := range roster {
		names = append(names, s.Name())
		assert.True(t, s.Enabled(), "%s should start enabled", s.Name())
		assert.NotEmpty(t, s.Description())
	}
	assert.Equal(t, []string{
		"RandomPulse",
		"ColorCycler",
		"FractalRotation",
		"DynamicMutation",
		"IntelligentAnalysis",
	}, names)
}

func TestScheduleTiming(t *testing.T) {
	state := stateWith(types.ActivityModerate, nil)
	s := NewColorCycler()

	t.Run("fires on first consultation", func(t *testing.T) {
		assert.True(t, s.ShouldExecute(state))
	})

	t.Run("waits after execution", func(t *testing.T) {
		s.MarkExecuted()
		assert.False(t, s.ShouldExecute(state))
	})

	t.Run("fires once frequency elapses", func(t *testing.T) {
		s.lastExecution = time.Now().Add(-s.frequency)
		assert.True(t, s.ShouldExecute(state))
	})

	t.Run("disabled never fires", func(t *testing.T) {
		s.Apply(types.DisableStrategy())
		s.lastExecution = time.Time{}
		assert.False(t, s.ShouldExecute(state))

		s.Apply(types.EnableStrategy())
		assert.True(t, s.ShouldExecute(state))
	})

	t.Run("frequency modification applies", func(t *testing.T) {
		s.Apply(types.ChangeFrequency(5 * time.Second))
		assert.Equal(t, 5*time.Second, s.frequency)

		s.lastExecution = time.Now().Add(-6 * time.Second)
		assert.True(t, s.ShouldExecute(state))
	})
}

func TestRandomPulse(t *testing.T) {
	ctx := context.Background()

	t.Run("initial frequency within pulse window", func(t *testing.T) {
		rng := testRNG()
		for i := 0; i < 100; i++ {
			s := NewRandomPulse(rng)
			assert.GreaterOrEqual(t, s.frequency, 15*time.Second)
			assert.Less(t, s.frequency, 45*time.Second)
		}
	})

	t.Run("execute sends mutate and reschedules", func(t *testing.T) {
		s := NewRandomPulse(testRNG())
		for _, level := range []types.ActivityLevel{
			types.ActivityLow, types.ActivityModerate, types.ActivityHigh, types.ActivityCritical,
		} {
			action, err := s.Execute(ctx, stateWith(level, nil))
			require.NoError(t, err)
			assert.Equal(t, types.ActionSendCommand, action.Kind)
			assert.Equal(t, types.ComponentMutator, action.Target)
			assert.Equal(t, types.CmdMutate, action.Command.Kind)

			assert.GreaterOrEqual(t, s.frequency, 15*time.Second)
			assert.Less(t, s.frequency, 40*time.Second)
		}
	})

	t.Run("intensity clamped", func(t *testing.T) {
		s := NewRandomPulse(testRNG())
		assert.Equal(t, 1.0, s.intensity)

		s.Apply(types.AdjustParameters("intensity", 5.0))
		assert.Equal(t, 3.0, s.intensity)

		s.Apply(types.AdjustParameters("intensity", 0.01))
		assert.Equal(t, 0.1, s.intensity)

		s.Apply(types.AdjustParameters("intensity", 2.0))
		assert.Equal(t, 2.0, s.intensity)
	})

	t.Run("unknown parameter ignored", func(t *testing.T) {
		s := NewRandomPulse(testRNG())
		s.Apply(types.AdjustParameters("velocity", 2.5))
		assert.Equal(t, 1.0, s.intensity)
	})
}

func TestColorCycler(t *testing.T) {
	ctx := context.Background()
	state := stateWith(types.ActivityModerate, nil)
	s := NewColorCycler()

	assert.Equal(t, time.Minute, s.frequency)

	// The scheme advances before sending, wrapping after five.
	want := []int{1, 2, 3, 4, 5, 0, 1}
	for _, expected := range want {
		action, err := s.Execute(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, types.ActionSendCommand, action.Kind)
		assert.Equal(t, types.ComponentMutator, action.Target)
		assert.Equal(t, types.CmdChangeColorScheme, action.Command.Kind)
		assert.Equal(t, expected, action.Command.Value)
	}

	// Parameter adjustments are not recognized.
	s.Apply(types.AdjustParameters("scheme", 4))
	assert.Equal(t, 1, s.scheme)
}

func TestFractalRotation(t *testing.T) {
	ctx := context.Background()
	s := NewFractalRotation()

	assert.Equal(t, 3*time.Minute, s.frequency)

	t.Run("rotates from cached type without mutator", func(t *testing.T) {
		action, err := s.Execute(ctx, stateWith(types.ActivityModerate, nil))
		require.NoError(t, err)
		assert.Equal(t, types.CmdChangeFractalType, action.Command.Kind)
		assert.Equal(t, 1, action.Command.Value)

		// The cache never advances to the commanded value.
		action, err = s.Execute(ctx, stateWith(types.ActivityModerate, nil))
		require.NoError(t, err)
		assert.Equal(t, 1, action.Command.Value)
	})

	t.Run("refreshes cache from mutator state", func(t *testing.T) {
		state := stateWith(types.ActivityModerate, map[string]types.ComponentInfo{
			types.ComponentMutator: mutatorComponent(2, types.DefaultFractalParameters()),
		})
		action, err := s.Execute(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, 0, action.Command.Value)
		assert.Equal(t, 2, s.current)
	})

	t.Run("mutator without fractal data keeps cache", func(t *testing.T) {
		state := stateWith(types.ActivityModerate, map[string]types.ComponentInfo{
			types.ComponentMutator: {
				Name:   types.ComponentMutator,
				Kind:   types.KindMutator,
				Status: types.StatusRunning,
			},
		})
		action, err := s.Execute(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, 0, action.Command.Value)
		assert.Equal(t, 2, s.current)
	})
}

func TestDynamicMutation(t *testing.T) {
	ctx := context.Background()

	t.Run("adjusts when far from optimal", func(t *testing.T) {
		s := NewDynamicMutation(testRNG())
		assert.Equal(t, 90*time.Second, s.frequency)
		assert.Equal(t, 0.1, s.lastStrength)

		// Low activity targets 0.27 with a small jitter, far from 0.1.
		action, err := s.Execute(ctx, stateWith(types.ActivityLow, nil))
		require.NoError(t, err)
		require.Equal(t, types.ActionSendCommand, action.Kind)
		assert.Equal(t, types.CmdSetMutationStrength, action.Command.Kind)
		assert.GreaterOrEqual(t, action.Command.Amount, 0.24)
		assert.Less(t, action.Command.Amount, 0.30)
		assert.Equal(t, action.Command.Amount, s.lastStrength)
	})

	t.Run("waits inside the dead band", func(t *testing.T) {
		s := NewDynamicMutation(testRNG())

		// Critical activity clamps the target into [0.05, 0.06), so a cached
		// 0.055 is always within the dead band.
		s.lastStrength = 0.055
		action, err := s.Execute(ctx, stateWith(types.ActivityCritical, nil))
		require.NoError(t, err)
		assert.Equal(t, types.ActionWait, action.Kind)
		assert.Equal(t, 30*time.Second, action.Duration)
		assert.Equal(t, 0.055, s.lastStrength)
	})

	t.Run("clamps the low end under critical damping", func(t *testing.T) {
		s := NewDynamicMutation(testRNG())
		for i := 0; i < 100; i++ {
			optimal := s.optimalStrength(stateWith(types.ActivityCritical, nil))
			assert.GreaterOrEqual(t, optimal, 0.05)
			assert.Less(t, optimal, 0.06)
		}
	})

	t.Run("parameter adjustments not recognized", func(t *testing.T) {
		s := NewDynamicMutation(testRNG())
		s.Apply(types.AdjustParameters("strength", 0.4))
		assert.Equal(t, 0.1, s.lastStrength)
	})
}

func TestIntelligentAnalysis(t *testing.T) {
	ctx := context.Background()

	explorerState := func(metrics map[string]float64) *types.EcosystemState {
		return stateWith(types.ActivityModerate, map[string]types.ComponentInfo{
			types.ComponentExplorer: explorerComponent(metrics),
		})
	}

	t.Run("never fires without explorer", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		assert.False(t, s.ShouldExecute(stateWith(types.ActivityModerate, nil)))
	})

	t.Run("first consultation fires regardless of interest", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		state := explorerState(map[string]float64{types.MetricInterestingScore: 0.95})
		assert.True(t, s.ShouldExecute(state))
	})

	t.Run("high interest suppresses repeat requests", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		s.lastExecution = time.Now().Add(-10 * time.Minute)

		assert.False(t, s.ShouldExecute(explorerState(map[string]float64{types.MetricInterestingScore: 0.9})))
		assert.True(t, s.ShouldExecute(explorerState(map[string]float64{types.MetricInterestingScore: 0.5})))
		assert.True(t, s.ShouldExecute(explorerState(map[string]float64{})))
		assert.True(t, s.ShouldExecute(explorerState(nil)))
	})

	t.Run("low interest still respects the timer", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		s.MarkExecuted()
		assert.False(t, s.ShouldExecute(explorerState(map[string]float64{types.MetricInterestingScore: 0.1})))
	})

	t.Run("region from mutator snapshot", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		params := types.DefaultFractalParameters()
		params.CenterX = 0.5
		params.CenterY = -0.5
		params.Zoom = 250.0
		state := stateWith(types.ActivityLow, map[string]types.ComponentInfo{
			types.ComponentMutator:  mutatorComponent(0, params),
			types.ComponentExplorer: explorerComponent(nil),
		})

		action, err := s.Execute(ctx, state)
		require.NoError(t, err)
		require.Equal(t, types.ActionRequestAnalysis, action.Kind)
		assert.Equal(t, types.AnalysisRegion{
			CenterReal: 0.5,
			CenterImag: -0.5,
			Width:      2.0,
			Height:     2.0,
			Zoom:       250.0,
		}, action.Region)
		assert.Equal(t, types.AnalysisParameters{
			Resolution:    128,
			MaxIterations: 200,
			DeepScan:      true,
		}, action.Parameters)
	})

	t.Run("default region without mutator", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		action, err := s.Execute(ctx, explorerState(nil))
		require.NoError(t, err)
		assert.Equal(t, types.DefaultAnalysisRegion(), action.Region)
		assert.False(t, action.Parameters.DeepScan)
	})

	t.Run("threshold clamped", func(t *testing.T) {
		s := NewIntelligentAnalysis()
		assert.Equal(t, 0.7, s.threshold)

		s.Apply(types.AdjustParameters("threshold", 0.05))
		assert.Equal(t, 0.1, s.threshold)

		s.Apply(types.AdjustParameters("threshold", 2.0))
		assert.Equal(t, 1.0, s.threshold)

		s.Apply(types.AdjustParameters("intensity", 0.5))
		assert.Equal(t, 1.0, s.threshold)
	})
}
