// Package strategy holds the coordinator's decision units. Each strategy
// owns its trigger timer and whatever domain state it tracks, and emits at
// most one action per consultation. The engine in the coordinator consults
// them in roster order and imposes no priority between them.
package strategy

import (
	"math/rand"
	"time"

	"fractalis/internal/types"
)

// schedule is the trigger state every strategy carries: an enabled flag, a
// firing frequency, and the time of the last execution. The zero
// lastExecution means the strategy has never fired and is always due.
type schedule struct {
	enabled       bool
	frequency     time.Duration
	lastExecution time.Time
}

func (s *schedule) Enabled() bool { return s.enabled }

func (s *schedule) MarkExecuted() { s.lastExecution = time.Now() }

// ShouldExecute fires on the first consultation and whenever the frequency
// has elapsed since the last execution.
func (s *schedule) ShouldExecute(state *types.EcosystemState) bool {
	return s.enabled && s.due()
}

func (s *schedule) due() bool {
	if s.lastExecution.IsZero() {
		return true
	}
	return time.Since(s.lastExecution) >= s.frequency
}

// applyCommon consumes the modification kinds every strategy recognizes and
// reports whether it did. Parameter adjustments stay with the caller.
func (s *schedule) applyCommon(mod types.StrategyModification) bool {
	switch mod.Kind {
	case types.ModChangeFrequency:
		s.frequency = mod.Frequency
	case types.ModEnable:
		s.enabled = true
	case types.ModDisable:
		s.enabled = false
	default:
		return false
	}
	return true
}

// DefaultStrategies builds the standard roster in its consultation order.
// The rand source drives pulse timing and mutation jitter; pass a seeded
// source for reproducible runs.
func DefaultStrategies(rng *rand.Rand) []types.Strategy {
	return []types.Strategy{
		NewRandomPulse(rng),
		NewColorCycler(),
		NewFractalRotation(),
		NewDynamicMutation(rng),
		NewIntelligentAnalysis(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
