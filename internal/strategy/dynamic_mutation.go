package strategy

import (
	"context"
	"math"
	"math/rand"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// DynamicMutation steers the renderer's mutation strength toward a target
// derived from the activity level, stimulating a quiet ecosystem and damping
// a critical one. Adjustments below the dead band are skipped to avoid
// flooding the renderer with near-identical values.
type DynamicMutation struct {
	schedule
	lastStrength float64
	rng          *rand.Rand
	log          *logging.Logger
}

func NewDynamicMutation(rng *rand.Rand) *DynamicMutation {
	return &DynamicMutation{
		schedule:     schedule{enabled: true, frequency: 90 * time.Second},
		lastStrength: 0.1,
		rng:          rng,
		log:          logging.Get(logging.CategoryStrategy),
	}
}

func (s *DynamicMutation) Name() string { return "DynamicMutation" }

func (s *DynamicMutation) Description() string {
	return "Dynamic mutation strength tuned to the ecosystem state"
}

func (s *DynamicMutation) Execute(ctx context.Context, state *types.EcosystemState) (types.StrategyAction, error) {
	optimal := s.optimalStrength(state)

	if math.Abs(optimal-s.lastStrength) > 0.02 {
		s.lastStrength = optimal

		s.log.Info("DynamicMutation: adjusting strength to %.3f (activity %s)", optimal, state.ActivityLevel)

		return types.SendCommandAction(types.ComponentMutator, types.SetMutationStrengthCommand(optimal)), nil
	}

	s.log.Debug("DynamicMutation: current strength near optimal, holding")
	return types.WaitAction(30 * time.Second), nil
}

// optimalStrength scales a 0.15 base by the activity level and adds a small
// jitter so repeated adjustments do not converge on one value.
func (s *DynamicMutation) optimalStrength(state *types.EcosystemState) float64 {
	strength := 0.15
	switch state.ActivityLevel {
	case types.ActivityLow:
		strength *= 1.8
	case types.ActivityHigh:
		strength *= 0.6
	case types.ActivityCritical:
		strength *= 0.2
	}

	strength += s.rng.Float64()*0.06 - 0.03

	return clamp(strength, 0.05, 0.5)
}

func (s *DynamicMutation) Apply(mod types.StrategyModification) {
	s.applyCommon(mod)
}
