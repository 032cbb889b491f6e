package strategy

import (
	"context"
	"math/rand"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// RandomPulse fires unconditional mutation commands on a jittered timer to
// keep the fractal from settling. The pulse intensity scales inversely with
// ecosystem activity; it is reported for operators but the mutate command
// itself carries no payload.
type RandomPulse struct {
	schedule
	intensity float64
	rng       *rand.Rand
	log       *logging.Logger
}

func NewRandomPulse(rng *rand.Rand) *RandomPulse {
	return &RandomPulse{
		schedule: schedule{
			enabled:   true,
			frequency: time.Duration(15+rng.Intn(30)) * time.Second,
		},
		intensity: 1.0,
		rng:       rng,
		log:       logging.Get(logging.CategoryStrategy),
	}
}

func (s *RandomPulse) Name() string { return "RandomPulse" }

func (s *RandomPulse) Description() string {
	return "Random mutation pulses that keep the fractal evolving"
}

func (s *RandomPulse) ShouldExecute(state *types.EcosystemState) bool {
	if !s.enabled {
		return false
	}
	if s.lastExecution.IsZero() {
		return true
	}
	elapsed := time.Since(s.lastExecution)
	if elapsed < s.frequency {
		return false
	}
	s.log.Debug("RandomPulse: %d seconds since last pulse", int(elapsed.Seconds()))
	return true
}

func (s *RandomPulse) Execute(ctx context.Context, state *types.EcosystemState) (types.StrategyAction, error) {
	multiplier := 1.0
	switch state.ActivityLevel {
	case types.ActivityLow:
		multiplier = 1.5
	case types.ActivityHigh:
		multiplier = 0.7
	case types.ActivityCritical:
		multiplier = 0.3
	}

	s.reschedule()

	s.log.Info("RandomPulse: firing mutation (intensity %.2f)", s.intensity*multiplier)

	return types.SendCommandAction(types.ComponentMutator, types.MutateCommand()), nil
}

// reschedule re-picks the firing interval around a 25 second base so pulses
// do not fall into lockstep with the coordination ticker.
func (s *RandomPulse) reschedule() {
	s.frequency = time.Duration(25+s.rng.Intn(25)-10) * time.Second
}

func (s *RandomPulse) Apply(mod types.StrategyModification) {
	if s.applyCommon(mod) {
		if mod.Kind == types.ModChangeFrequency {
			s.log.Info("RandomPulse: frequency changed to %s", mod.Frequency)
		}
		return
	}
	if mod.Kind == types.ModAdjustParameters && mod.Parameter == "intensity" {
		s.intensity = clamp(mod.Value, 0.1, 3.0)
		s.log.Info("RandomPulse: intensity adjusted to %.2f", s.intensity)
	}
}
