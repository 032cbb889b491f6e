package strategy

import (
	"context"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// ColorCycler walks the renderer's six color schemes on a fixed timer.
type ColorCycler struct {
	schedule
	scheme int
	log    *logging.Logger
}

func NewColorCycler() *ColorCycler {
	return &ColorCycler{
		schedule: schedule{enabled: true, frequency: time.Minute},
		log:      logging.Get(logging.CategoryStrategy),
	}
}

func (s *ColorCycler) Name() string { return "ColorCycler" }

func (s *ColorCycler) Description() string {
	return "Periodic rotation through the color schemes"
}

func (s *ColorCycler) Execute(ctx context.Context, state *types.EcosystemState) (types.StrategyAction, error) {
	s.scheme = (s.scheme + 1) % 6

	s.log.Info("ColorCycler: switching to color scheme %d", s.scheme)

	return types.SendCommandAction(types.ComponentMutator, types.ChangeColorSchemeCommand(s.scheme)), nil
}

func (s *ColorCycler) Apply(mod types.StrategyModification) {
	s.applyCommon(mod)
}
