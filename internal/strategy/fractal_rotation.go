package strategy

import (
	"context"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// FractalRotation cycles the renderer across its three fractal types every
// few minutes. The cached current type is refreshed only from the mutator's
// reported state; sending the rotation command does not advance it, so a
// renderer that ignores the command is asked again from the same base.
type FractalRotation struct {
	schedule
	current int
	log     *logging.Logger
}

func NewFractalRotation() *FractalRotation {
	return &FractalRotation{
		schedule: schedule{enabled: true, frequency: 3 * time.Minute},
		log:      logging.Get(logging.CategoryStrategy),
	}
}

func (s *FractalRotation) Name() string { return "FractalRotation" }

func (s *FractalRotation) Description() string {
	return "Rotation across the fractal types"
}

func (s *FractalRotation) Execute(ctx context.Context, state *types.EcosystemState) (types.StrategyAction, error) {
	if mutator, ok := state.Components[types.ComponentMutator]; ok {
		if mutator.Data != nil && mutator.Data.Fractal != nil {
			s.current = mutator.Data.Fractal.FractalType
		}
	}

	next := (s.current + 1) % 3

	s.log.Info("FractalRotation: rotating from type %d to %d", s.current, next)

	return types.SendCommandAction(types.ComponentMutator, types.ChangeFractalTypeCommand(next)), nil
}

func (s *FractalRotation) Apply(mod types.StrategyModification) {
	s.applyCommon(mod)
}
