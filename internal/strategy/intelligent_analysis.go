package strategy

import (
	"context"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// IntelligentAnalysis asks the explorer to scan the current region when the
// last analysis scored below the interest threshold. It never fires while
// the explorer is absent from the registry.
type IntelligentAnalysis struct {
	schedule
	threshold float64
	log       *logging.Logger
}

func NewIntelligentAnalysis() *IntelligentAnalysis {
	return &IntelligentAnalysis{
		schedule:  schedule{enabled: true, frequency: 5 * time.Minute},
		threshold: 0.7,
		log:       logging.Get(logging.CategoryStrategy),
	}
}

func (s *IntelligentAnalysis) Name() string { return "IntelligentAnalysis" }

func (s *IntelligentAnalysis) Description() string {
	return "Requests region analysis when exploration interest drops"
}

func (s *IntelligentAnalysis) ShouldExecute(state *types.EcosystemState) bool {
	if !s.enabled {
		return false
	}
	if _, ok := state.Components[types.ComponentExplorer]; !ok {
		return false
	}
	if s.lastExecution.IsZero() {
		return true
	}
	return s.due() && s.analysisWanted(state)
}

// analysisWanted defaults to true. Only a present analysis snapshot whose
// interesting_score clears the threshold suppresses the request.
func (s *IntelligentAnalysis) analysisWanted(state *types.EcosystemState) bool {
	if explorer, ok := state.Components[types.ComponentExplorer]; ok {
		if explorer.Data != nil && explorer.Data.Analysis != nil {
			if score, ok := explorer.Data.Analysis.Metrics[types.MetricInterestingScore]; ok {
				return score < s.threshold
			}
		}
	}
	return true
}

func (s *IntelligentAnalysis) Execute(ctx context.Context, state *types.EcosystemState) (types.StrategyAction, error) {
	s.log.Info("IntelligentAnalysis: requesting analysis of the current region")

	region := types.DefaultAnalysisRegion()
	if mutator, ok := state.Components[types.ComponentMutator]; ok {
		if mutator.Data != nil && mutator.Data.Fractal != nil {
			params := mutator.Data.Fractal.Parameters
			region = types.AnalysisRegion{
				CenterReal: params.CenterX,
				CenterImag: params.CenterY,
				Width:      2.0,
				Height:     2.0,
				Zoom:       params.Zoom,
			}
		}
	}

	parameters := types.AnalysisParameters{
		Resolution:    128,
		MaxIterations: 200,
		DeepScan:      state.ActivityLevel == types.ActivityLow,
	}

	return types.RequestAnalysisAction(region, parameters), nil
}

func (s *IntelligentAnalysis) Apply(mod types.StrategyModification) {
	if s.applyCommon(mod) {
		return
	}
	if mod.Kind == types.ModAdjustParameters && mod.Parameter == "threshold" {
		s.threshold = clamp(mod.Value, 0.1, 1.0)
		s.log.Info("IntelligentAnalysis: threshold adjusted to %.2f", s.threshold)
	}
}
