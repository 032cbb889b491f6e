package types

import (
	"context"
	"time"
)

// =============================================================================
// STRATEGY CONTRACT
// =============================================================================

// ActionKind tags the StrategyAction union.
type ActionKind string

const (
	ActionSendCommand     ActionKind = "send_command"
	ActionModifyStrategy  ActionKind = "modify_strategy"
	ActionRequestAnalysis ActionKind = "request_analysis"
	ActionWait            ActionKind = "wait"
)

// StrategyAction is the one side effect a strategy may request per cycle.
// Only the fields relevant to the Kind are populated; the coordinator
// consumes each action in the cycle that produced it.
type StrategyAction struct {
	Kind ActionKind

	// SendCommand
	Target  string
	Command Command

	// ModifyStrategy
	StrategyName string
	Modification StrategyModification

	// RequestAnalysis
	Region     AnalysisRegion
	Parameters AnalysisParameters

	// Wait
	Duration time.Duration
}

func SendCommandAction(target string, command Command) StrategyAction {
	return StrategyAction{Kind: ActionSendCommand, Target: target, Command: command}
}

func ModifyStrategyAction(name string, mod StrategyModification) StrategyAction {
	return StrategyAction{Kind: ActionModifyStrategy, StrategyName: name, Modification: mod}
}

func RequestAnalysisAction(region AnalysisRegion, params AnalysisParameters) StrategyAction {
	return StrategyAction{Kind: ActionRequestAnalysis, Region: region, Parameters: params}
}

func WaitAction(d time.Duration) StrategyAction {
	return StrategyAction{Kind: ActionWait, Duration: d}
}

// ModificationKind tags the StrategyModification union.
type ModificationKind string

const (
	ModChangeFrequency  ModificationKind = "change_frequency"
	ModEnable           ModificationKind = "enable"
	ModDisable          ModificationKind = "disable"
	ModAdjustParameters ModificationKind = "adjust_parameters"
)

// StrategyModification reconfigures a strategy by name at runtime. Each
// strategy applies only the kinds and parameter names it recognizes and
// ignores the rest.
type StrategyModification struct {
	Kind      ModificationKind
	Frequency time.Duration // ChangeFrequency
	Parameter string        // AdjustParameters
	Value     float64       // AdjustParameters
}

func ChangeFrequency(d time.Duration) StrategyModification {
	return StrategyModification{Kind: ModChangeFrequency, Frequency: d}
}

func EnableStrategy() StrategyModification  { return StrategyModification{Kind: ModEnable} }
func DisableStrategy() StrategyModification { return StrategyModification{Kind: ModDisable} }

func AdjustParameters(name string, value float64) StrategyModification {
	return StrategyModification{Kind: ModAdjustParameters, Parameter: name, Value: value}
}

// Strategy is an independently timed decision unit. Implementations own
// their trigger timer (frequency plus last execution) and any domain state;
// the coordinator consults each enabled strategy once per cycle.
type Strategy interface {
	Name() string
	Description() string
	Enabled() bool

	// ShouldExecute reports whether the strategy wants to act this cycle.
	// A strategy that has never executed fires on its first consultation.
	ShouldExecute(state *EcosystemState) bool

	// Execute produces the strategy's action. Called only after
	// ShouldExecute returns true.
	Execute(ctx context.Context, state *EcosystemState) (StrategyAction, error)

	// MarkExecuted stamps the internal timer after a successful Execute.
	MarkExecuted()

	// Apply reconfigures the strategy; unrecognized modifications are
	// silently ignored.
	Apply(mod StrategyModification)
}
