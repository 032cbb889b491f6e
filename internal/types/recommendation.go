package types

import (
	"strconv"
	"strings"
)

// ExplorerRecommendation is one advisory line from the explorer, fanned out
// from the batch file it writes. The recommendation text may encode a
// machine-actionable command as ACTION:value.
type ExplorerRecommendation struct {
	Timestamp       string  `json:"timestamp"`
	FromComponent   string  `json:"from_component"`
	TargetComponent string  `json:"target_component"`
	AnalysisScore   float64 `json:"analysis_score"`
	Recommendation  string  `json:"recommendation"`
}

// ParseCommand maps a recognized ACTION:value recommendation onto a mutator
// command. The second return is false for unrecognized actions and for
// malformed values; callers drop those without escalating.
func (r ExplorerRecommendation) ParseCommand() (Command, bool) {
	parts := strings.Split(r.Recommendation, ":")
	if len(parts) != 2 {
		return Command{}, false
	}

	action, value := parts[0], parts[1]

	switch action {
	case "INCREASE_MUTATION_STRENGTH":
		strength, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Command{}, false
		}
		return SetMutationStrengthCommand(strength), true
	case "ENABLE_AUTO_MUTATION":
		enable, err := strconv.ParseBool(value)
		if err != nil {
			return Command{}, false
		}
		return SetAutoMutationCommand(enable), true
	case "CHANGE_FRACTAL_TYPE":
		fractalType, err := strconv.Atoi(value)
		if err != nil {
			return Command{}, false
		}
		return ChangeFractalTypeCommand(fractalType), true
	case "CHANGE_COLOR_SCHEME":
		scheme, err := strconv.Atoi(value)
		if err != nil {
			return Command{}, false
		}
		return ChangeColorSchemeCommand(scheme), true
	case "ZOOM_IN":
		factor, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Command{}, false
		}
		return ZoomInCommand(factor), true
	case "ZOOM_OUT":
		factor, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Command{}, false
		}
		return ZoomOutCommand(factor), true
	case "RESET_POSITION":
		if value == "true" {
			return ResetCommand(), true
		}
		return Command{}, false
	default:
		return Command{}, false
	}
}
