// Package analysis turns raw component snapshots into an ecosystem verdict:
// a health score in [0,1], a coarse activity level, and operator
// recommendations. The analyzer keeps a bounded history of its own verdicts
// so activity assessment and trend reporting can look backwards.
package analysis

import (
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// snapshot is one remembered verdict. Only the aggregates are kept; the
// component registry itself is not retained.
type snapshot struct {
	timestamp       time.Time
	healthScore     float64
	activityLevel   types.ActivityLevel
	componentCount  int
	mutationRate    float64
	analysisQuality float64
}

// EcosystemAnalyzer scores the ecosystem from the component registry.
// Not safe for concurrent use; the coordinator owns it on one goroutine.
type EcosystemAnalyzer struct {
	history    []snapshot
	maxHistory int
	log        *logging.Logger
}

// NewEcosystemAnalyzer creates an analyzer with a 100-snapshot history.
func NewEcosystemAnalyzer() *EcosystemAnalyzer {
	return &EcosystemAnalyzer{
		history:    make([]snapshot, 0, 100),
		maxHistory: 100,
		log:        logging.Get(logging.CategoryAnalysis),
	}
}

// Analyze computes the current ecosystem state and records it in the
// history. History-dependent signals (activity momentum, health trend,
// low-health recommendation) read the history as it was before this call.
func (a *EcosystemAnalyzer) Analyze(components map[string]types.ComponentInfo) types.EcosystemState {
	timestamp := time.Now()

	healthScore := a.calculateHealthScore(components)
	activityLevel := a.determineActivityLevel(components)
	recommendations := a.generateRecommendations(components, activityLevel)

	a.addToHistory(snapshot{
		timestamp:       timestamp,
		healthScore:     healthScore,
		activityLevel:   activityLevel,
		componentCount:  len(components),
		mutationRate:    a.calculateMutationRate(components),
		analysisQuality: a.calculateAnalysisQuality(components),
	})

	a.log.Debug("Ecosystem analysis: health %.2f, activity %s", healthScore, activityLevel)

	return types.EcosystemState{
		Timestamp:       timestamp,
		Components:      types.CloneRegistry(components),
		HealthScore:     healthScore,
		ActivityLevel:   activityLevel,
		Recommendations: recommendations,
	}
}

// =============================================================================
// HEALTH SCORE
// =============================================================================

// calculateHealthScore scores each component by status, data freshness and
// parameter sanity, averages, then applies a diversity bonus capped at 1.0.
func (a *EcosystemAnalyzer) calculateHealthScore(components map[string]types.ComponentInfo) float64 {
	if len(components) == 0 {
		return 0.0
	}

	now := time.Now()
	totalScore := 0.0
	componentCount := 0

	for name, component := range components {
		var componentScore float64
		switch component.Status {
		case types.StatusRunning:
			ageScore := freshnessScore(now.Sub(component.LastSeen))

			switch {
			case component.Data != nil && component.Data.Fractal != nil:
				params := component.Data.Fractal.Parameters

				// Penalize extreme values that may indicate problems
				zoomScore := 1.0
				if params.Zoom > 1000.0 || params.Zoom < 0.01 {
					zoomScore = 0.7
				}
				mutationScore := 1.0
				if params.MutationStrength > 0.8 {
					mutationScore = 0.8
				}
				componentScore = ageScore * zoomScore * mutationScore

			case component.Data != nil && component.Data.Analysis != nil:
				qualityScore := 0.5
				if score, ok := component.Data.Analysis.Metrics[types.MetricInterestingScore]; ok {
					qualityScore = clamp(score, 0.0, 1.0)
				}
				componentScore = ageScore * (0.5 + qualityScore*0.5)

			default:
				componentScore = ageScore * 0.8 // Penalize lack of data
			}

		case types.StatusIdle:
			componentScore = 0.6
		case types.StatusError:
			componentScore = 0.2
		default: // Offline or unknown
			componentScore = 0.0
		}

		totalScore += componentScore
		componentCount++

		a.log.Debug("Health of %s: %.2f", name, componentScore)
	}

	averageScore := totalScore / float64(componentCount)

	// Bonus for having multiple components running
	var diversityBonus float64
	switch componentCount {
	case 0:
		diversityBonus = 0.0
	case 1:
		diversityBonus = 0.9
	case 2:
		diversityBonus = 1.0
	case 3:
		diversityBonus = 1.1
	default:
		diversityBonus = 1.2
	}

	score := averageScore * diversityBonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// freshnessScore maps the age of a running component's last report to a
// score.
func freshnessScore(age time.Duration) float64 {
	switch {
	case age <= 30*time.Second:
		return 1.0
	case age <= 2*time.Minute:
		return 0.8
	case age <= 5*time.Minute:
		return 0.6
	default:
		return 0.3
	}
}

// =============================================================================
// ACTIVITY LEVEL
// =============================================================================

// determineActivityLevel averages activity indicators from the mutator, the
// explorer, and the history, then maps the average onto the four levels.
func (a *EcosystemAnalyzer) determineActivityLevel(components map[string]types.ComponentInfo) types.ActivityLevel {
	var indicators []float64

	if mutator, ok := components[types.ComponentMutator]; ok {
		if mutator.Data != nil && mutator.Data.Fractal != nil {
			params := mutator.Data.Fractal.Parameters

			// Auto-mutation means sustained activity
			if params.AutoMutate {
				indicators = append(indicators, 3.0)
			}

			switch {
			case params.MutationStrength > 0.3:
				indicators = append(indicators, 2.0)
			case params.MutationStrength > 0.1:
				indicators = append(indicators, 1.0)
			default:
				indicators = append(indicators, 0.5)
			}

			// Extreme zoom can mean runaway activity
			if params.Zoom > 500.0 {
				indicators = append(indicators, 3.0)
			}
		}
	}

	if explorer, ok := components[types.ComponentExplorer]; ok {
		if explorer.Data != nil && explorer.Data.Analysis != nil {
			analysis := explorer.Data.Analysis

			// Recent analyses mean the explorer is working. An unparseable
			// timestamp counts as fresh.
			now := time.Now()
			ts, err := time.Parse(time.RFC3339, analysis.Timestamp)
			if err != nil {
				ts = now
			}
			age := now.Sub(ts)
			switch {
			case age <= time.Minute:
				indicators = append(indicators, 2.0)
			case age <= 5*time.Minute:
				indicators = append(indicators, 1.0)
			default:
				indicators = append(indicators, 0.3)
			}

			if score, ok := analysis.Metrics[types.MetricInterestingScore]; ok {
				if score > 0.8 {
					indicators = append(indicators, 2.0)
				} else if score > 0.5 {
					indicators = append(indicators, 1.0)
				}
			}
		}
	}

	indicators = append(indicators, a.calculateHistoricalActivity())

	averageActivity := 0.5
	if len(indicators) > 0 {
		sum := 0.0
		for _, v := range indicators {
			sum += v
		}
		averageActivity = sum / float64(len(indicators))
	}

	var level types.ActivityLevel
	switch {
	case averageActivity >= 2.5:
		level = types.ActivityCritical
	case averageActivity >= 1.8:
		level = types.ActivityHigh
	case averageActivity >= 0.8:
		level = types.ActivityModerate
	default:
		level = types.ActivityLow
	}

	a.log.Debug("Ecosystem activity: %.2f -> %s", averageActivity, level)

	return level
}

// calculateHistoricalActivity scores momentum from the newest snapshots:
// a recency-weighted average of activity magnitudes, scaled by a health
// trend factor, clamped to [0,3]. Neutral 1.0 with fewer than 2 snapshots.
func (a *EcosystemAnalyzer) calculateHistoricalActivity() float64 {
	if len(a.history) < 2 {
		return 1.0
	}

	// Newest first, at most 10
	n := len(a.history)
	count := n
	if count > 10 {
		count = 10
	}
	recent := make([]snapshot, 0, count)
	for i := 0; i < count; i++ {
		recent = append(recent, a.history[n-1-i])
	}

	activitySum := 0.0
	for i, snap := range recent {
		weight := 1.0 - float64(i)*0.1 // More weight on recent snapshots
		activitySum += activityMagnitude(snap.activityLevel) * weight
	}

	// Health trend over the newest three against the three before them.
	// With fewer than four snapshots there is no older window and the
	// factor stays neutral.
	trendFactor := 1.0
	if len(recent) >= 3 {
		recentAvg := (recent[0].healthScore + recent[1].healthScore + recent[2].healthScore) / 3.0

		end := len(recent)
		if end > 6 {
			end = 6
		}
		olderSum := 0.0
		olderCount := end - 3
		for i := 3; i < end; i++ {
			olderSum += recent[i].healthScore
		}
		if olderCount > 0 {
			olderAvg := olderSum / float64(olderCount)
			if recentAvg > olderAvg+0.1 {
				trendFactor = 1.2 // Improving
			} else if recentAvg < olderAvg-0.1 {
				trendFactor = 0.8 // Declining
			}
		}
	}

	return clamp(activitySum/float64(count)*trendFactor, 0.0, 3.0)
}

func activityMagnitude(level types.ActivityLevel) float64 {
	switch level {
	case types.ActivityCritical:
		return 3.0
	case types.ActivityHigh:
		return 2.0
	case types.ActivityModerate:
		return 1.0
	default:
		return 0.5
	}
}

// =============================================================================
// SNAPSHOT METRICS
// =============================================================================

// calculateMutationRate derives the effective mutation rate from the
// mutator's parameters. Auto-mutation multiplies the base strength.
func (a *EcosystemAnalyzer) calculateMutationRate(components map[string]types.ComponentInfo) float64 {
	if mutator, ok := components[types.ComponentMutator]; ok {
		if mutator.Data != nil && mutator.Data.Fractal != nil {
			params := mutator.Data.Fractal.Parameters
			baseRate := params.MutationStrength

			if params.AutoMutate {
				return baseRate * (1.0 + params.AutoMutateSpeed*10.0)
			}
			return baseRate
		}
	}
	return 0.0
}

// calculateAnalysisQuality combines the explorer's quality metrics into a
// weighted score. 0.5 when the explorer has not reported analysis data.
func (a *EcosystemAnalyzer) calculateAnalysisQuality(components map[string]types.ComponentInfo) float64 {
	if explorer, ok := components[types.ComponentExplorer]; ok {
		if explorer.Data != nil && explorer.Data.Analysis != nil {
			metrics := explorer.Data.Analysis.Metrics
			return metrics[types.MetricInterestingScore]*0.5 +
				metrics[types.MetricComplexity]*0.3 +
				metrics[types.MetricBoundaryLength]*0.2
		}
	}
	return 0.5
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

// generateRecommendations produces operator guidance from the activity
// level, component parameters, and recent health history.
func (a *EcosystemAnalyzer) generateRecommendations(components map[string]types.ComponentInfo, activityLevel types.ActivityLevel) []string {
	var recommendations []string

	switch activityLevel {
	case types.ActivityLow:
		recommendations = append(recommendations,
			"Increase mutation stimuli",
			"Request deep analysis",
			"Consider changing parameters",
		)
	case types.ActivityCritical:
		recommendations = append(recommendations,
			"Reduce mutation intensity",
			"Implement automatic regulation",
			"Monitor system stability",
		)
	}

	if mutator, ok := components[types.ComponentMutator]; ok {
		if mutator.Data != nil && mutator.Data.Fractal != nil {
			params := mutator.Data.Fractal.Parameters

			if params.Zoom > 1000.0 {
				recommendations = append(recommendations, "Extreme zoom detected - consider reset")
			}
			if params.MutationStrength > 0.5 {
				recommendations = append(recommendations, "Mutation strength very high - reduce gradually")
			}
			if !params.AutoMutate && activityLevel == types.ActivityLow {
				recommendations = append(recommendations, "Enable auto-mutation to increase activity")
			}
		}
	}

	if _, ok := components[types.ComponentExplorer]; !ok {
		recommendations = append(recommendations, "FractalExplorer offline - restart component")
	}

	if len(a.history) >= 5 {
		sum := 0.0
		for _, snap := range a.history[len(a.history)-5:] {
			sum += snap.healthScore
		}
		if sum/5.0 < 0.6 {
			recommendations = append(recommendations, "Ecosystem health low - full diagnostic required")
		}
	}

	return recommendations
}

// =============================================================================
// HISTORY
// =============================================================================

func (a *EcosystemAnalyzer) addToHistory(snap snapshot) {
	a.history = append(a.history, snap)
	if len(a.history) > a.maxHistory {
		a.history = a.history[1:]
	}
}

// HistoryLen returns how many snapshots the analyzer currently remembers.
func (a *EcosystemAnalyzer) HistoryLen() int {
	return len(a.history)
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
