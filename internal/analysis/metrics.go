package analysis

import "fractalis/internal/types"

// HistoricalMetrics summarizes the analyzer's snapshot history for reports.
type HistoricalMetrics struct {
	TotalSnapshots         int                         `json:"total_snapshots"`
	AverageHealth          float64                     `json:"average_health"`
	AverageMutationRate    float64                     `json:"average_mutation_rate"`
	AverageAnalysisQuality float64                     `json:"average_analysis_quality"`
	ActivityDistribution   map[types.ActivityLevel]int `json:"activity_distribution"`
	HealthTrend            string                      `json:"health_trend"`
	TimeSpanMinutes        int64                       `json:"time_span_minutes"`
}

// HistoricalMetrics aggregates the full snapshot history. With an empty
// history it returns zero values and a "No data" trend.
func (a *EcosystemAnalyzer) HistoricalMetrics() HistoricalMetrics {
	if len(a.history) == 0 {
		return HistoricalMetrics{
			ActivityDistribution: make(map[types.ActivityLevel]int),
			HealthTrend:          "No data",
		}
	}

	totalHealth := 0.0
	totalMutationRate := 0.0
	totalQuality := 0.0
	distribution := make(map[types.ActivityLevel]int)

	for _, snap := range a.history {
		totalHealth += snap.healthScore
		totalMutationRate += snap.mutationRate
		totalQuality += snap.analysisQuality
		distribution[snap.activityLevel]++
	}

	count := float64(len(a.history))

	timeSpan := int64(0)
	if len(a.history) >= 2 {
		first := a.history[0].timestamp
		last := a.history[len(a.history)-1].timestamp
		timeSpan = int64(last.Sub(first).Minutes())
	}

	return HistoricalMetrics{
		TotalSnapshots:         len(a.history),
		AverageHealth:          totalHealth / count,
		AverageMutationRate:    totalMutationRate / count,
		AverageAnalysisQuality: totalQuality / count,
		ActivityDistribution:   distribution,
		HealthTrend:            a.healthTrend(),
		TimeSpanMinutes:        timeSpan,
	}
}

// healthTrend compares the mean health of the newest five snapshots to the
// five before them. Both windows divide by five, so a short older window is
// damped toward zero rather than averaged; the trend only firms up once ten
// snapshots exist.
func (a *EcosystemAnalyzer) healthTrend() string {
	if len(a.history) < 5 {
		return "Insufficient data"
	}

	n := len(a.history)
	recentSum := 0.0
	for _, snap := range a.history[n-5:] {
		recentSum += snap.healthScore
	}
	recentAvg := recentSum / 5.0

	olderStart := n - 10
	if olderStart < 0 {
		olderStart = 0
	}
	olderSum := 0.0
	for _, snap := range a.history[olderStart : n-5] {
		olderSum += snap.healthScore
	}
	olderAvg := olderSum / 5.0

	switch {
	case recentAvg > olderAvg+0.1:
		return "Improving"
	case recentAvg < olderAvg-0.1:
		return "Declining"
	default:
		return "Stable"
	}
}
