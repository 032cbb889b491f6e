package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractalis/internal/types"
)

func TestHistoricalMetricsEmpty(t *testing.T) {
	a := NewEcosystemAnalyzer()

	m := a.HistoricalMetrics()

	assert.Equal(t, 0, m.TotalSnapshots)
	assert.Equal(t, 0.0, m.AverageHealth)
	assert.Equal(t, "No data", m.HealthTrend)
	assert.Equal(t, int64(0), m.TimeSpanMinutes)
	require.NotNil(t, m.ActivityDistribution)
	assert.Empty(t, m.ActivityDistribution)
}

func TestHistoricalMetricsAggregates(t *testing.T) {
	a := NewEcosystemAnalyzer()
	base := time.Now()

	a.history = []snapshot{
		{timestamp: base, healthScore: 0.8, activityLevel: types.ActivityModerate, mutationRate: 0.2, analysisQuality: 0.4},
		{timestamp: base.Add(30 * time.Minute), healthScore: 0.6, activityLevel: types.ActivityModerate, mutationRate: 0.4, analysisQuality: 0.6},
		{timestamp: base.Add(60 * time.Minute), healthScore: 0.4, activityLevel: types.ActivityLow, mutationRate: 0.6, analysisQuality: 0.8},
	}

	m := a.HistoricalMetrics()

	assert.Equal(t, 3, m.TotalSnapshots)
	assert.InDelta(t, 0.6, m.AverageHealth, 1e-9)
	assert.InDelta(t, 0.4, m.AverageMutationRate, 1e-9)
	assert.InDelta(t, 0.6, m.AverageAnalysisQuality, 1e-9)
	assert.Equal(t, map[types.ActivityLevel]int{
		types.ActivityModerate: 2,
		types.ActivityLow:      1,
	}, m.ActivityDistribution)
	assert.Equal(t, "Insufficient data", m.HealthTrend)
	assert.Equal(t, int64(60), m.TimeSpanMinutes)
}

func TestHistoricalMetricsTimeSpan(t *testing.T) {
	a := NewEcosystemAnalyzer()
	base := time.Now()

	a.history = []snapshot{{timestamp: base, healthScore: 0.5}}
	assert.Equal(t, int64(0), a.HistoricalMetrics().TimeSpanMinutes)

	a.history = append(a.history, snapshot{timestamp: base.Add(90 * time.Second), healthScore: 0.5})
	// Partial minutes truncate.
	assert.Equal(t, int64(1), a.HistoricalMetrics().TimeSpanMinutes)
}

func TestHealthTrend(t *testing.T) {
	base := time.Now()

	seed := func(healths []float64) *EcosystemAnalyzer {
		a := NewEcosystemAnalyzer()
		for i, h := range healths {
			a.history = append(a.history, snapshot{
				timestamp:     base.Add(time.Duration(i) * time.Minute),
				healthScore:   h,
				activityLevel: types.ActivityModerate,
			})
		}
		return a
	}

	t.Run("below five snapshots", func(t *testing.T) {
		a := seed([]float64{0.5, 0.5, 0.5, 0.5})
		assert.Equal(t, "Insufficient data", a.HistoricalMetrics().HealthTrend)
	})

	t.Run("short older window damps toward improving", func(t *testing.T) {
		// With exactly five snapshots the older window is empty but still
		// divides by five, so any recent health above 0.1 reads as a gain.
		a := seed([]float64{0.5, 0.5, 0.5, 0.5, 0.5})
		assert.Equal(t, "Improving", a.HistoricalMetrics().HealthTrend)
	})

	t.Run("stable at full windows", func(t *testing.T) {
		a := seed([]float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7})
		assert.Equal(t, "Stable", a.HistoricalMetrics().HealthTrend)
	})

	t.Run("improving at full windows", func(t *testing.T) {
		a := seed([]float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.8, 0.8, 0.8, 0.8, 0.8})
		assert.Equal(t, "Improving", a.HistoricalMetrics().HealthTrend)
	})

	t.Run("declining at full windows", func(t *testing.T) {
		a := seed([]float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.4, 0.4, 0.4, 0.4, 0.4})
		assert.Equal(t, "Declining", a.HistoricalMetrics().HealthTrend)
	})

	t.Run("only newest ten compared", func(t *testing.T) {
		healths := make([]float64, 0, 30)
		for i := 0; i < 20; i++ {
			healths = append(healths, 0.1)
		}
		for i := 0; i < 10; i++ {
			healths = append(healths, 0.7)
		}
		a := seed(healths)
		assert.Equal(t, "Stable", a.HistoricalMetrics().HealthTrend)
	})
}
