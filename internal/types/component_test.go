package types

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentInfoClone(t *testing.T) {
	params := DefaultFractalParameters()
	original := ComponentInfo{
		Name:     ComponentMutator,
		Kind:     KindMutator,
		Status:   StatusRunning,
		LastSeen: time.Now(),
		Data: &ComponentData{
			Fractal: &FractalState{
				Timestamp:   "2026-08-22T10:00:00Z",
				FractalType: 1,
				Parameters:  params,
			},
		},
		Metrics: map[string]float64{"zoom": 1.0},
	}

	clone := original.Clone()
	require.Empty(t, cmp.Diff(original, clone))

	// Mutating the clone must not leak back.
	clone.Metrics["zoom"] = 99.0
	clone.Data.Fractal.Parameters.Zoom = 500.0
	assert.Equal(t, 1.0, original.Metrics["zoom"])
	assert.Equal(t, 1.0, original.Data.Fractal.Parameters.Zoom)
}

func TestCloneRegistryIndependence(t *testing.T) {
	registry := map[string]ComponentInfo{
		ComponentExplorer: {
			Name:   ComponentExplorer,
			Kind:   KindAnalyzer,
			Status: StatusRunning,
			Data: &ComponentData{
				Analysis: &AnalysisData{
					Timestamp: "2026-08-22T10:00:00Z",
					Metrics:   map[string]float64{MetricInterestingScore: 0.7},
				},
			},
			Metrics: map[string]float64{},
		},
	}

	snapshot := CloneRegistry(registry)
	snapshot[ComponentExplorer].Data.Analysis.Metrics[MetricInterestingScore] = 0.1

	assert.Equal(t, 0.7, registry[ComponentExplorer].Data.Analysis.Metrics[MetricInterestingScore])
}

func TestCloneNilFields(t *testing.T) {
	info := ComponentInfo{Name: "bare", Kind: KindStorage, Status: StatusOffline}
	clone := info.Clone()
	assert.Nil(t, clone.Data)
	assert.Nil(t, clone.Metrics)
}
