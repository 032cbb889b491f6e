package store

import (
	"fmt"
	"os"
	"time"

	"fractalis/internal/types"
)

// HealthStatus classifies a component's state-file freshness.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "Healthy"
	HealthStale     HealthStatus = "Stale"
	HealthUnhealthy HealthStatus = "Unhealthy"
	HealthMissing   HealthStatus = "Missing"
)

// ComponentHealth describes one component's state-file freshness.
type ComponentHealth struct {
	Status     HealthStatus `json:"status"`
	LastUpdate time.Time    `json:"last_update"`
	AgeSeconds int64        `json:"age_seconds"`
	Message    string       `json:"message"`
}

// ComponentHealthReport maps component names to their freshness health.
type ComponentHealthReport struct {
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// Freshness windows. A component is healthy while its state file is younger
// than its max age, stale up to twice that, and unhealthy beyond. The mutator
// publishes continuously so its window is tight; the explorer only publishes
// per scan.
const (
	mutatorMaxAge  = 30 * time.Second
	explorerMaxAge = 60 * time.Second
)

// CheckComponentHealth reports state-file freshness for both components.
// Freshness comes from file modification times, so it works even when a
// component writes unparseable state.
func (s *Store) CheckComponentHealth() ComponentHealthReport {
	return ComponentHealthReport{
		Timestamp: time.Now(),
		Components: map[string]ComponentHealth{
			types.ComponentMutator:  s.checkFileFreshness(FileFractalParams, mutatorMaxAge),
			types.ComponentExplorer: s.checkFileFreshness(FileExplorerStatus, explorerMaxAge),
		},
	}
}

func (s *Store) checkFileFreshness(name string, maxAge time.Duration) ComponentHealth {
	info, err := os.Stat(s.path(name))
	if err != nil {
		return ComponentHealth{
			Status:  HealthMissing,
			Message: fmt.Sprintf("%s not found", name),
		}
	}

	age := time.Since(info.ModTime())
	health := ComponentHealth{
		LastUpdate: info.ModTime(),
		AgeSeconds: int64(age.Seconds()),
	}

	switch {
	case age <= maxAge:
		health.Status = HealthHealthy
		health.Message = fmt.Sprintf("updated %ds ago", health.AgeSeconds)
	case age <= 2*maxAge:
		health.Status = HealthStale
		health.Message = fmt.Sprintf("no update for %ds (max %ds)", health.AgeSeconds, int64(maxAge.Seconds()))
	default:
		health.Status = HealthUnhealthy
		health.Message = fmt.Sprintf("no update for %ds (max %ds)", health.AgeSeconds, int64(maxAge.Seconds()))
	}
	return health
}
