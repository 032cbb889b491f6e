package types

import (
	"time"
)

// EcosystemState is the analyzer's per-cycle verdict, consumed by the
// strategies and then discarded. Components is a value copy, never an alias
// of the live registry.
type EcosystemState struct {
	Timestamp       time.Time
	Components      map[string]ComponentInfo
	HealthScore     float64
	ActivityLevel   ActivityLevel
	Recommendations []string
}

// EcosystemReport is the persisted snapshot written on the report tick and
// at shutdown.
type EcosystemReport struct {
	SessionID        string                   `json:"session_id"`
	Timestamp        time.Time                `json:"timestamp"`
	UptimeSeconds    int64                    `json:"uptime_seconds"`
	TotalCommands    uint64                   `json:"total_commands"`
	ActiveComponents int                      `json:"active_components"`
	Components       map[string]ComponentInfo `json:"components"`
}
