package types

import (
	"time"
)

// =============================================================================
// COMPONENT TYPES AND CONSTANTS
// =============================================================================

// ComponentKind classifies an external process in the ecosystem.
type ComponentKind string

const (
	KindMutator    ComponentKind = "Mutator"    // Fractal renderer/mutator
	KindAnalyzer   ComponentKind = "Analyzer"   // Exploration/analysis process
	KindVisualizer ComponentKind = "Visualizer" // Future visualization components
	KindStorage    ComponentKind = "Storage"    // Future storage components
)

// ComponentStatus is the last reported run state of a component.
type ComponentStatus string

const (
	StatusRunning ComponentStatus = "Running"
	StatusIdle    ComponentStatus = "Idle"
	StatusError   ComponentStatus = "Error"
	StatusOffline ComponentStatus = "Offline"
)

// ActivityLevel is the coarse classification of how much change is
// occurring across the ecosystem.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"      // Needs stimulus
	ActivityModerate ActivityLevel = "Moderate" // Normal operation
	ActivityHigh     ActivityLevel = "High"     // May need regulation
	ActivityCritical ActivityLevel = "Critical" // Needs intervention
)

// Well-known component names. The mutator and explorer announce themselves
// under these names in their state files.
const (
	ComponentMutator  = "FractalMutator"
	ComponentExplorer = "FractalExplorer"
)

// ComponentData is the tagged payload a component last reported. Exactly one
// of the fields is set. The field names double as the JSON tag so reports
// round-trip with the historical wire format.
type ComponentData struct {
	Fractal  *FractalState `json:"Fractal,omitempty"`
	Analysis *AnalysisData `json:"Analysis,omitempty"`
}

// ComponentInfo is the registry entry for one external component. Entries
// are overwritten on every successful state read and left untouched when a
// read fails; freshness is judged downstream from LastSeen.
type ComponentInfo struct {
	Name     string             `json:"name"`
	Kind     ComponentKind      `json:"component_type"`
	Status   ComponentStatus    `json:"status"`
	LastSeen time.Time          `json:"last_seen"`
	Data     *ComponentData     `json:"data"`
	Metrics  map[string]float64 `json:"metrics"`
}

// Clone returns a deep copy so registry snapshots never alias live entries.
func (c ComponentInfo) Clone() ComponentInfo {
	out := c
	if c.Metrics != nil {
		out.Metrics = make(map[string]float64, len(c.Metrics))
		for k, v := range c.Metrics {
			out.Metrics[k] = v
		}
	}
	if c.Data != nil {
		data := ComponentData{}
		if c.Data.Fractal != nil {
			f := *c.Data.Fractal
			data.Fractal = &f
		}
		if c.Data.Analysis != nil {
			a := c.Data.Analysis.Clone()
			data.Analysis = &a
		}
		out.Data = &data
	}
	return out
}

// CloneRegistry deep-copies a whole registry map.
func CloneRegistry(components map[string]ComponentInfo) map[string]ComponentInfo {
	out := make(map[string]ComponentInfo, len(components))
	for name, info := range components {
		out[name] = info.Clone()
	}
	return out
}
