package types

// Metric keys the explorer reports. Unknown keys are carried but ignored.
const (
	MetricInterestingScore = "interesting_score"
	MetricComplexity       = "complexity_measure"
	MetricBoundaryLength   = "boundary_length"
)

// AnalysisData is the explorer's reported analysis of a fractal region.
// Timestamp is an RFC3339 string as written by the explorer.
type AnalysisData struct {
	Timestamp      string             `json:"timestamp"`
	Region         AnalysisRegion     `json:"region"`
	FractalType    int                `json:"fractal_type"`
	MaxIterations  int                `json:"max_iterations"`
	Metrics        map[string]float64 `json:"metrics"`
	Recommendation string             `json:"recommendation"`
	Component      string             `json:"component"`
}

// Clone deep-copies the metrics map.
func (a AnalysisData) Clone() AnalysisData {
	out := a
	if a.Metrics != nil {
		out.Metrics = make(map[string]float64, len(a.Metrics))
		for k, v := range a.Metrics {
			out.Metrics[k] = v
		}
	}
	return out
}

// AnalysisRegion describes a rectangular window of the complex plane.
type AnalysisRegion struct {
	CenterReal float64 `json:"center_real"`
	CenterImag float64 `json:"center_imag"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Zoom       float64 `json:"zoom"`
}

// DefaultAnalysisRegion is the unit window around the origin.
func DefaultAnalysisRegion() AnalysisRegion {
	return AnalysisRegion{
		CenterReal: 0.0,
		CenterImag: 0.0,
		Width:      2.0,
		Height:     2.0,
		Zoom:       1.0,
	}
}

// AnalysisParameters tune a requested analysis run.
type AnalysisParameters struct {
	Resolution    int  `json:"resolution"`
	MaxIterations int  `json:"max_iterations"`
	DeepScan      bool `json:"deep_scan"`
}

// DefaultAnalysisParameters returns the explorer's standard scan settings.
func DefaultAnalysisParameters() AnalysisParameters {
	return AnalysisParameters{
		Resolution:    128,
		MaxIterations: 200,
		DeepScan:      false,
	}
}
