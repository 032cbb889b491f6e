package types

// FractalState is the mutator's reported state: the wire envelope around its
// parameter set. Timestamp stays a raw string; the renderer writes several
// slightly different formats and nothing here needs to order by it.
type FractalState struct {
	Timestamp   string            `json:"timestamp"`
	FractalType int               `json:"fractal_type"`
	Parameters  FractalParameters `json:"parameters"`
}

// FractalParameters mirrors the renderer's parameter block. JSON names are
// fixed by the renderer (camelCase with two historical oddities, juliaC_real
// and juliaC_imag).
type FractalParameters struct {
	Zoom             float64 `json:"zoom"`
	CenterX          float64 `json:"centerX"`
	CenterY          float64 `json:"centerY"`
	MaxIterations    int     `json:"maxIterations"`
	JuliaCReal       float64 `json:"juliaC_real"`
	JuliaCImag       float64 `json:"juliaC_imag"`
	EscapeRadius     float64 `json:"escapeRadius"`
	Power            float64 `json:"power"`
	ColorScheme      int     `json:"colorScheme"`
	ColorSpeed       float64 `json:"colorSpeed"`
	ColorOffset      float64 `json:"colorOffset"`
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	SmoothColoring   bool    `json:"smoothColoring"`
	MutationStrength float64 `json:"mutationStrength"`
	AutoMutate       bool    `json:"autoMutate"`
	AutoMutateSpeed  float64 `json:"autoMutateSpeed"`
}

// DefaultFractalParameters returns the renderer's startup parameter set.
func DefaultFractalParameters() FractalParameters {
	return FractalParameters{
		Zoom:             1.0,
		CenterX:          0.0,
		CenterY:          0.0,
		MaxIterations:    100,
		JuliaCReal:       -0.7,
		JuliaCImag:       0.27015,
		EscapeRadius:     2.0,
		Power:            2.0,
		ColorScheme:      0,
		ColorSpeed:       1.0,
		ColorOffset:      0.0,
		Brightness:       1.0,
		Contrast:         1.0,
		SmoothColoring:   true,
		MutationStrength: 0.1,
		AutoMutate:       false,
		AutoMutateSpeed:  0.01,
	}
}
