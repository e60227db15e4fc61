package vision

// DefaultParams returns default edge and contrast parameters.
// Thresholds are on the 0-255 intensity scale.
func DefaultParams() Params {
	return Params{
		// Adaptive histogram equalisation, OpenCV defaults
		CLAHEClipLimit: 2.0,
		CLAHETileSize:  8,

		// The display bezel is a long soft edge; die outlines are small and crisp.
		ViewportSigma: 3.0,
		RegionSigma:   2.0,

		// Hysteresis at 10% / 20% of full scale
		CannyLow:  25.5,
		CannyHigh: 51.0,

		// 8-connected labelling
		Connectivity: 8,
	}
}

// Params holds image-processing parameters for the vision stages.
type Params struct {
	CLAHEClipLimit float64
	CLAHETileSize  int

	// Gaussian smoothing applied before edge detection
	ViewportSigma float64
	RegionSigma   float64

	// Canny hysteresis thresholds
	CannyLow  float32
	CannyHigh float32

	Connectivity int // 4 or 8
}

// WithSigmas returns a copy of params with custom smoothing scales.
func (p Params) WithSigmas(viewport, region float64) Params {
	p.ViewportSigma = viewport
	p.RegionSigma = region
	return p
}

// WithCanny returns a copy of params with custom hysteresis thresholds.
func (p Params) WithCanny(low, high float32) Params {
	p.CannyLow = low
	p.CannyHigh = high
	return p
}

// WithCLAHE returns a copy of params with custom equalisation settings.
func (p Params) WithCLAHE(clipLimit float64, tileSize int) Params {
	p.CLAHEClipLimit = clipLimit
	p.CLAHETileSize = tileSize
	return p
}
