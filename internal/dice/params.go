package dice

import "image"

// DefaultParams returns the selection and classification parameters
// calibrated for the handheld device photographed at 1280x960.
func DefaultParams() Params {
	return Params{
		DiceCount: 5,

		// Edge contours of a die on the display cover 200-500 pixels.
		MinArea: 200,
		MaxArea: 500,

		// Near square, open interval on both ends
		MinAspect: 0.9,
		MaxAspect: 1.1,

		// C(12, 5) = 792 combinations; anything larger is not a dice display.
		MaxCandidates: 12,

		TemplateCrop: image.Rect(81, 81, 430, 430),
	}
}

// Params holds tunable constants for candidate selection and templates.
type Params struct {
	DiceCount int // Number of dice shown on the display

	// Stage A shape filter (exclusive bounds)
	MinArea   int
	MaxArea   int
	MinAspect float64
	MaxAspect float64

	// Upper bound on candidates entering the best-fit line search
	MaxCandidates int

	// Region of each template capture that contains the die face.
	// An empty rectangle uses the whole capture.
	TemplateCrop image.Rectangle
}

// WithAreaRange returns a copy of params with a custom pixel area range.
func (p Params) WithAreaRange(minArea, maxArea int) Params {
	p.MinArea = minArea
	p.MaxArea = maxArea
	return p
}

// WithAspectRange returns a copy of params with a custom aspect ratio band.
func (p Params) WithAspectRange(minAspect, maxAspect float64) Params {
	p.MinAspect = minAspect
	p.MaxAspect = maxAspect
	return p
}

// WithMaxCandidates returns a copy of params with a custom search guard.
func (p Params) WithMaxCandidates(n int) Params {
	p.MaxCandidates = n
	return p
}

// WithTemplateCrop returns a copy of params with a custom template crop.
func (p Params) WithTemplateCrop(r image.Rectangle) Params {
	p.TemplateCrop = r
	return p
}
