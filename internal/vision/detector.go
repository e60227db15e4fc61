// Package vision implements the OpenCV-backed image stages of the dice
// reader: contrast normalisation, display extraction and region labelling.
package vision

import (
	"fmt"
	"image"

	"dice-reader/internal/dice"
)

// Detector implements dice.Vision with gocv. Every call allocates and
// releases its own Mats, so a Detector is safe for concurrent use.
type Detector struct {
	params Params
}

var _ dice.Vision = (*Detector)(nil)

// NewDetector creates a detector with the given parameters.
func NewDetector(params Params) *Detector {
	return &Detector{params: params}
}

// Params returns the detector parameters.
func (d *Detector) Params() Params {
	return d.params
}

// Preprocess equalises contrast and converts img to grayscale.
func (d *Detector) Preprocess(img image.Image) (*image.Gray, error) {
	return Preprocess(img, d.params)
}

// ExtractViewport locates the device display as the largest edge component
// of proxy that does not touch the border, and crops photo to its bounding
// box. proxy must be the preprocessed copy of photo.
func (d *Detector) ExtractViewport(photo image.Image, proxy *image.Gray) (image.Image, error) {
	if proxy.Bounds().Size() != photo.Bounds().Size() {
		return nil, fmt.Errorf("proxy size %v does not match photo size %v",
			proxy.Bounds().Size(), photo.Bounds().Size())
	}

	regions, err := d.edgeRegions(proxy, d.params.ViewportSigma)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, dice.ErrNoViewportFound
	}

	largest := regions[0]
	for _, r := range regions[1:] {
		if r.Area > largest.Area {
			largest = r
		}
	}

	return cropImage(photo, largest.BBox.Rect()), nil
}

// DetectRegions returns every edge component of a preprocessed viewport
// that does not touch its border.
func (d *Detector) DetectRegions(viewport *image.Gray) ([]dice.Region, error) {
	return d.edgeRegions(viewport, d.params.RegionSigma)
}

func (d *Detector) edgeRegions(gray *image.Gray, sigma float64) ([]dice.Region, error) {
	mat, err := grayToMat(gray)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	edges := detectEdges(mat, sigma, d.params)
	defer edges.Close()

	return labelRegions(edges, d.params)
}
