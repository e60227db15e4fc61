// Package dice reads the face values off a photograph of a handheld
// electronic dice game.
package dice

import (
	"strconv"

	"dice-reader/pkg/geometry"
)

// Region is a connected component found in an edge image.
type Region struct {
	BBox            geometry.BBox `json:"bbox"`
	Area            int           `json:"area"` // Pixel count of the component
	MajorAxisLength float64       `json:"major_axis_length"`
	MinorAxisLength float64       `json:"minor_axis_length"`
}

// Width returns the bounding box width.
func (r Region) Width() int { return r.BBox.Width() }

// Height returns the bounding box height.
func (r Region) Height() int { return r.BBox.Height() }

// AspectRatio returns the bounding box width/height.
func (r Region) AspectRatio() float64 { return r.BBox.AspectRatio() }

// Valid reports whether the region has a non-empty box and a positive area.
func (r Region) Valid() bool {
	return !r.BBox.Empty() && r.Area > 0
}

// Classification is the outcome of matching one die against the templates.
// Face is 0 when no template correlated positively.
type Classification struct {
	Face  int
	Score float64
}

// Matched reports whether a face was identified.
func (c Classification) Matched() bool {
	return c.Face >= 1 && c.Face <= Faces
}

// MarshalJSON encodes the face value, or null when unmatched.
func (c Classification) MarshalJSON() ([]byte, error) {
	if !c.Matched() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.Face)), nil
}

func (c Classification) String() string {
	if !c.Matched() {
		return "?"
	}
	return strconv.Itoa(c.Face)
}

// Result holds the dice read from one photo, left to right.
type Result struct {
	Dice    []Classification `json:"dice"`
	Regions []Region         `json:"-"` // Selected regions, same order as Dice
	Scores  [][Faces]float64 `json:"-"` // Per-face correlations, same order as Dice
}

// Faces returns the face values with 0 for unclassified positions.
func (r *Result) Faces() []int {
	faces := make([]int, len(r.Dice))
	for i, d := range r.Dice {
		faces[i] = d.Face
	}
	return faces
}

// Complete reports whether want dice were found and all were classified.
func (r *Result) Complete(want int) bool {
	if len(r.Dice) != want {
		return false
	}
	for _, d := range r.Dice {
		if !d.Matched() {
			return false
		}
	}
	return true
}
