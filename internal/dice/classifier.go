package dice

import (
	"image"
	"math"

	"dice-reader/pkg/intensity"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"
)

// Classifier matches die images against the face templates.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	templates *TemplateSet
}

// NewClassifier creates a classifier over a loaded template set.
func NewClassifier(templates *TemplateSet) *Classifier {
	return &Classifier{templates: templates}
}

// Classify returns the face whose template has the highest Pearson
// correlation with die. Only a strictly positive correlation counts as a
// match; otherwise the result is unmatched with a zero score.
func (c *Classifier) Classify(die *image.Gray) Classification {
	return bestMatch(c.Scores(die))
}

// Scores returns the correlation of die with every template, indexed by
// face - 1. A constant image correlates with nothing and scores NaN, as
// does a nil or empty die.
func (c *Classifier) Scores(die *image.Gray) [Faces]float64 {
	var scores [Faces]float64
	if die == nil || die.Bounds().Empty() {
		for i := range scores {
			scores[i] = math.NaN()
		}
		return scores
	}
	for _, t := range c.templates.All() {
		x := intensity.Flatten(resizeGray(die, t.Image.Bounds()))
		scores[t.Face-1] = stat.Correlation(x, t.pixels, nil)
	}
	return scores
}

// bestMatch keeps the first face with the strictly highest positive score.
func bestMatch(scores [Faces]float64) Classification {
	best := Classification{}
	for i, r := range scores {
		if math.IsNaN(r) {
			continue
		}
		if r > best.Score {
			best = Classification{Face: i + 1, Score: r}
		}
	}
	return best
}

// resizeGray scales src to the size of bounds with bilinear interpolation.
func resizeGray(src *image.Gray, bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if src.Bounds().Size() == dst.Bounds().Size() {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
