package dice

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTemplates(t *testing.T) {
	c := NewClassifier(testTemplates(t))

	for n := 1; n <= Faces; n++ {
		got := c.Classify(face(n))
		assert.Equal(t, n, got.Face, "face %d", n)
		assert.InDelta(t, 1.0, got.Score, 1e-9)
	}
}

func TestClassifyResizedDie(t *testing.T) {
	c := NewClassifier(testTemplates(t))

	// Nearest-neighbour 2x upscale of face 4
	src := face(4)
	big := image.NewGray(image.Rect(0, 0, pipSize*2, pipSize*2))
	for y := 0; y < pipSize*2; y++ {
		for x := 0; x < pipSize*2; x++ {
			big.SetGray(x, y, src.GrayAt(x/2, y/2))
		}
	}

	got := c.Classify(big)
	assert.Equal(t, 4, got.Face)
	assert.Greater(t, got.Score, 0.9)
}

func TestClassifyUncorrelatedIsUnmatched(t *testing.T) {
	c := NewClassifier(testTemplates(t))

	blank := image.NewGray(image.Rect(0, 0, 30, 30))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(color.Gray{Y: 128}), image.Point{}, draw.Src)

	got := c.Classify(blank)
	assert.False(t, got.Matched())
	assert.Equal(t, 0, got.Face)
	assert.Zero(t, got.Score)
}

// inverseMeanFace is the photographic negative of the average face, which
// correlates negatively with every template.
func inverseMeanFace() *image.Gray {
	sum := make([]int, pipSize*pipSize)
	for n := 1; n <= Faces; n++ {
		for i, v := range face(n).Pix {
			sum[i] += int(v)
		}
	}
	img := image.NewGray(image.Rect(0, 0, pipSize, pipSize))
	for i, v := range sum {
		img.Pix[i] = uint8(255 - v/Faces)
	}
	return img
}

func TestClassifyAllNegativeIsUnmatched(t *testing.T) {
	c := NewClassifier(testTemplates(t))
	die := inverseMeanFace()

	for i, r := range c.Scores(die) {
		assert.Less(t, r, 0.0, "face %d", i+1)
	}

	got := c.Classify(die)
	assert.False(t, got.Matched())
	assert.Equal(t, 0, got.Face)
	assert.Zero(t, got.Score)
	assert.Equal(t, "?", got.String())
}

func TestClassifyEmptyImage(t *testing.T) {
	c := NewClassifier(testTemplates(t))
	assert.False(t, c.Classify(image.NewGray(image.Rect(0, 0, 0, 0))).Matched())
	assert.False(t, c.Classify(nil).Matched())
}

func TestClassifierScores(t *testing.T) {
	c := NewClassifier(testTemplates(t))

	scores := c.Scores(face(6))
	assert.InDelta(t, 1.0, scores[5], 1e-9)
	for i := 0; i < 5; i++ {
		assert.Less(t, scores[i], scores[5])
	}
}

func TestClassifierScoresEmptyImage(t *testing.T) {
	c := NewClassifier(testTemplates(t))

	for _, die := range []*image.Gray{nil, image.NewGray(image.Rectangle{})} {
		scores := c.Scores(die)
		for i, r := range scores {
			assert.True(t, math.IsNaN(r), "face %d", i+1)
		}
		assert.Equal(t, Classification{}, bestMatch(scores))
	}
}

func TestClassificationJSON(t *testing.T) {
	res := Result{Dice: []Classification{{Face: 3, Score: 0.8}, {}, {Face: 6, Score: 0.4}}}

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dice":[3,null,6]}`, string(b))
	assert.Equal(t, []int{3, 0, 6}, res.Faces())
	assert.False(t, res.Complete(3))
}
