package intensity

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGrayRebases(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.Set(10, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g := ToGray(src)
	assert.Equal(t, image.Rect(0, 0, 4, 3), g.Bounds())
	assert.Equal(t, uint8(255), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(1, 0).Y)

	same := image.NewGray(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, ToGray(same))
}

func TestCrop(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	c := Crop(src, image.Rect(1, 2, 4, 4))
	require.Equal(t, image.Rect(0, 0, 3, 2), c.Bounds())
	assert.Equal(t, []uint8{11, 12, 13, 16, 17, 18}, c.Pix)

	c.Pix[0] = 99
	assert.Equal(t, uint8(11), src.Pix[11])

	outside := Crop(src, image.Rect(3, 3, 9, 9))
	assert.Equal(t, image.Rect(0, 0, 2, 2), outside.Bounds())
}

func TestRescaleIntensity(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{50, 100, 150}

	got := RescaleIntensity(src)
	assert.Equal(t, []uint8{0, 128, 255}, got.Pix)

	flat := image.NewGray(image.Rect(0, 0, 2, 1))
	flat.Pix = []uint8{7, 7}
	assert.Equal(t, []uint8{7, 7}, RescaleIntensity(flat).Pix)
}

func TestFlatten(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.Pix = []uint8{1, 2, 3, 4}
	assert.Equal(t, []float64{1, 2, 3, 4}, Flatten(src))
}
