package dice

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"dice-reader/pkg/geometry"

	"github.com/stretchr/testify/require"
)

const pipSize = 21

// pip centres as (row, col) inside a pipSize x pipSize face
var pipLayouts = map[int][][2]int{
	1: {{10, 10}},
	2: {{5, 5}, {15, 15}},
	3: {{5, 5}, {10, 10}, {15, 15}},
	4: {{5, 5}, {5, 15}, {15, 5}, {15, 15}},
	5: {{5, 5}, {5, 15}, {10, 10}, {15, 5}, {15, 15}},
	6: {{5, 5}, {5, 15}, {10, 5}, {10, 15}, {15, 5}, {15, 15}},
}

// face draws a white die face with square black pips.
func face(n int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, pipSize, pipSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	for _, c := range pipLayouts[n] {
		pip := image.Rect(c[1]-2, c[0]-2, c[1]+3, c[0]+3)
		draw.Draw(img, pip, image.NewUniform(color.Gray{Y: 0}), image.Point{}, draw.Src)
	}
	return img
}

func faceImages() map[int]*image.Gray {
	images := make(map[int]*image.Gray, Faces)
	for n := 1; n <= Faces; n++ {
		images[n] = face(n)
	}
	return images
}

func testTemplates(t *testing.T) *TemplateSet {
	t.Helper()
	ts, err := NewTemplateSet(faceImages())
	require.NoError(t, err)
	return ts
}

// square returns a valid region with a size x size box at (row, col).
func square(row, col, size int) Region {
	return Region{
		BBox:            geometry.NewBBox(row, col, row+size, col+size),
		Area:            300,
		MajorAxisLength: float64(size),
		MinorAxisLength: float64(size),
	}
}

func minCols(regions []Region) []int {
	cols := make([]int, len(regions))
	for i, r := range regions {
		cols[i] = r.BBox.MinCol
	}
	return cols
}
