package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBBoxMetrics(t *testing.T) {
	b := NewBBox(2, 3, 12, 23)
	assert.Equal(t, 20, b.Width())
	assert.Equal(t, 10, b.Height())
	assert.Equal(t, 200, b.Area())
	assert.InDelta(t, 2.0, b.AspectRatio(), 1e-9)
	assert.Equal(t, b, FromRect(b.Rect()))

	assert.Zero(t, BBox{}.AspectRatio())
	assert.True(t, BBox{}.Empty())
}

func TestBBoxOverlap(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(0, 0, 20, 20)
	c := NewBBox(5, 5, 15, 15)
	d := NewBBox(10, 10, 20, 20)

	assert.Equal(t, 100, a.OverlapArea(b))
	assert.Equal(t, 25, a.OverlapArea(c))
	assert.Zero(t, a.OverlapArea(d), "touching edges do not overlap")
	assert.Equal(t, BBox{}, a.Intersect(d))
}

func TestBBoxBorder(t *testing.T) {
	assert.True(t, NewBBox(0, 5, 3, 8).TouchesBorder(10, 10))
	assert.True(t, NewBBox(5, 5, 10, 8).TouchesBorder(10, 10))
	assert.False(t, NewBBox(1, 1, 9, 9).TouchesBorder(10, 10))

	assert.True(t, NewBBox(0, 0, 10, 10).In(10, 10))
	assert.False(t, NewBBox(0, 0, 11, 10).In(10, 10))
}

func TestBBoxLess(t *testing.T) {
	assert.True(t, NewBBox(1, 9, 5, 15).Less(NewBBox(2, 0, 3, 3)))
	assert.True(t, NewBBox(1, 1, 5, 5).Less(NewBBox(1, 2, 5, 5)))
	assert.True(t, NewBBox(1, 1, 5, 5).Less(NewBBox(1, 1, 6, 5)))
	assert.True(t, NewBBox(1, 1, 5, 5).Less(NewBBox(1, 1, 5, 6)))
	assert.False(t, NewBBox(1, 1, 5, 5).Less(NewBBox(1, 1, 5, 5)))
}
