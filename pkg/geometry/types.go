// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
)

// BBox is an axis-aligned bounding box in image row/column coordinates.
// Min is inclusive and Max is exclusive, so a single pixel at (r, c) has
// BBox{r, c, r+1, c+1}.
type BBox struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

// NewBBox creates a new BBox.
func NewBBox(minRow, minCol, maxRow, maxCol int) BBox {
	return BBox{MinRow: minRow, MinCol: minCol, MaxRow: maxRow, MaxCol: maxCol}
}

// FromRect converts an image.Rectangle (X = column, Y = row) to a BBox.
func FromRect(r image.Rectangle) BBox {
	return BBox{MinRow: r.Min.Y, MinCol: r.Min.X, MaxRow: r.Max.Y, MaxCol: r.Max.X}
}

// Rect returns the box as an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.MinCol, b.MinRow, b.MaxCol, b.MaxRow)
}

// Width returns the number of columns covered by the box.
func (b BBox) Width() int {
	return b.MaxCol - b.MinCol
}

// Height returns the number of rows covered by the box.
func (b BBox) Height() int {
	return b.MaxRow - b.MinRow
}

// Area returns Width*Height.
func (b BBox) Area() int {
	return b.Width() * b.Height()
}

// AspectRatio returns Width/Height, or 0 for a box with no height.
func (b BBox) AspectRatio() float64 {
	if b.Height() == 0 {
		return 0
	}
	return float64(b.Width()) / float64(b.Height())
}

// Empty reports whether the box covers no pixels.
func (b BBox) Empty() bool {
	return b.MinRow >= b.MaxRow || b.MinCol >= b.MaxCol
}

// Intersect returns the largest box contained by both boxes.
// The result is the zero BBox if they do not overlap.
func (b BBox) Intersect(other BBox) BBox {
	r := BBox{
		MinRow: max(b.MinRow, other.MinRow),
		MinCol: max(b.MinCol, other.MinCol),
		MaxRow: min(b.MaxRow, other.MaxRow),
		MaxCol: min(b.MaxCol, other.MaxCol),
	}
	if r.Empty() {
		return BBox{}
	}
	return r
}

// OverlapArea returns the area of the intersection of the two boxes.
func (b BBox) OverlapArea(other BBox) int {
	return b.Intersect(other).Area()
}

// In reports whether the box lies inside a rows x cols image.
func (b BBox) In(rows, cols int) bool {
	return b.MinRow >= 0 && b.MinCol >= 0 && b.MaxRow <= rows && b.MaxCol <= cols
}

// TouchesBorder reports whether the box reaches any edge of a rows x cols image.
func (b BBox) TouchesBorder(rows, cols int) bool {
	return b.MinRow <= 0 || b.MinCol <= 0 || b.MaxRow >= rows || b.MaxCol >= cols
}

// Less orders boxes by (MinRow, MinCol, MaxRow, MaxCol).
func (b BBox) Less(other BBox) bool {
	if b.MinRow != other.MinRow {
		return b.MinRow < other.MinRow
	}
	if b.MinCol != other.MinCol {
		return b.MinCol < other.MinCol
	}
	if b.MaxRow != other.MaxRow {
		return b.MaxRow < other.MaxRow
	}
	return b.MaxCol < other.MaxCol
}
