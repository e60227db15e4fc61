// Package intensity provides helpers for single-channel intensity images.
package intensity

import (
	"image"
	"image/color"
	"image/draw"
)

// ToGray converts any image to an 8-bit grayscale image with its origin at (0, 0).
// Images that are already *image.Gray with a zero origin are returned unchanged.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Crop returns a copy of the rows/cols window r of src, rebased to (0, 0).
func Crop(src *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(src.Bounds())
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		srcOff := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+r.Dx()], src.Pix[srcOff:srcOff+r.Dx()])
	}
	return dst
}

// RescaleIntensity stretches the intensity range of src linearly so that its
// darkest pixel maps to 0 and its brightest to 255. A constant image is
// returned as an unchanged copy.
func RescaleIntensity(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := src.GrayAt(x, y).Y
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	span := float64(hi) - float64(lo)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			if span <= 0 {
				dst.SetGray(x, y, color.Gray{Y: v})
				continue
			}
			scaled := (float64(v) - float64(lo)) * 255.0 / span
			dst.SetGray(x, y, color.Gray{Y: uint8(scaled + 0.5)})
		}
	}
	return dst
}

// Flatten returns the pixels of src in row-major order as float64 values.
func Flatten(src *image.Gray) []float64 {
	b := src.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, float64(src.GrayAt(x, y).Y))
		}
	}
	return out
}
