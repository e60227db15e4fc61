package vision

import (
	"fmt"
	"image"
	"image/draw"

	"dice-reader/internal/dice"
	"dice-reader/pkg/intensity"

	"gocv.io/x/gocv"
)

// imageToMat converts a Go image to an OpenCV Mat. Grayscale images become
// single-channel Mats; everything else becomes 3-channel BGR.
func imageToMat(src image.Image) (gocv.Mat, error) {
	if src == nil || src.Bounds().Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty image", dice.ErrUnsupportedImage)
	}

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return grayToMat(intensity.ToGray(src))
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit to 8-bit, BGR order for OpenCV
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}

// grayToMat copies a grayscale image into a CV_8UC1 Mat.
func grayToMat(g *image.Gray) (gocv.Mat, error) {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	buf := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y)
		copy(buf[y*w:(y+1)*w], g.Pix[off:off+w])
	}
	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	// NewMatFromBytes shares buf; clone so the Mat owns its pixels.
	owned := mat.Clone()
	mat.Close()
	return owned, nil
}

// matToGray copies a single-channel Mat into a grayscale image.
func matToGray(mat gocv.Mat) (*image.Gray, error) {
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("%w: %d channels", dice.ErrUnsupportedImage, mat.Channels())
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	return intensity.ToGray(img), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropImage returns the part of src inside r, where r is relative to the
// top-left corner of src. The result shares pixels with src when possible.
func cropImage(src image.Image, r image.Rectangle) image.Image {
	r = r.Add(src.Bounds().Min).Intersect(src.Bounds())
	if s, ok := src.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}
