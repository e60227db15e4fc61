package vision

import (
	"fmt"
	"image"

	"dice-reader/internal/dice"

	"gocv.io/x/gocv"
)

// Preprocess equalises local contrast and reduces img to a single
// intensity channel. Colour images are equalised on the HSV value channel
// so hue is preserved before the grayscale conversion.
func Preprocess(img image.Image, params Params) (*image.Gray, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gray, err := preprocessMat(src, params)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	return matToGray(gray)
}

func preprocessMat(src gocv.Mat, params Params) (gocv.Mat, error) {
	tile := params.CLAHETileSize
	if tile < 1 {
		tile = 8
	}
	clahe := gocv.NewCLAHEWithParams(params.CLAHEClipLimit, image.Point{X: tile, Y: tile})
	defer clahe.Close()

	switch src.Channels() {
	case 1:
		dst := gocv.NewMat()
		clahe.Apply(src, &dst)
		return dst, nil

	case 3:
		hsv := gocv.NewMat()
		defer hsv.Close()
		gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

		channels := gocv.Split(hsv)
		defer func() {
			for _, c := range channels {
				c.Close()
			}
		}()

		value := gocv.NewMat()
		defer value.Close()
		clahe.Apply(channels[2], &value)
		value.CopyTo(&channels[2])

		gocv.Merge(channels, &hsv)

		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(hsv, &bgr, gocv.ColorHSVToBGR)

		dst := gocv.NewMat()
		gocv.CvtColor(bgr, &dst, gocv.ColorBGRToGray)
		return dst, nil

	default:
		return gocv.NewMat(), fmt.Errorf("%w: %d channels", dice.ErrUnsupportedImage, src.Channels())
	}
}
