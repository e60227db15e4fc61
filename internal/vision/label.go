package vision

import (
	"fmt"
	"image"
	"math"

	"dice-reader/internal/dice"
	"dice-reader/pkg/geometry"

	"gocv.io/x/gocv"
)

// detectEdges smooths gray with a Gaussian of the given sigma and runs
// Canny edge detection. The returned Mat is 0/255 CV_8UC1.
func detectEdges(gray gocv.Mat, sigma float64, params Params) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	if sigma > 0 {
		// Zero kernel size lets OpenCV derive it from sigma
		gocv.GaussianBlur(gray, &blurred, image.Point{}, sigma, sigma, gocv.BorderReflect101)
	} else {
		gray.CopyTo(&blurred)
	}

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, params.CannyLow, params.CannyHigh)
	return edges
}

// labelRegions labels the connected components of a binary image and
// returns their geometric properties in label order. Components touching
// the image border are dropped, matching a border clear before labelling.
func labelRegions(binary gocv.Mat, params Params) ([]dice.Region, error) {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	conn := params.Connectivity
	if conn != 4 {
		conn = 8
	}
	n := gocv.ConnectedComponentsWithStatsWithParams(binary, &labels, &stats, &centroids,
		conn, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)
	if n <= 1 {
		return nil, nil
	}

	rows, cols := binary.Rows(), binary.Cols()
	moments, err := secondMoments(labels, n)
	if err != nil {
		return nil, err
	}

	var regions []dice.Region
	for label := 1; label < n; label++ {
		left := int(stats.GetIntAt(label, int(gocv.CC_STAT_LEFT)))
		top := int(stats.GetIntAt(label, int(gocv.CC_STAT_TOP)))
		width := int(stats.GetIntAt(label, int(gocv.CC_STAT_WIDTH)))
		height := int(stats.GetIntAt(label, int(gocv.CC_STAT_HEIGHT)))
		area := int(stats.GetIntAt(label, int(gocv.CC_STAT_AREA)))

		bbox := geometry.NewBBox(top, left, top+height, left+width)
		if bbox.TouchesBorder(rows, cols) {
			continue
		}

		major, minor := moments[label].axisLengths()
		regions = append(regions, dice.Region{
			BBox:            bbox,
			Area:            area,
			MajorAxisLength: major,
			MinorAxisLength: minor,
		})
	}
	return regions, nil
}

// moments accumulates raw pixel-coordinate sums for one component.
type moments struct {
	n             float64
	sx, sy        float64
	sxx, syy, sxy float64
}

// axisLengths returns the lengths of the major and minor axes of the
// ellipse with the same normalised second central moments as the component.
func (m moments) axisLengths() (major, minor float64) {
	if m.n == 0 {
		return 0, 0
	}
	mx, my := m.sx/m.n, m.sy/m.n
	a := m.sxx/m.n - mx*mx
	c := m.syy/m.n - my*my
	b := m.sxy/m.n - mx*my

	mid := (a + c) / 2
	d := math.Sqrt(((a-c)/2)*((a-c)/2) + b*b)
	l1, l2 := mid+d, mid-d
	return 4 * math.Sqrt(math.Max(l1, 0)), 4 * math.Sqrt(math.Max(l2, 0))
}

// secondMoments walks the label image once and accumulates moments for
// every label below n.
func secondMoments(labels gocv.Mat, n int) ([]moments, error) {
	data, err := labels.DataPtrInt32()
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	out := make([]moments, n)
	rows, cols := labels.Rows(), labels.Cols()
	for y := 0; y < rows; y++ {
		fy := float64(y)
		for x := 0; x < cols; x++ {
			l := data[y*cols+x]
			if l <= 0 || int(l) >= n {
				continue
			}
			fx := float64(x)
			m := &out[l]
			m.n++
			m.sx += fx
			m.sy += fy
			m.sxx += fx * fx
			m.syy += fy * fy
			m.sxy += fx * fy
		}
	}
	return out, nil
}
