package dice

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
)

// SelectRegions reduces the regions found in a viewport to the ones that
// best look like a line of params.DiceCount equally sized, evenly spaced
// dice. Fewer regions than that are returned as they are.
func SelectRegions(ctx context.Context, regions []Region, params Params) ([]Region, error) {
	candidates := FilterShapes(regions, params)
	candidates = RemoveOverlapping(candidates)
	return SquaresInALine(ctx, candidates, params.DiceCount, params.MaxCandidates)
}

// FilterShapes keeps regions whose pixel area and aspect ratio fall strictly
// inside the configured ranges.
func FilterShapes(regions []Region, params Params) []Region {
	var kept []Region
	for _, r := range regions {
		if !r.Valid() {
			continue
		}
		if r.Area <= params.MinArea || r.Area >= params.MaxArea {
			continue
		}
		ar := r.AspectRatio()
		if ar <= params.MinAspect || ar >= params.MaxAspect {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// RemoveOverlapping drops double detections of the same die, such as the
// inner and outer contour of one face.
//
// Regions are visited smallest bounding box first. A region is rejected when
// its overlap with any region already kept exceeds half of its own box area.
// The threshold is always taken from the region under test, so a small
// region kept earlier never causes a larger one to be dropped unless the
// overlap covers more than half of the larger box. Two overlapping regions
// can therefore both survive.
func RemoveOverlapping(regions []Region) []Region {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Area() < sorted[j].BBox.Area()
	})

	var kept []Region
	for _, r := range sorted {
		limit := float64(r.BBox.Area()) / 2.0
		overlapping := false
		for _, k := range kept {
			if float64(r.BBox.OverlapArea(k.BBox)) > limit {
				overlapping = true
				break
			}
		}
		if !overlapping {
			kept = append(kept, r)
		}
	}
	return kept
}

// SquaresInALine returns the n candidates that form the most regular line,
// sorted by bounding box. Every n-combination is scored by the variance of
// the box sizes plus the variance of the gaps between neighbours; the first
// combination with the lowest score wins. Combinations are enumerated in
// lexicographic order of candidate indices.
//
// The search is C(len(candidates), n); more than maxCandidates candidates
// fails with ErrTooManyCandidates. A maxCandidates of 0 disables the guard.
func SquaresInALine(ctx context.Context, candidates []Region, n, maxCandidates int) ([]Region, error) {
	if len(candidates) < n || n <= 0 {
		return candidates, nil
	}
	if len(candidates) == n {
		return sortByBBox(candidates), nil
	}
	if maxCandidates > 0 && len(candidates) > maxCandidates {
		return nil, fmt.Errorf("%w: %d candidates, limit %d", ErrTooManyCandidates, len(candidates), maxCandidates)
	}

	gen := combin.NewCombinationGenerator(len(candidates), n)
	idx := make([]int, n)
	combo := make([]Region, n)

	var best []Region
	bestScore := math.Inf(1)
	for count := 0; gen.Next(); count++ {
		if count%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		gen.Combination(idx)
		for i, j := range idx {
			combo[i] = candidates[j]
		}
		ordered := sortByBBox(combo)

		score := lineScore(ordered)
		if score < bestScore {
			bestScore = score
			best = ordered
		}
	}
	return best, nil
}

// lineScore is the sizing variance plus the spacing variance of regions
// already sorted by bounding box.
func lineScore(regions []Region) float64 {
	widths := make([]float64, len(regions))
	heights := make([]float64, len(regions))
	for i, r := range regions {
		widths[i] = float64(r.Width())
		heights[i] = float64(r.Height())
	}

	var colGaps, rowGaps []float64
	for i := 0; i+1 < len(regions); i++ {
		colGaps = append(colGaps, float64(regions[i+1].BBox.MinCol-regions[i].BBox.MinCol))
		rowGaps = append(rowGaps, float64(regions[i+1].BBox.MinRow-regions[i].BBox.MinRow))
	}

	sizing := popVariance(widths) + popVariance(heights)
	spacing := popVariance(colGaps) + popVariance(rowGaps)
	return sizing + spacing
}

// popVariance is the population variance, 0 for an empty sample.
func popVariance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.PopVariance(x, nil)
}

// sortByBBox returns a copy sorted by (MinRow, MinCol, MaxRow, MaxCol).
func sortByBBox(regions []Region) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BBox.Less(out[j].BBox)
	})
	return out
}

// sortByColumn orders regions left to right, keeping discovery order for
// regions that start in the same column.
func sortByColumn(regions []Region) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BBox.MinCol < out[j].BBox.MinCol
	})
	return out
}
