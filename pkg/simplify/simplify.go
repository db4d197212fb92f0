// Package simplify implements Douglas-Peucker polyline reduction. The
// simplified path keeps a subset of the input points (never synthesizing or
// moving any) and deviates from the input by at most the given tolerance.
package simplify

import (
	"github.com/marbeck/relievo/pkg/geom"
)

// Simplify reduces points to the minimal subset whose polyline stays within
// tolerance of the original. The first and last input points are always
// preserved. Negative tolerances behave as zero. The input is not modified.
//
// Recursion operates on index ranges into the input slice, so no sub-slice
// copies are made; depth is bounded by the input length.
func Simplify(points geom.Path, tolerance float64) geom.Path {
	if len(points) < 3 {
		out := make(geom.Path, len(points))
		copy(out, points)
		return out
	}
	if tolerance < 0 {
		tolerance = 0
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	mark(points, 0, len(points)-1, tolerance, keep)

	out := make(geom.Path, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// mark flags the points to keep between indices first and last (exclusive).
// It finds the point farthest from the chord points[first]..points[last];
// if that distance exceeds the tolerance the point is kept and both halves
// are processed, otherwise the whole run collapses onto the chord.
func mark(points geom.Path, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}

	maxDist := 0.0
	maxIdx := first
	a, b := points[first], points[last]
	for i := first + 1; i < last; i++ {
		if d := geom.PerpDistance(points[i], a, b); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist > tolerance {
		keep[maxIdx] = true
		mark(points, first, maxIdx, tolerance, keep)
		mark(points, maxIdx, last, tolerance, keep)
	}
}
