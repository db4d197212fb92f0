// Package thin implements Zhang-Suen skeletonization: iterative two-pass
// boundary erosion that reduces a binary raster to an 8-connected skeleton
// at most one pixel wide, without breaking the connectivity of any
// foreground component.
package thin

import (
	"github.com/marbeck/relievo/pkg/raster"
)

// Thin returns the topological skeleton of img, same dimensions. The input
// is not modified.
//
// A foreground pixel is removed in a sub-iteration when
//
//	(a) its 8-neighbor count lies in [2,6],
//	(b) walking its ordered neighbors P2..P9,P2 sees exactly one 0->1
//	    transition, and
//	(c) the sub-iteration's directional products are zero:
//	    pass 1: P2*P4*P6 == 0 and P4*P6*P8 == 0
//	    pass 2: P2*P4*P8 == 0 and P2*P6*P8 == 0.
//
// The two passes alternate so erosion stays symmetric; iteration stops at a
// fixed point.
func Thin(img *raster.BinaryImage) *raster.BinaryImage {
	skel := img.Clone()
	if skel.W == 0 || skel.H == 0 {
		return skel
	}

	for {
		removed := subIteration(skel, true)
		removed += subIteration(skel, false)
		if removed == 0 {
			return skel
		}
	}
}

// subIteration collects all removable pixels for one pass, then clears them
// together. The collect-then-clear split is what makes the erosion
// parallel-style: removals within a pass do not influence each other.
func subIteration(img *raster.BinaryImage, first bool) int {
	type px struct{ x, y int }
	var doomed []px

	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			if img.At(x, y) == 0 {
				continue
			}
			p2 := img.At(x, y-1)
			p3 := img.At(x+1, y-1)
			p4 := img.At(x+1, y)
			p5 := img.At(x+1, y+1)
			p6 := img.At(x, y+1)
			p7 := img.At(x-1, y+1)
			p8 := img.At(x-1, y)
			p9 := img.At(x-1, y-1)

			n := int(p2) + int(p3) + int(p4) + int(p5) +
				int(p6) + int(p7) + int(p8) + int(p9)
			if n < 2 || n > 6 {
				continue
			}
			if transitions(p2, p3, p4, p5, p6, p7, p8, p9) != 1 {
				continue
			}
			if first {
				if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
					continue
				}
			} else {
				if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
					continue
				}
			}
			doomed = append(doomed, px{x, y})
		}
	}

	for _, p := range doomed {
		img.Set(p.x, p.y, 0)
	}
	return len(doomed)
}

// transitions counts 0->1 steps walking P2,P3,...,P9,P2.
func transitions(ps ...uint8) int {
	count := 0
	for i := range ps {
		if ps[i] == 0 && ps[(i+1)%len(ps)] == 1 {
			count++
		}
	}
	return count
}
