package curve

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
)

// maxSplitDepth bounds recursive subdivision so pathological control points
// cannot recurse unboundedly. 2^16 segments is far beyond any fabrication
// tolerance.
const maxSplitDepth = 16

// SampleAdaptive flattens a command sequence like Sample, but subdivides
// Bezier segments until the control polygon deviates from the chord by at
// most tolerance, so flatness error is bounded instead of sample count.
// Line, arc and close handling is identical to Sample.
func SampleAdaptive(cmds []Cmd, tolerance float64) geom.Path {
	if tolerance <= 0 {
		tolerance = 0.1
	}

	var path geom.Path
	var cursor, start v2.Vec
	started := false

	for _, c := range cmds {
		if len(c.Args) < argCount[c.Op] {
			continue
		}

		switch c.Op {
		case OpMove:
			// Every Move starts a new subpath; Close returns to the
			// start of the current one.
			cursor = resolve(c, cursor, 0, 1)
			start = cursor
			started = true
			path = append(path, cursor)

		case OpLine:
			cursor = resolve(c, cursor, 0, 1)
			path = append(path, cursor)

		case OpHLine:
			x := c.Args[0]
			if c.Rel {
				x += cursor.X
			}
			cursor = v2.Vec{X: x, Y: cursor.Y}
			path = append(path, cursor)

		case OpVLine:
			y := c.Args[0]
			if c.Rel {
				y += cursor.Y
			}
			cursor = v2.Vec{X: cursor.X, Y: y}
			path = append(path, cursor)

		case OpQuad:
			ctrl := resolve(c, cursor, 0, 1)
			end := resolve(c, cursor, 2, 3)
			path = flattenQuad(path, cursor, ctrl, end, tolerance, 0)
			path = append(path, end)
			cursor = end

		case OpCubic:
			c1 := resolve(c, cursor, 0, 1)
			c2 := resolve(c, cursor, 2, 3)
			end := resolve(c, cursor, 4, 5)
			path = flattenCubic(path, cursor, c1, c2, end, tolerance, 0)
			path = append(path, end)
			cursor = end

		case OpArc:
			end := resolve(c, cursor, 5, 6)
			for i := 1; i <= arcSamples; i++ {
				t := float64(i) / float64(arcSamples)
				path = append(path, geom.Lerp(cursor, end, t))
			}
			cursor = end

		case OpClose:
			if started && cursor.Sub(start).Length() > geom.Eps {
				path = append(path, start)
				cursor = start
			}
		}
	}

	return path
}

// flattenQuad appends interior points of the quadratic Bezier (p0,p1,p2),
// excluding both endpoints, subdividing until the control point is within
// tolerance of the chord.
func flattenQuad(path geom.Path, p0, p1, p2 v2.Vec, tol float64, depth int) geom.Path {
	if depth >= maxSplitDepth || geom.PerpDistance(p1, p0, p2) <= tol {
		return path
	}
	// de Casteljau split at t=0.5.
	l1 := geom.Lerp(p0, p1, 0.5)
	r1 := geom.Lerp(p1, p2, 0.5)
	mid := geom.Lerp(l1, r1, 0.5)

	path = flattenQuad(path, p0, l1, mid, tol, depth+1)
	path = append(path, mid)
	return flattenQuad(path, mid, r1, p2, tol, depth+1)
}

// flattenCubic appends interior points of the cubic Bezier (p0,p1,p2,p3),
// excluding both endpoints, subdividing until both control points are within
// tolerance of the chord.
func flattenCubic(path geom.Path, p0, p1, p2, p3 v2.Vec, tol float64, depth int) geom.Path {
	if depth >= maxSplitDepth {
		return path
	}
	if geom.PerpDistance(p1, p0, p3) <= tol && geom.PerpDistance(p2, p0, p3) <= tol {
		return path
	}
	// de Casteljau split at t=0.5.
	l1 := geom.Lerp(p0, p1, 0.5)
	m := geom.Lerp(p1, p2, 0.5)
	r1 := geom.Lerp(p2, p3, 0.5)
	l2 := geom.Lerp(l1, m, 0.5)
	r2 := geom.Lerp(m, r1, 0.5)
	mid := geom.Lerp(l2, r2, 0.5)

	path = flattenCubic(path, p0, l1, l2, mid, tol, depth+1)
	path = append(path, mid)
	return flattenCubic(path, mid, r2, r1, p3, tol, depth+1)
}
