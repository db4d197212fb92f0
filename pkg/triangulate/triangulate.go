// Package triangulate turns closed 2D loops into triangle fans suitable for
// extrusion caps. The default implementation is a pure-Go ear clipper that
// handles each simple loop independently; the libtess subpackage provides a
// libtess2-backed implementation with even-odd winding across loop sets
// (holes) behind a build tag.
package triangulate

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
)

// Triangulator converts closed loops into 2D triangles.
type Triangulator interface {
	// Triangulate returns one triangle per output element. Loops with
	// fewer than three distinct points are skipped.
	Triangulate(loops []geom.Path) ([][3]v2.Vec, error)
}

// Compile-time interface check.
var _ Triangulator = (*EarClip)(nil)

// EarClip is the default pure-Go triangulator. Each loop is treated as a
// simple polygon: interior loops are capped like outer ones, so glyphs with
// holes should use the libtess backend instead.
type EarClip struct{}

// New returns a new EarClip triangulator.
func New() *EarClip {
	return &EarClip{}
}

// Triangulate ear-clips each loop independently and concatenates the
// results. Loops that fail to clip (self-intersecting input) contribute the
// triangles clipped so far rather than failing the whole set.
func (e *EarClip) Triangulate(loops []geom.Path) ([][3]v2.Vec, error) {
	var out [][3]v2.Vec
	for _, loop := range loops {
		tris, err := clipLoop(loop)
		if err != nil {
			return nil, fmt.Errorf("triangulate: %w", err)
		}
		out = append(out, tris...)
	}
	return out, nil
}

// clipLoop ear-clips one simple polygon.
func clipLoop(loop geom.Path) ([][3]v2.Vec, error) {
	poly := preparePolygon(loop)
	if len(poly) < 3 {
		return nil, nil
	}

	var tris [][3]v2.Vec
	// Clip ears until a single triangle remains. The guard counter stops
	// degenerate input (collinear or self-intersecting) from spinning.
	guard := len(poly) * len(poly)
	for len(poly) > 3 && guard > 0 {
		guard--
		clipped := false
		for i := range poly {
			if !isEar(poly, i) {
				continue
			}
			prev := poly[(i+len(poly)-1)%len(poly)]
			next := poly[(i+1)%len(poly)]
			tris = append(tris, [3]v2.Vec{prev, poly[i], next})
			poly = append(poly[:i], poly[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// No ear found: drop the most collinear vertex and retry.
			// Giving up entirely would lose the whole cap for one bad
			// vertex.
			poly = dropFlattest(poly)
		}
	}
	if len(poly) == 3 {
		tris = append(tris, [3]v2.Vec{poly[0], poly[1], poly[2]})
	}
	return tris, nil
}

// preparePolygon strips the closing duplicate point, dedupes, and orients
// the loop counter-clockwise.
func preparePolygon(loop geom.Path) []v2.Vec {
	p := loop.Dedupe(geom.Eps)
	if len(p) > 1 && p[0].Equals(p[len(p)-1], geom.Eps) {
		p = p[:len(p)-1]
	}
	if len(p) < 3 {
		return nil
	}
	if signedArea(p) < 0 {
		rev := make([]v2.Vec, len(p))
		for i := range p {
			rev[i] = p[len(p)-1-i]
		}
		p = rev
	}
	return p
}

// signedArea is positive for counter-clockwise loops.
func signedArea(p []v2.Vec) float64 {
	area := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		area += p[i].Cross(p[j])
	}
	return area / 2
}

// isEar reports whether vertex i is convex and its triangle contains no
// other polygon vertex.
func isEar(poly []v2.Vec, i int) bool {
	n := len(poly)
	a := poly[(i+n-1)%n]
	b := poly[i]
	c := poly[(i+1)%n]

	// Convex test for a CCW polygon.
	if b.Sub(a).Cross(c.Sub(b)) <= geom.Eps {
		return false
	}
	for j := 0; j < n; j++ {
		if j == i || j == (i+n-1)%n || j == (i+1)%n {
			continue
		}
		if pointInTriangle(poly[j], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle tests containment including edges.
func pointInTriangle(p, a, b, c v2.Vec) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	hasNeg := d1 < -geom.Eps || d2 < -geom.Eps || d3 < -geom.Eps
	hasPos := d1 > geom.Eps || d2 > geom.Eps || d3 > geom.Eps
	return !(hasNeg && hasPos)
}

// dropFlattest removes the vertex whose corner is closest to a straight
// line, unsticking the clip loop on near-degenerate input.
func dropFlattest(poly []v2.Vec) []v2.Vec {
	n := len(poly)
	best := 0
	bestCross := 0.0
	for i := 0; i < n; i++ {
		a := poly[(i+n-1)%n]
		b := poly[i]
		c := poly[(i+1)%n]
		cr := b.Sub(a).Cross(c.Sub(b))
		if cr < 0 {
			cr = -cr
		}
		if i == 0 || cr < bestCross {
			best = i
			bestCross = cr
		}
	}
	return append(poly[:best], poly[best+1:]...)
}
