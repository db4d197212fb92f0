// Package geom defines the shared 2D path types and numeric helpers used by
// every stage of the fabrication pipeline. Coordinates are plain plane
// coordinates in whatever unit the stage operates in (pixels upstream of
// meshing, millimeters afterwards).
package geom

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Eps is the shared epsilon below which lengths and distances are treated
// as zero.
const Eps = 1e-9

// Path is an ordered sequence of 2D points. A path may be open or closed;
// a closed path repeats its first point as its last.
type Path []v2.Vec

// Closed reports whether the path explicitly closes on itself.
func (p Path) Closed() bool {
	if len(p) < 3 {
		return false
	}
	return p[0].Equals(p[len(p)-1], Eps)
}

// Length returns the sum of consecutive point-to-point Euclidean distances.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Sub(p[i-1]).Length()
	}
	return total
}

// Dedupe returns the path with consecutive points closer than eps collapsed
// to one. Geometric operations that divide by segment length require this.
// The input is not modified.
func (p Path) Dedupe(eps float64) Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, 0, len(p))
	out = append(out, p[0])
	for _, pt := range p[1:] {
		if pt.Sub(out[len(out)-1]).Length() > eps {
			out = append(out, pt)
		}
	}
	return out
}

// PerpDistance returns the perpendicular distance from p to the infinite
// line through a and b. When a and b coincide (chord shorter than Eps) it
// falls back to the Euclidean distance from p to a.
func PerpDistance(p, a, b v2.Vec) float64 {
	chord := b.Sub(a)
	length := chord.Length()
	if length < Eps {
		return p.Sub(a).Length()
	}
	// |cross| / |chord| is the height of the parallelogram spanned by the
	// chord and the point offset.
	return abs(chord.Cross(p.Sub(a))) / length
}

// Lerp linearly interpolates between a and b at parameter t.
func Lerp(a, b v2.Vec, t float64) v2.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
