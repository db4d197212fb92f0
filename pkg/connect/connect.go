// Package connect joins an ordered list of disjoint stroke paths into
// minimal continuous paths. Neighboring endpoints within a gap threshold are
// bridged with a short cubic Bezier so a pen or nozzle can traverse an
// entire feature without lifting.
package connect

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/simplify"
)

// bridgeSamples is the number of points each Bezier bridge is sampled into
// before simplification.
const bridgeSamples = 10

// bridgeBulge is the perpendicular control-point offset as a fraction of
// the chord length. The slight bow hides the visual seam a straight bridge
// would leave.
const bridgeBulge = 0.2

// Result bundles the connector's outputs.
type Result struct {
	// Paths holds the continuous output paths, in input order.
	Paths []geom.Path `json:"paths"`
	// Connections is the number of bridges inserted.
	Connections int `json:"connections"`
	// TotalLength is the summed polyline length of all output paths.
	TotalLength float64 `json:"totalLength"`
	// OriginalCount is the number of input paths.
	OriginalCount int `json:"originalCount"`
	// ConnectedCount is the number of output paths.
	ConnectedCount int `json:"connectedCount"`
}

// Connect processes paths in source order (reading order) and merges runs
// of paths whose facing endpoints are within maxGap of each other. Each
// merge inserts a sampled, simplified Bezier bridge between the current
// accumulated path's last point and the next path's first point. Paths
// farther apart start a new output path. Empty input paths are skipped.
func Connect(paths []geom.Path, maxGap, simplifyTol float64) Result {
	res := Result{
		Paths:         []geom.Path{},
		OriginalCount: len(paths),
	}

	var current geom.Path
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		if current == nil {
			current = append(geom.Path{}, p...)
			continue
		}

		last := current[len(current)-1]
		first := p[0]
		if first.Sub(last).Length() <= maxGap {
			bridge := bridgePath(last, first)
			bridge = simplify.Simplify(bridge, simplifyTol)
			// Drop the bridge's endpoints: the first repeats the
			// accumulator's last point, the last repeats the next
			// path's first. Keeping either would leave coincident
			// consecutive points in the output.
			current = append(current, bridge[1:len(bridge)-1]...)
			current = append(current, p...)
			res.Connections++
		} else {
			res.Paths = append(res.Paths, current)
			current = append(geom.Path{}, p...)
		}
	}
	if current != nil {
		res.Paths = append(res.Paths, current)
	}

	res.ConnectedCount = len(res.Paths)
	for _, p := range res.Paths {
		res.TotalLength += p.Length()
	}
	return res
}

// bridgePath samples a cubic Bezier from a to b whose control points sit
// perpendicular to the chord at 20% of its length, giving the bridge a
// gentle bow.
func bridgePath(a, b v2.Vec) geom.Path {
	chord := b.Sub(a)
	length := chord.Length()
	if length < geom.Eps {
		return geom.Path{a, b}
	}
	// Unit perpendicular (rotate the chord direction 90 degrees).
	dir := chord.DivScalar(length)
	perp := v2.Vec{X: -dir.Y, Y: dir.X}
	offset := perp.MulScalar(length * bridgeBulge)

	c1 := geom.Lerp(a, b, 1.0/3.0).Add(offset)
	c2 := geom.Lerp(a, b, 2.0/3.0).Add(offset)

	bridge := make(geom.Path, 0, bridgeSamples+1)
	for i := 0; i <= bridgeSamples; i++ {
		t := float64(i) / float64(bridgeSamples)
		u := 1 - t
		pt := a.MulScalar(u * u * u).
			Add(c1.MulScalar(3 * u * u * t)).
			Add(c2.MulScalar(3 * u * t * t)).
			Add(b.MulScalar(t * t * t))
		bridge = append(bridge, pt)
	}
	return bridge
}

// GroupByCount partitions paths into n nearly-equal contiguous groups by
// ceiling-division slicing. Grouping is positional, not content-aware: when
// sub-path counts are uneven across logical units the split can land inside
// a unit. Callers relying on grouping by glyph must pass per-glyph counts.
func GroupByCount(paths []geom.Path, n int) [][]geom.Path {
	if n <= 0 || len(paths) == 0 {
		return nil
	}
	if n > len(paths) {
		n = len(paths)
	}
	size := (len(paths) + n - 1) / n

	var groups [][]geom.Path
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		groups = append(groups, paths[start:end])
	}
	return groups
}
