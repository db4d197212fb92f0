// Package curve flattens parametric path commands (lines, quadratic and
// cubic Beziers, elliptical arcs) into ordered point sequences. It is the
// entry stage for glyph outlines and other vector input.
package curve

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
)

// Op identifies a path command.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpHLine
	OpVLine
	OpQuad  // control, end
	OpCubic // control1, control2, end
	OpArc   // rx, ry, rotation, large-arc, sweep, end
	OpClose
)

// argCount is the number of numeric operands each command requires.
var argCount = map[Op]int{
	OpMove:  2,
	OpLine:  2,
	OpHLine: 1,
	OpVLine: 1,
	OpQuad:  4,
	OpCubic: 6,
	OpArc:   7,
	OpClose: 0,
}

// Cmd is a single path command. Rel marks operands as offsets from the
// running cursor rather than absolute coordinates.
type Cmd struct {
	Op   Op
	Rel  bool
	Args []float64
}

// Sampling controls for the fixed-step sampler.
const (
	// minCurveSamples is the floor on samples per Bezier segment.
	minCurveSamples = 10
	// arcSamples is the fixed chord count used to approximate arcs.
	arcSamples = 20
)

// Sample flattens a command sequence into a single path using uniform
// parametric sampling. The resolution parameter scales the per-curve sample
// count; values at or below one fall back to the minimum of 10 samples per
// segment. Arc commands are approximated with 20 straight chords between the
// cursor and the arc endpoint, not true elliptical-arc interpolation.
// Commands with missing operands are skipped.
func Sample(cmds []Cmd, resolution float64) geom.Path {
	samples := int(float64(minCurveSamples) * resolution)
	if samples < minCurveSamples {
		samples = minCurveSamples
	}

	var path geom.Path
	var cursor, start v2.Vec
	started := false

	for _, c := range cmds {
		if len(c.Args) < argCount[c.Op] {
			// Malformed command: skip it and keep going. A dropped
			// segment beats aborting the whole outline.
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
			for i := 1; i <= samples; i++ {
				t := float64(i) / float64(samples)
				path = append(path, quadPoint(cursor, ctrl, end, t))
			}
			cursor = end

		case OpCubic:
			c1 := resolve(c, cursor, 0, 1)
			c2 := resolve(c, cursor, 2, 3)
			end := resolve(c, cursor, 4, 5)
			for i := 1; i <= samples; i++ {
				t := float64(i) / float64(samples)
				path = append(path, cubicPoint(cursor, c1, c2, end, t))
			}
			cursor = end

		case OpArc:
			// Chord approximation only; callers needing accurate arcs
			// must flatten upstream.
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

// resolve reads an (x, y) operand pair at the given argument indices,
// applying the cursor offset for relative commands.
func resolve(c Cmd, cursor v2.Vec, xi, yi int) v2.Vec {
	p := v2.Vec{X: c.Args[xi], Y: c.Args[yi]}
	if c.Rel {
		p = p.Add(cursor)
	}
	return p
}

// quadPoint evaluates a quadratic Bezier at t.
func quadPoint(p0, p1, p2 v2.Vec, t float64) v2.Vec {
	u := 1 - t
	a := p0.MulScalar(u * u)
	b := p1.MulScalar(2 * u * t)
	c := p2.MulScalar(t * t)
	return a.Add(b).Add(c)
}

// cubicPoint evaluates a cubic Bezier at t.
func cubicPoint(p0, p1, p2, p3 v2.Vec, t float64) v2.Vec {
	u := 1 - t
	a := p0.MulScalar(u * u * u)
	b := p1.MulScalar(3 * u * u * t)
	c := p2.MulScalar(3 * u * t * t)
	d := p3.MulScalar(t * t * t)
	return a.Add(b).Add(c).Add(d)
}
