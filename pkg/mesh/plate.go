package mesh

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Default wedge counts for circular geometry.
const (
	DefaultDiscSegments = 32
	DefaultHoleSegments = 16
)

// BoxPlate returns a rectangular plate of the given full width and height,
// centered on the origin in x/y, with z spanning [0, thickness]. All six
// faces are closed: exactly 12 triangles.
func BoxPlate(width, height, thickness float64) *Mesh {
	hw, hh := width/2, height/2
	t := thickness
	m := &Mesh{}

	// Bottom (z=0) and top (z=t).
	m.AddQuad(
		v3.Vec{X: -hw, Y: -hh}, v3.Vec{X: -hw, Y: hh},
		v3.Vec{X: hw, Y: hh}, v3.Vec{X: hw, Y: -hh},
		v3.Vec{Z: -1})
	m.AddQuad(
		v3.Vec{X: -hw, Y: -hh, Z: t}, v3.Vec{X: hw, Y: -hh, Z: t},
		v3.Vec{X: hw, Y: hh, Z: t}, v3.Vec{X: -hw, Y: hh, Z: t},
		v3.Vec{Z: 1})

	// Side walls.
	m.AddQuad(
		v3.Vec{X: -hw, Y: -hh}, v3.Vec{X: hw, Y: -hh},
		v3.Vec{X: hw, Y: -hh, Z: t}, v3.Vec{X: -hw, Y: -hh, Z: t},
		v3.Vec{Y: -1})
	m.AddQuad(
		v3.Vec{X: hw, Y: hh}, v3.Vec{X: -hw, Y: hh},
		v3.Vec{X: -hw, Y: hh, Z: t}, v3.Vec{X: hw, Y: hh, Z: t},
		v3.Vec{Y: 1})
	m.AddQuad(
		v3.Vec{X: -hw, Y: hh}, v3.Vec{X: -hw, Y: -hh},
		v3.Vec{X: -hw, Y: -hh, Z: t}, v3.Vec{X: -hw, Y: hh, Z: t},
		v3.Vec{X: -1})
	m.AddQuad(
		v3.Vec{X: hw, Y: -hh}, v3.Vec{X: hw, Y: hh},
		v3.Vec{X: hw, Y: hh, Z: t}, v3.Vec{X: hw, Y: -hh, Z: t},
		v3.Vec{X: 1})

	return m
}

// DiscPlate returns a circular plate of the given radius, centered on the
// origin, z spanning [0, thickness], approximated with the given number of
// radial wedges (DefaultDiscSegments when below 3). Triangle count is
// 4*segments: one top and one bottom fan triangle plus a two-triangle wall
// quad per wedge.
func DiscPlate(radius, thickness float64, segments int) *Mesh {
	if segments < 3 {
		segments = DefaultDiscSegments
	}
	t := thickness
	m := &Mesh{}

	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		am := (a0 + a1) / 2

		b0 := v3.Vec{X: radius * math.Cos(a0), Y: radius * math.Sin(a0)}
		b1 := v3.Vec{X: radius * math.Cos(a1), Y: radius * math.Sin(a1)}
		t0 := v3.Vec{X: b0.X, Y: b0.Y, Z: t}
		t1 := v3.Vec{X: b1.X, Y: b1.Y, Z: t}

		// Bottom fan (normal -z) and top fan (normal +z).
		m.Add(v3.Vec{}, b1, b0, v3.Vec{Z: -1})
		m.Add(v3.Vec{Z: t}, t0, t1, v3.Vec{Z: 1})

		// Wall quad with the outward radial normal at the wedge's
		// angular midpoint.
		n := v3.Vec{X: math.Cos(am), Y: math.Sin(am)}
		m.AddQuad(b0, b1, t1, t0, n)
	}
	return m
}

// HoleWalls returns an open-ended tube at (cx, cy) of the given radius,
// z spanning [0, thickness], with the given number of wall quads
// (DefaultHoleSegments when below 3). There are no caps: the tube overlays
// plate geometry and relies on the consumer to interpret the overlap as a
// cutout. The output is intentionally not manifold.
func HoleWalls(cx, cy, radius, thickness float64, segments int) *Mesh {
	if segments < 3 {
		segments = DefaultHoleSegments
	}
	t := thickness
	m := &Mesh{}

	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		am := (a0 + a1) / 2

		b0 := v3.Vec{X: cx + radius*math.Cos(a0), Y: cy + radius*math.Sin(a0)}
		b1 := v3.Vec{X: cx + radius*math.Cos(a1), Y: cy + radius*math.Sin(a1)}
		t0 := v3.Vec{X: b0.X, Y: b0.Y, Z: t}
		t1 := v3.Vec{X: b1.X, Y: b1.Y, Z: t}

		// Hole walls face the axis: the solid's outside is the inside
		// of the tube.
		n := v3.Vec{X: -math.Cos(am), Y: -math.Sin(am)}
		m.AddQuad(b1, b0, t0, t1, n)
	}
	return m
}

// HolePattern selects a hole layout policy.
type HolePattern int

const (
	HoleNone HolePattern = iota
	HoleCorners
	HoleGrid
	HolePerimeter
)

// String returns the policy name used in settings records.
func (p HolePattern) String() string {
	switch p {
	case HoleNone:
		return "none"
	case HoleCorners:
		return "corners"
	case HoleGrid:
		return "grid"
	case HolePerimeter:
		return "perimeter"
	default:
		return "unknown"
	}
}

// HoleCenters computes hole center positions for a width x height plate
// centered on the origin.
//
//	corners:   one hole inset from each corner (always 4 centers)
//	grid:      a lattice stepped by spacing inside the inset boundary
//	perimeter: holes spaced along all four edges; the vertical edges start
//	           one step in so corner positions are not duplicated
//
// Non-positive spacing is forced positive rather than rejected.
func HoleCenters(pattern HolePattern, width, height, inset, spacing float64) []v2.Vec {
	hw, hh := width/2, height/2
	x0, x1 := -hw+inset, hw-inset
	y0, y1 := -hh+inset, hh-inset
	if x0 > x1 || y0 > y1 {
		return nil
	}
	if spacing <= 0 {
		spacing = 10
	}

	switch pattern {
	case HoleCorners:
		return []v2.Vec{
			{X: x0, Y: y0}, {X: x1, Y: y0},
			{X: x0, Y: y1}, {X: x1, Y: y1},
		}

	case HoleGrid:
		var centers []v2.Vec
		for y := y0; y <= y1+1e-9; y += spacing {
			for x := x0; x <= x1+1e-9; x += spacing {
				centers = append(centers, v2.Vec{X: x, Y: y})
			}
		}
		return centers

	case HolePerimeter:
		var centers []v2.Vec
		// Horizontal edges, full span.
		for x := x0; x <= x1+1e-9; x += spacing {
			centers = append(centers, v2.Vec{X: x, Y: y0})
			if y1 > y0 {
				centers = append(centers, v2.Vec{X: x, Y: y1})
			}
		}
		// Vertical edges, starting one step in to skip the corners.
		for y := y0 + spacing; y <= y1-spacing+1e-9; y += spacing {
			centers = append(centers, v2.Vec{X: x0, Y: y})
			if x1 > x0 {
				centers = append(centers, v2.Vec{X: x1, Y: y})
			}
		}
		return centers

	default:
		return nil
	}
}
