package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/marbeck/relievo/pkg/raster"
)

// Frame describes the optional rectangular border emitted around a
// heightfield: a raised ring of the given in-plane thickness and depth,
// extending outward from the surface perimeter.
type Frame struct {
	Enabled   bool
	Thickness float64
	Depth     float64
}

// Heightfield meshes a scalar depth grid into a solid relief surface of the
// given physical width and height, centered on the origin. Grid samples are
// surface nodes: each grid cell becomes one front quad at the sampled
// depths, the back is a flat plane at z=0, and the four perimeter edges are
// stitched with vertical side walls. Grids smaller than 2x2 produce an
// empty mesh.
func Heightfield(g *raster.Grid, width, height float64, frame Frame) *Mesh {
	m := &Mesh{}
	if g.W < 2 || g.H < 2 {
		return m
	}

	dx := width / float64(g.W-1)
	dy := height / float64(g.H-1)
	px := func(x int) float64 { return -width/2 + float64(x)*dx }
	py := func(y int) float64 { return -height/2 + float64(y)*dy }

	// Front surface: one quad per cell, split along the cell diagonal;
	// normals follow the sloped winding.
	for y := 0; y < g.H-1; y++ {
		for x := 0; x < g.W-1; x++ {
			v00 := v3.Vec{X: px(x), Y: py(y), Z: g.At(x, y)}
			v10 := v3.Vec{X: px(x + 1), Y: py(y), Z: g.At(x+1, y)}
			v11 := v3.Vec{X: px(x + 1), Y: py(y + 1), Z: g.At(x+1, y+1)}
			v01 := v3.Vec{X: px(x), Y: py(y + 1), Z: g.At(x, y+1)}
			m.AddTri(v00, v10, v11)
			m.AddTri(v00, v11, v01)
		}
	}

	// Back plane, one quad, facing -z.
	hw, hh := width/2, height/2
	m.AddQuad(
		v3.Vec{X: -hw, Y: -hh}, v3.Vec{X: -hw, Y: hh},
		v3.Vec{X: hw, Y: hh}, v3.Vec{X: hw, Y: -hh},
		v3.Vec{Z: -1})

	// Perimeter side walls, one quad per boundary cell edge, connecting
	// the front edge heights down to the back plane.
	for x := 0; x < g.W-1; x++ {
		// South edge (y = -hh), outward -y.
		a := v3.Vec{X: px(x), Y: -hh}
		b := v3.Vec{X: px(x + 1), Y: -hh}
		m.AddQuad(a, b,
			v3.Vec{X: b.X, Y: -hh, Z: g.At(x+1, 0)},
			v3.Vec{X: a.X, Y: -hh, Z: g.At(x, 0)},
			v3.Vec{Y: -1})
		// North edge (y = +hh), outward +y.
		a = v3.Vec{X: px(x + 1), Y: hh}
		b = v3.Vec{X: px(x), Y: hh}
		m.AddQuad(a, b,
			v3.Vec{X: b.X, Y: hh, Z: g.At(x, g.H-1)},
			v3.Vec{X: a.X, Y: hh, Z: g.At(x+1, g.H-1)},
			v3.Vec{Y: 1})
	}
	for y := 0; y < g.H-1; y++ {
		// West edge (x = -hw), outward -x.
		a := v3.Vec{X: -hw, Y: py(y + 1)}
		b := v3.Vec{X: -hw, Y: py(y)}
		m.AddQuad(a, b,
			v3.Vec{X: -hw, Y: b.Y, Z: g.At(0, y)},
			v3.Vec{X: -hw, Y: a.Y, Z: g.At(0, y+1)},
			v3.Vec{X: -1})
		// East edge (x = +hw), outward +x.
		a = v3.Vec{X: hw, Y: py(y)}
		b = v3.Vec{X: hw, Y: py(y + 1)}
		m.AddQuad(a, b,
			v3.Vec{X: hw, Y: b.Y, Z: g.At(g.W-1, y+1)},
			v3.Vec{X: hw, Y: a.Y, Z: g.At(g.W-1, y)},
			v3.Vec{X: 1})
	}

	if frame.Enabled && frame.Thickness > 0 && frame.Depth > 0 {
		addFrame(m, width, height, frame)
	}
	return m
}

// addFrame emits four closed bars forming a rectangular ring around the
// surface perimeter. Bar inner faces coincide with the heightfield side
// walls, which keeps the geometry simple at the cost of manifoldness,
// matching the hole-wall approach.
func addFrame(m *Mesh, width, height float64, f Frame) {
	hw, hh := width/2, height/2
	ft := f.Thickness

	// South and north bars span the full outer width.
	addBar(m, -hw-ft, -hh-ft, hw+ft, -hh, f.Depth)
	addBar(m, -hw-ft, hh, hw+ft, hh+ft, f.Depth)
	// West and east bars fill between them.
	addBar(m, -hw-ft, -hh, -hw, hh, f.Depth)
	addBar(m, hw, -hh, hw+ft, hh, f.Depth)
}

// addBar emits a closed axis-aligned box spanning [x0,x1] x [y0,y1] x [0,d].
func addBar(m *Mesh, x0, y0, x1, y1, d float64) {
	bar := BoxPlate(x1-x0, y1-y0, d)
	cx, cy := (x0+x1)/2, (y0+y1)/2
	for _, t := range bar.Triangles {
		m.Add(
			translate(t.V1, cx, cy),
			translate(t.V2, cx, cy),
			translate(t.V3, cx, cy),
			t.Normal)
	}
}

func translate(v v3.Vec, dx, dy float64) v3.Vec {
	return v3.Vec{X: v.X + dx, Y: v.Y + dy, Z: v.Z}
}
