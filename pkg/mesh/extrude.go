package mesh

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/triangulate"
)

// Extrude lifts closed 2D loops into a solid of the given depth: side walls
// along every loop plus top and bottom caps produced by the triangulator.
// The solid spans z in [0, depth]. Loops are deduped before walls are
// emitted so zero-length segments never produce degenerate wall quads.
func Extrude(loops []geom.Path, depth float64, tri triangulate.Triangulator) (*Mesh, error) {
	m := &Mesh{}

	for _, loop := range loops {
		p := loop.Dedupe(geom.Eps)
		if len(p) < 3 {
			continue
		}
		// Ensure the loop explicitly closes so the wall ring does.
		if !p[0].Equals(p[len(p)-1], geom.Eps) {
			p = append(p, p[0])
		}
		outwardRight := signedLoopArea(p) > 0
		for i := 1; i < len(p); i++ {
			addWall(m, p[i-1], p[i], depth, outwardRight)
		}
	}

	caps, err := tri.Triangulate(loops)
	if err != nil {
		return nil, fmt.Errorf("extrude caps: %w", err)
	}
	for _, c := range caps {
		bot := [3]v3.Vec{lift(c[0], 0), lift(c[1], 0), lift(c[2], 0)}
		top := [3]v3.Vec{lift(c[0], depth), lift(c[1], depth), lift(c[2], depth)}
		// Cap triangles arrive with arbitrary winding; orient the top
		// toward +z and the bottom toward -z.
		if FaceNormal(top[0], top[1], top[2]).Z >= 0 {
			m.Add(top[0], top[1], top[2], v3.Vec{Z: 1})
			m.Add(bot[0], bot[2], bot[1], v3.Vec{Z: -1})
		} else {
			m.Add(top[0], top[2], top[1], v3.Vec{Z: 1})
			m.Add(bot[0], bot[1], bot[2], v3.Vec{Z: -1})
		}
	}
	return m, nil
}

// addWall emits one side-wall quad for the segment a->b. For a
// counter-clockwise loop the outward direction is to the right of travel.
func addWall(m *Mesh, a, b v2.Vec, depth float64, outwardRight bool) {
	d := b.Sub(a)
	length := d.Length()
	if length < geom.Eps {
		return
	}
	dir := d.DivScalar(length)
	n := v3.Vec{X: dir.Y, Y: -dir.X}
	if !outwardRight {
		n = n.Neg()
	}

	a0 := lift(a, 0)
	b0 := lift(b, 0)
	a1 := lift(a, depth)
	b1 := lift(b, depth)
	if outwardRight {
		m.AddQuad(a0, b0, b1, a1, n)
	} else {
		m.AddQuad(b0, a0, a1, b1, n)
	}
}

// lift embeds a 2D point at height z.
func lift(p v2.Vec, z float64) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: z}
}

// signedLoopArea is positive for counter-clockwise loops. The closing
// duplicate point contributes nothing.
func signedLoopArea(p geom.Path) float64 {
	area := 0.0
	for i := 1; i < len(p); i++ {
		area += p[i-1].Cross(p[i])
	}
	return area / 2
}
