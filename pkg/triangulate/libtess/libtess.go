//go:build libtess2

// Package libtess provides a cap triangulator backed by the libtess2
// sweep-line tessellator (github.com/hajimehoshi/go-libtess2, cgo). Unlike
// the default ear clipper it handles loop sets with even-odd winding, so
// interior loops become holes rather than capped islands.
//
// Build with: go build -tags=libtess2
package libtess

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	libtess2 "github.com/hajimehoshi/go-libtess2"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/triangulate"
)

// Compile-time interface check.
var _ triangulate.Triangulator = (*Tess)(nil)

// Tess triangulates loop sets through libtess2.
type Tess struct{}

// New returns a libtess2-backed triangulator.
func New() (triangulate.Triangulator, error) {
	return &Tess{}, nil
}

// Triangulate feeds every loop as a contour and tessellates the set with
// even-odd winding.
func (t *Tess) Triangulate(loops []geom.Path) ([][3]v2.Vec, error) {
	tess := libtess2.NewTesselator()
	added := 0
	for _, loop := range loops {
		p := loop.Dedupe(geom.Eps)
		if len(p) > 1 && p[0].Equals(p[len(p)-1], geom.Eps) {
			p = p[:len(p)-1]
		}
		if len(p) < 3 {
			continue
		}
		contour := make([]libtess2.Vertex, len(p))
		for i, pt := range p {
			contour[i] = libtess2.Vertex{X: float32(pt.X), Y: float32(pt.Y)}
		}
		tess.AddContour(contour)
		added++
	}
	if added == 0 {
		return nil, nil
	}

	elements, vertices, err := tess.Tesselate()
	if err != nil {
		return nil, fmt.Errorf("libtess2: %w", err)
	}

	out := make([][3]v2.Vec, 0, len(elements)/3)
	for i := 0; i+2 < len(elements); i += 3 {
		var tri [3]v2.Vec
		for j := 0; j < 3; j++ {
			v := vertices[elements[i+j]]
			tri[j] = v2.Vec{X: float64(v.X), Y: float64(v.Y)}
		}
		out = append(out, tri)
	}
	return out, nil
}
