// Package mesh synthesizes triangle sets for fabrication: plate primitives,
// hole-wall tubes, closed-contour extrusions and heightfield reliefs. All
// solids close the six logical faces of their bounding volume so slicers
// read them as solid; hole tubes are deliberately open (see HoleWalls).
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/marbeck/relievo/pkg/geom"
)

// Triangle is three ordered vertices plus a unit outward normal. The
// winding v1->v2->v3 matches the normal under the right-hand rule.
type Triangle struct {
	V1, V2, V3 v3.Vec
	Normal     v3.Vec
}

// Mesh is an ordered collection of self-contained triangles; no vertex
// sharing or indexing is maintained.
type Mesh struct {
	Triangles []Triangle
}

// Len returns the triangle count.
func (m *Mesh) Len() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Add appends a triangle with an explicit normal.
func (m *Mesh) Add(v1, v2, v3t, normal v3.Vec) {
	m.Triangles = append(m.Triangles, Triangle{V1: v1, V2: v2, V3: v3t, Normal: normal})
}

// AddTri appends a triangle, computing its normal from the winding.
func (m *Mesh) AddTri(v1, v2, v3t v3.Vec) {
	m.Add(v1, v2, v3t, FaceNormal(v1, v2, v3t))
}

// AddQuad appends the quad a,b,c,d (counter-clockwise viewed from the
// normal side) as two triangles sharing the a-c diagonal.
func (m *Mesh) AddQuad(a, b, c, d, normal v3.Vec) {
	m.Add(a, b, c, normal)
	m.Add(a, c, d, normal)
}

// Append copies all triangles of other onto m.
func (m *Mesh) Append(other *Mesh) {
	m.Triangles = append(m.Triangles, other.Triangles...)
}

// FaceNormal returns the unit normal of the triangle v1,v2,v3 under the
// right-hand rule. Degenerate (near-zero-area) triangles yield the zero
// vector, never NaN.
func FaceNormal(v1, v2, v3t v3.Vec) v3.Vec {
	n := v2.Sub(v1).Cross(v3t.Sub(v1))
	if n.Length() < geom.Eps {
		return v3.Vec{}
	}
	return n.Normalize()
}
