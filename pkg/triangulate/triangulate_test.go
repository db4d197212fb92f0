package triangulate_test

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/triangulate"
)

func triArea(t [3]v2.Vec) float64 {
	return math.Abs(t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))) / 2
}

func totalArea(tris [][3]v2.Vec) float64 {
	sum := 0.0
	for _, t := range tris {
		sum += triArea(t)
	}
	return sum
}

func TestEarClipSquare(t *testing.T) {
	square := geom.Path{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	tris, err := triangulate.New().Triangulate([]geom.Path{square})
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("square should clip to 2 triangles, got %d", len(tris))
	}
	if a := totalArea(tris); math.Abs(a-100) > 1e-9 {
		t.Errorf("expected area 100, got %v", a)
	}
}

func TestEarClipConcave(t *testing.T) {
	// L-shape: 6 vertices -> 4 triangles.
	l := geom.Path{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20},
	}
	tris, err := triangulate.New().Triangulate([]geom.Path{l})
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(tris) != 4 {
		t.Fatalf("L-shape should clip to 4 triangles, got %d", len(tris))
	}
	if a := totalArea(tris); math.Abs(a-300) > 1e-9 {
		t.Errorf("expected area 300, got %v", a)
	}
}

func TestEarClipClockwiseInput(t *testing.T) {
	// Winding direction of the input must not matter.
	cw := geom.Path{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
	}
	tris, err := triangulate.New().Triangulate([]geom.Path{cw})
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if a := totalArea(tris); math.Abs(a-100) > 1e-9 {
		t.Errorf("expected area 100, got %v", a)
	}
}

func TestEarClipClosedLoopInput(t *testing.T) {
	// Explicitly closed loops (first == last) are accepted.
	square := geom.Path{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0},
	}
	tris, err := triangulate.New().Triangulate([]geom.Path{square})
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(tris) != 2 {
		t.Errorf("closed square should clip to 2 triangles, got %d", len(tris))
	}
}

func TestEarClipDegenerateLoops(t *testing.T) {
	loops := []geom.Path{
		nil,
		{{X: 0, Y: 0}},
		{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}
	tris, err := triangulate.New().Triangulate(loops)
	if err != nil {
		t.Fatalf("degenerate loops should be skipped, got error: %v", err)
	}
	if len(tris) != 0 {
		t.Errorf("degenerate loops should yield no triangles, got %d", len(tris))
	}
}

func TestEarClipMultipleLoops(t *testing.T) {
	a := geom.Path{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	b := geom.Path{{X: 10, Y: 0}, {X: 13, Y: 0}, {X: 13, Y: 3}, {X: 10, Y: 3}}
	tris, err := triangulate.New().Triangulate([]geom.Path{a, b})
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(tris) != 4 {
		t.Errorf("two squares should clip to 4 triangles, got %d", len(tris))
	}
	if area := totalArea(tris); math.Abs(area-13) > 1e-9 {
		t.Errorf("expected combined area 13, got %v", area)
	}
}
