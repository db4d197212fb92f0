package curve_test

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/curve"
	"github.com/marbeck/relievo/pkg/geom"
)

func TestSampleLines(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpLine, Args: []float64{10, 0}},
		{Op: curve.OpLine, Rel: true, Args: []float64{0, 5}},
		{Op: curve.OpHLine, Args: []float64{20}},
		{Op: curve.OpVLine, Rel: true, Args: []float64{-5}},
	}
	p := curve.Sample(cmds, 1)
	want := geom.Path{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 5},
		{X: 20, Y: 5},
		{X: 20, Y: 0},
	}
	if len(p) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(p), p)
	}
	for i := range want {
		if !p[i].Equals(want[i], 1e-12) {
			t.Errorf("point %d: expected %v, got %v", i, want[i], p[i])
		}
	}
}

func TestSampleClose(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{1, 2}},
		{Op: curve.OpLine, Args: []float64{5, 2}},
		{Op: curve.OpLine, Args: []float64{5, 6}},
		{Op: curve.OpClose},
	}
	p := curve.Sample(cmds, 1)
	if len(p) != 4 {
		t.Fatalf("expected 4 points, got %d", len(p))
	}
	if !p[len(p)-1].Equals(v2.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("close should return to the start point, got %v", p[len(p)-1])
	}

	// Close with no cursor drift appends nothing.
	cmds = append(cmds[:1], curve.Cmd{Op: curve.OpClose})
	p = curve.Sample(cmds, 1)
	if len(p) != 1 {
		t.Errorf("close at start should not duplicate the start, got %d points", len(p))
	}
}

func TestSampleClosePerSubpath(t *testing.T) {
	// Each Move starts a new subpath; a later Close must return to that
	// subpath's own start, not the first one's.
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpLine, Args: []float64{10, 0}},
		{Op: curve.OpClose},
		{Op: curve.OpMove, Args: []float64{100, 100}},
		{Op: curve.OpLine, Args: []float64{110, 100}},
		{Op: curve.OpClose},
	}
	p := curve.Sample(cmds, 1)
	want := geom.Path{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 0, Y: 0},
		{X: 100, Y: 100},
		{X: 110, Y: 100},
		{X: 100, Y: 100},
	}
	if len(p) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(p), p)
	}
	for i := range want {
		if !p[i].Equals(want[i], 1e-12) {
			t.Errorf("point %d: expected %v, got %v", i, want[i], p[i])
		}
	}

	if pa := curve.SampleAdaptive(cmds, 0.1); !pa[len(pa)-1].Equals(want[len(want)-1], 1e-12) {
		t.Errorf("adaptive close returned to %v, want %v", pa[len(pa)-1], want[len(want)-1])
	}
}

func TestSampleQuadEndpoints(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpQuad, Args: []float64{5, 10, 10, 0}},
	}
	p := curve.Sample(cmds, 1)
	// Move point plus exactly 10 curve samples.
	if len(p) != 11 {
		t.Fatalf("expected 11 points at minimum resolution, got %d", len(p))
	}
	end := p[len(p)-1]
	if !end.Equals(v2.Vec{X: 10, Y: 0}, 1e-12) {
		t.Errorf("curve should land on its endpoint, got %v", end)
	}
	// Apex of this symmetric quadratic is at (5, 5).
	mid := p[5]
	if math.Abs(mid.X-5) > 1e-12 || math.Abs(mid.Y-5) > 1e-12 {
		t.Errorf("expected apex (5,5), got %v", mid)
	}
}

func TestSampleResolutionScaling(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpCubic, Args: []float64{0, 10, 10, 10, 10, 0}},
	}
	coarse := curve.Sample(cmds, 1)
	fine := curve.Sample(cmds, 3)
	if len(fine) != 31 {
		t.Errorf("resolution 3 should yield 30 curve samples, got %d points", len(fine))
	}
	if len(coarse) >= len(fine) {
		t.Errorf("higher resolution should produce more samples: %d vs %d", len(coarse), len(fine))
	}
}

func TestSampleRelativeCubic(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{10, 10}},
		{Op: curve.OpCubic, Rel: true, Args: []float64{0, 5, 10, 5, 10, 0}},
	}
	p := curve.Sample(cmds, 1)
	end := p[len(p)-1]
	if !end.Equals(v2.Vec{X: 20, Y: 10}, 1e-12) {
		t.Errorf("relative cubic should end at (20,10), got %v", end)
	}
}

func TestSampleArcChords(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpArc, Args: []float64{5, 5, 0, 0, 1, 10, 0}},
	}
	p := curve.Sample(cmds, 1)
	if len(p) != 21 {
		t.Fatalf("arc should flatten to 20 chords, got %d points", len(p))
	}
	// The chord approximation is a straight line to the endpoint.
	for _, pt := range p {
		if math.Abs(pt.Y) > 1e-12 {
			t.Fatalf("chord samples should stay on y=0, got %v", pt)
		}
	}
}

func TestSampleSkipsMalformed(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpCubic, Args: []float64{1, 2}}, // missing operands
		{Op: curve.OpLine, Args: []float64{4, 4}},
	}
	p := curve.Sample(cmds, 1)
	if len(p) != 2 {
		t.Fatalf("malformed command should be skipped, got %d points", len(p))
	}
	if !p[1].Equals(v2.Vec{X: 4, Y: 4}, 1e-12) {
		t.Errorf("line after malformed command should still apply, got %v", p[1])
	}
}

func TestSampleAdaptiveDeviation(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpQuad, Args: []float64{50, 100, 100, 0}},
	}
	const tol = 0.25
	p := curve.SampleAdaptive(cmds, tol)
	if len(p) < 3 {
		t.Fatalf("adaptive sampling produced too few points: %d", len(p))
	}
	if !p[len(p)-1].Equals(v2.Vec{X: 100, Y: 0}, 1e-12) {
		t.Errorf("adaptive curve should land on its endpoint, got %v", p[len(p)-1])
	}
	// Every flattened chord must stay within tolerance of the true curve:
	// check the curve midpoint of each consecutive sample pair by dense
	// evaluation against the polyline.
	dense := curve.Sample(cmds, 20)
	for _, q := range dense {
		best := math.Inf(1)
		for i := 1; i < len(p); i++ {
			if d := geom.PerpDistance(q, p[i-1], p[i]); d < best {
				best = d
			}
		}
		if best > tol+1e-9 {
			t.Fatalf("point %v deviates %v from flattened polyline (tol %v)", q, best, tol)
		}
	}
}

func TestSampleAdaptiveLineOnlyMatchesFixed(t *testing.T) {
	cmds := []curve.Cmd{
		{Op: curve.OpMove, Args: []float64{0, 0}},
		{Op: curve.OpLine, Args: []float64{3, 4}},
		{Op: curve.OpClose},
	}
	a := curve.SampleAdaptive(cmds, 0.1)
	b := curve.Sample(cmds, 1)
	if len(a) != len(b) {
		t.Fatalf("line-only paths should match: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equals(b[i], 1e-12) {
			t.Errorf("point %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
