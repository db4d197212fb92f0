package contour_test

import (
	"testing"

	"github.com/marbeck/relievo/pkg/contour"
	"github.com/marbeck/relievo/pkg/raster"
)

// fillDisc sets all pixels within radius r of (cx, cy) to foreground.
func fillDisc(img *raster.BinaryImage, cx, cy, r int) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, 1)
			}
		}
	}
}

func TestTraceFilledDisc(t *testing.T) {
	img := raster.NewBinaryImage(100, 100)
	fillDisc(img, 50, 50, 20)

	loops := contour.Trace(img, 16)
	if len(loops) != 1 {
		t.Fatalf("filled disc should trace to exactly one loop, got %d", len(loops))
	}
	loop := loops[0]
	if len(loop) <= 16 {
		t.Errorf("disc loop should exceed the minimum length, got %d points", len(loop))
	}
	// The walk must close on its starting pixel.
	if !loop[0].Equals(loop[len(loop)-1], 1e-12) {
		t.Errorf("loop not closed: starts %v ends %v", loop[0], loop[len(loop)-1])
	}
	// All loop points lie on the disc boundary band.
	for _, p := range loop {
		dx, dy := p.X-50, p.Y-50
		d2 := dx*dx + dy*dy
		if d2 > 21*21 || d2 < 17*17 {
			t.Fatalf("loop point %v is off the boundary band (d2=%v)", p, d2)
		}
	}
}

func TestTraceTwoShapes(t *testing.T) {
	img := raster.NewBinaryImage(120, 60)
	fillDisc(img, 30, 30, 12)
	fillDisc(img, 90, 30, 12)

	loops := contour.Trace(img, 16)
	if len(loops) != 2 {
		t.Fatalf("two disjoint discs should trace to two loops, got %d", len(loops))
	}

	// Loops must not share pixels: the global visited set forbids it.
	seen := make(map[[2]int]bool)
	for _, loop := range loops {
		local := make(map[[2]int]bool)
		for _, p := range loop {
			key := [2]int{int(p.X), int(p.Y)}
			if local[key] {
				continue // closing point repeats the start
			}
			local[key] = true
			if seen[key] {
				t.Fatalf("pixel %v appears in two loops", key)
			}
			seen[key] = true
		}
	}
}

func TestTraceNoiseRejected(t *testing.T) {
	img := raster.NewBinaryImage(50, 50)
	img.Set(10, 10, 1) // single speck
	img.Set(30, 30, 1)
	img.Set(31, 30, 1) // two-pixel speck

	loops := contour.Trace(img, 8)
	if len(loops) != 0 {
		t.Errorf("specks below the minimum loop length should be discarded, got %d loops", len(loops))
	}
}

func TestTraceEmptyRaster(t *testing.T) {
	img := raster.NewBinaryImage(32, 32)
	if loops := contour.Trace(img, 0); len(loops) != 0 {
		t.Errorf("empty raster should yield no loops, got %d", len(loops))
	}
}

func TestTraceSquare(t *testing.T) {
	img := raster.NewBinaryImage(40, 40)
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			img.Set(x, y, 1)
		}
	}

	loops := contour.Trace(img, 8)
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}
	// Perimeter of a 20x20 square boundary walk is 4*19+1 closing point.
	if len(loops[0]) != 77 {
		t.Errorf("expected 77 loop points for a 20x20 square, got %d", len(loops[0]))
	}
}
