package raster

// Grid is a width x height scalar field, row-major. Heightfield meshing
// reads one depth value per sample cell.
type Grid struct {
	W, H int
	V    []float64
}

// NewGrid returns an all-zero grid. Non-positive dimensions yield an empty
// grid.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{W: w, H: h, V: make([]float64, w*h)}
}

// At returns the value at (x, y) with coordinates clamped to the grid edge,
// so border reads repeat the outermost samples.
func (g *Grid) At(x, y int) float64 {
	if g.W == 0 || g.H == 0 {
		return 0
	}
	if x < 0 {
		x = 0
	}
	if x >= g.W {
		x = g.W - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= g.H {
		y = g.H - 1
	}
	return g.V[y*g.W+x]
}

// Set writes v at (x, y); out-of-range writes are dropped.
func (g *Grid) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.V[y*g.W+x] = v
}

// LumaDepth maps an 8-bit grayscale buffer to a depth grid with
//
//	depth = base + (1 - luma/255) * maxDepth
//
// so dark samples stand proud of the base. With invert set the normalized
// luminance is flipped, making bright samples the tall ones. Buffers shorter
// than w*h produce an empty grid.
func LumaDepth(gray []uint8, w, h int, base, maxDepth float64, invert bool) *Grid {
	g := NewGrid(w, h)
	if len(gray) < w*h {
		return NewGrid(0, 0)
	}
	for i := 0; i < w*h; i++ {
		luma := float64(gray[i]) / 255.0
		if invert {
			luma = 1 - luma
		}
		g.V[i] = base + (1-luma)*maxDepth
	}
	return g
}
