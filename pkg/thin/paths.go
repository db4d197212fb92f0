package thin

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/raster"
)

// neighbors8 enumerates the 8-connected offsets in scan order.
var neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// walkOrder prefers orthogonal steps over diagonal ones so chain walking
// does not cut corners and strand single pixels on axis-aligned skeletons.
var walkOrder = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// ExtractPaths walks the skeleton's foreground pixels into ordered point
// chains, one per branch or loop. Chains follow 8-connected adjacency with
// a visited set so no pixel is emitted twice. Branch pixels (more than two
// skeleton neighbors) terminate the chain that reaches them and seed new
// chains outward, so a stroke junction becomes several meeting paths.
func ExtractPaths(skel *raster.BinaryImage) []geom.Path {
	w := &walker{
		skel:    skel,
		visited: make([]bool, len(skel.Pix)),
	}

	// Endpoints and branch points are the natural chain seeds; scan them
	// first so that pure loops (every pixel degree 2) are only started in
	// the second pass.
	for pass := 0; pass < 2; pass++ {
		for y := 0; y < skel.H; y++ {
			for x := 0; x < skel.W; x++ {
				if skel.At(x, y) == 0 || w.seen(x, y) {
					continue
				}
				if pass == 0 && degree(skel, x, y) == 2 {
					continue
				}
				w.seedFrom(x, y)
			}
		}
	}
	return w.paths
}

// walker tracks visited pixels and accumulated chains during extraction.
type walker struct {
	skel    *raster.BinaryImage
	visited []bool
	paths   []geom.Path
}

func (w *walker) seen(x, y int) bool {
	return w.visited[y*w.skel.W+x]
}

func (w *walker) mark(x, y int) {
	w.visited[y*w.skel.W+x] = true
}

// seedFrom emits every chain reachable from the seed pixel, seeding further
// junction pixels as chains run into them.
func (w *walker) seedFrom(x, y int) {
	w.mark(x, y)
	queue := [][2]int{{x, y}}
	emitted := false

	for len(queue) > 0 {
		sx, sy := queue[0][0], queue[0][1]
		queue = queue[1:]

		for {
			nx, ny, ok := w.nextUnvisited(sx, sy)
			if !ok {
				break
			}
			chain, junction := w.walkChain(sx, sy, nx, ny)
			w.paths = append(w.paths, chain)
			emitted = true
			if junction != nil {
				queue = append(queue, *junction)
			}
		}
	}

	if !emitted {
		// Isolated pixel: emit it as a single-point path.
		w.paths = append(w.paths, geom.Path{{X: float64(x), Y: float64(y)}})
	}
}

// walkChain follows the skeleton from the seed (sx, sy) through its
// neighbor (nx, ny) until it reaches a dead end or a branch pixel. It
// returns the chain including both termini and, when the chain stopped at a
// branch pixel, that pixel's coordinates for re-seeding.
func (w *walker) walkChain(sx, sy, nx, ny int) (geom.Path, *[2]int) {
	chain := geom.Path{{X: float64(sx), Y: float64(sy)}}
	cx, cy := nx, ny
	for {
		w.mark(cx, cy)
		chain = append(chain, v2.Vec{X: float64(cx), Y: float64(cy)})
		if degree(w.skel, cx, cy) > 2 {
			at := [2]int{cx, cy}
			return chain, &at
		}
		mx, my, more := w.nextUnvisited(cx, cy)
		if !more {
			return chain, nil
		}
		cx, cy = mx, my
	}
}

// nextUnvisited returns the first unvisited skeleton neighbor of (x, y).
func (w *walker) nextUnvisited(x, y int) (int, int, bool) {
	for _, d := range walkOrder {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= w.skel.W || ny >= w.skel.H {
			continue
		}
		if w.skel.At(nx, ny) == 1 && !w.seen(nx, ny) {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

// degree counts the skeleton neighbors of (x, y).
func degree(skel *raster.BinaryImage, x, y int) int {
	n := 0
	for _, d := range neighbors8 {
		if skel.At(x+d[0], y+d[1]) == 1 {
			n++
		}
	}
	return n
}
