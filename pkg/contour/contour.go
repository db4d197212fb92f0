// Package contour extracts closed boundary loops from a binary raster using
// Moore-Neighbor tracing: a clockwise walk along foreground pixels that have
// at least one background 8-neighbor.
package contour

import (
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/raster"
)

// DefaultMinLoop is the noise-rejection threshold: traced loops with fewer
// points are discarded.
const DefaultMinLoop = 8

// mooreOrder walks the 8-neighborhood clockwise starting north.
var mooreOrder = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Trace returns one closed loop per distinct boundary in img. Loops shorter
// than minLoop are dropped; minLoop values below one fall back to
// DefaultMinLoop. A global visited set spans all loops, so each boundary
// pixel belongs to at most one traced loop. Every walk is capped at W*H
// steps so malformed rasters cannot loop forever.
func Trace(img *raster.BinaryImage, minLoop int) []geom.Path {
	if minLoop < 1 {
		minLoop = DefaultMinLoop
	}
	visited := make([]bool, len(img.Pix))
	var loops []geom.Path

	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			if !isBoundary(img, x, y) || visited[y*img.W+x] {
				continue
			}
			loop := walkBoundary(img, visited, x, y)
			if len(loop) >= minLoop {
				loops = append(loops, loop)
			}
		}
	}
	return loops
}

// isBoundary reports whether (x, y) is foreground with at least one
// background 8-neighbor. Pixels on the image border count as boundary since
// the outside is background.
func isBoundary(img *raster.BinaryImage, x, y int) bool {
	if img.At(x, y) != 1 {
		return false
	}
	for _, d := range mooreOrder {
		if img.At(x+d[0], y+d[1]) == 0 {
			return true
		}
	}
	return false
}

// walkBoundary performs the clockwise Moore walk from the starting boundary
// pixel. At each step the 8 neighbors are scanned clockwise beginning just
// after the direction of arrival; the first foreground boundary neighbor
// becomes the next pixel, and the scan origin is turned back two steps so
// concave corners are not skipped.
func walkBoundary(img *raster.BinaryImage, visited []bool, sx, sy int) geom.Path {
	maxSteps := img.W * img.H

	loop := geom.Path{{X: float64(sx), Y: float64(sy)}}
	visited[sy*img.W+sx] = true

	cx, cy := sx, sy
	dir := 0 // scan start; the first pixel begins its scan at north

	for step := 0; step < maxSteps; step++ {
		found := false
		for i := 0; i < 8; i++ {
			d := (dir + i) % 8
			nx := cx + mooreOrder[d][0]
			ny := cy + mooreOrder[d][1]
			if !isBoundary(img, nx, ny) {
				continue
			}
			if nx == sx && ny == sy {
				// Walk closed on the start pixel.
				loop = append(loop, v2.Vec{X: float64(nx), Y: float64(ny)})
				return loop
			}
			if visited[ny*img.W+nx] {
				continue
			}
			visited[ny*img.W+nx] = true
			loop = append(loop, v2.Vec{X: float64(nx), Y: float64(ny)})
			cx, cy = nx, ny
			// Back the scan origin up two steps from the arrival
			// direction so the next scan re-examines the concave side.
			dir = (d + 6) % 8
			found = true
			break
		}
		if !found {
			// Dead end (single pixel or fully consumed neighborhood):
			// return what was walked.
			return loop
		}
	}
	return loop
}
