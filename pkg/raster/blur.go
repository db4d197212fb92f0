package raster

import "math"

// GaussianBlur returns a smoothed copy of the grid using a separable
// Gaussian kernel of the given radius. Kernel weights are normalized to sum
// to one; out-of-range taps clamp to the grid edge. Radius values below one
// return an unmodified copy.
func GaussianBlur(g *Grid, radius int) *Grid {
	out := NewGrid(g.W, g.H)
	copy(out.V, g.V)
	if radius < 1 || g.W == 0 || g.H == 0 {
		return out
	}

	kernel := gaussianKernel(radius)

	// Horizontal pass.
	tmp := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * g.At(x+k, y)
			}
			tmp.V[y*g.W+x] = sum
		}
	}

	// Vertical pass.
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * tmp.At(x, y+k)
			}
			out.V[y*g.W+x] = sum
		}
	}
	return out
}

// gaussianKernel builds a normalized 1D kernel of length 2*radius+1 with
// sigma proportional to the radius.
func gaussianKernel(radius int) []float64 {
	sigma := float64(radius) / 2
	if sigma < 0.5 {
		sigma = 0.5
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-float64(k*k) / (2 * sigma * sigma))
		kernel[k+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
