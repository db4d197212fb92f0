// Package raster holds the flat 0/1 raster and scalar grid types that the
// thinning, tracing and heightfield stages operate on. Buffers are row-major
// with index y*W+x; all addressing helpers clamp or reject out-of-range
// coordinates so the geometry stages never index past the buffer.
package raster

// BinaryImage is a width x height grid of 0/1 samples, row-major.
type BinaryImage struct {
	W, H int
	Pix  []uint8
}

// NewBinaryImage returns an all-zero raster. Non-positive dimensions yield
// an empty image.
func NewBinaryImage(w, h int) *BinaryImage {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &BinaryImage{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the sample at (x, y), or 0 outside the image. Treating the
// border as background keeps neighborhood scans branch-free at the edges.
func (b *BinaryImage) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return 0
	}
	return b.Pix[y*b.W+x]
}

// Set writes v at (x, y); out-of-range writes are dropped.
func (b *BinaryImage) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = v
}

// Clone returns a deep copy.
func (b *BinaryImage) Clone() *BinaryImage {
	out := &BinaryImage{W: b.W, H: b.H, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Count returns the number of foreground pixels.
func (b *BinaryImage) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Threshold converts an 8-bit grayscale/alpha buffer into a BinaryImage:
// samples at or above cut become foreground. Buffers shorter than w*h
// produce an empty image rather than a panic.
func Threshold(gray []uint8, w, h int, cut uint8) *BinaryImage {
	img := NewBinaryImage(w, h)
	if len(gray) < w*h {
		return NewBinaryImage(0, 0)
	}
	for i := 0; i < w*h; i++ {
		if gray[i] >= cut {
			img.Pix[i] = 1
		}
	}
	return img
}
