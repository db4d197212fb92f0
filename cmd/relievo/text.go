package main

import (
	"fmt"
	"os"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/marbeck/relievo/pkg/curve"
	"github.com/marbeck/relievo/pkg/geom"
)

// glyphPPEM is the pixels-per-em used when loading glyph outlines. Outline
// coordinates come back in 26.6 fixed point at this size and are rescaled
// to millimeters afterward.
const glyphPPEM = 64

// textLoops renders a string with the given TTF/OTF font into closed
// outline loops, scaled so the em square is sizeMM millimeters tall.
// Glyphs missing from the font are skipped.
func textLoops(fontPath, text string, sizeMM, tolerance float64) ([]geom.Path, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}

	var (
		buf   sfnt.Buffer
		loops []geom.Path
		penX  float64
	)
	scale := sizeMM / glyphPPEM

	for _, r := range text {
		gi, err := f.GlyphIndex(&buf, r)
		if err != nil || gi == 0 {
			continue
		}
		segs, err := f.LoadGlyph(&buf, gi, fixed.I(glyphPPEM), nil)
		if err != nil {
			continue
		}

		for _, contour := range glyphContours(segs) {
			p := curve.SampleAdaptive(contour, tolerance/scale)
			loops = append(loops, placeLoop(p, penX, scale))
		}

		adv, err := f.GlyphAdvance(&buf, gi, fixed.I(glyphPPEM), font.HintingNone)
		if err != nil {
			continue
		}
		penX += f26(adv)
	}

	if len(loops) == 0 {
		return nil, fmt.Errorf("no glyph outlines for %q", text)
	}
	return loops, nil
}

// glyphContours splits an sfnt segment list into per-contour command lists.
// Each MoveTo starts a new contour; contours are explicitly closed.
func glyphContours(segs sfnt.Segments) [][]curve.Cmd {
	var contours [][]curve.Cmd
	var cur []curve.Cmd

	flush := func() {
		if len(cur) > 1 {
			contours = append(contours, append(cur, curve.Cmd{Op: curve.OpClose}))
		}
		cur = nil
	}

	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			cur = append(cur, curve.Cmd{
				Op:   curve.OpMove,
				Args: []float64{fx(s.Args[0]), fy(s.Args[0])},
			})
		case sfnt.SegmentOpLineTo:
			cur = append(cur, curve.Cmd{
				Op:   curve.OpLine,
				Args: []float64{fx(s.Args[0]), fy(s.Args[0])},
			})
		case sfnt.SegmentOpQuadTo:
			cur = append(cur, curve.Cmd{
				Op: curve.OpQuad,
				Args: []float64{
					fx(s.Args[0]), fy(s.Args[0]),
					fx(s.Args[1]), fy(s.Args[1]),
				},
			})
		case sfnt.SegmentOpCubeTo:
			cur = append(cur, curve.Cmd{
				Op: curve.OpCubic,
				Args: []float64{
					fx(s.Args[0]), fy(s.Args[0]),
					fx(s.Args[1]), fy(s.Args[1]),
					fx(s.Args[2]), fy(s.Args[2]),
				},
			})
		}
	}
	flush()
	return contours
}

// placeLoop scales a sampled glyph loop to millimeters and advances it to
// the pen position.
func placeLoop(p geom.Path, penX, scale float64) geom.Path {
	out := make(geom.Path, len(p))
	for i, pt := range p {
		out[i] = v2.Vec{X: pt.X*scale + penX*scale, Y: pt.Y * scale}
	}
	return out
}

// fx converts a fixed-point glyph x coordinate to float64 pixels.
func fx(p fixed.Point26_6) float64 { return f26(p.X) }

// fy converts a fixed-point glyph y coordinate, flipping the axis: sfnt
// outlines grow downward, model space grows upward.
func fy(p fixed.Point26_6) float64 { return -f26(p.Y) }

func f26(v fixed.Int26_6) float64 { return float64(v) / 64 }
