package pipeline

import (
	"bytes"
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/marbeck/relievo/pkg/connect"
	"github.com/marbeck/relievo/pkg/contour"
	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/mesh"
	"github.com/marbeck/relievo/pkg/raster"
	"github.com/marbeck/relievo/pkg/simplify"
	"github.com/marbeck/relievo/pkg/stl"
	"github.com/marbeck/relievo/pkg/thin"
	"github.com/marbeck/relievo/pkg/triangulate"
)

// maxGridSamples bounds the pixel count a generator will mesh. Larger
// inputs must be rescaled by the caller before entering the pipeline.
const maxGridSamples = 1 << 22

// GeneratePlate builds a plate mesh from the settings and returns it as
// binary STL bytes, along with any clamping warnings.
func GeneratePlate(s PlateSettings) ([]byte, []Warning, error) {
	warnings := s.ValidateAndClamp()

	m, err := plateMesh(s)
	if err != nil {
		return nil, warnings, err
	}

	for _, c := range holeCenters(s) {
		m.Append(mesh.HoleWalls(c.X, c.Y, s.HoleDiameter/2, s.Thickness, mesh.DefaultHoleSegments))
	}

	data, err := encode(m, "plate")
	return data, warnings, err
}

func plateMesh(s PlateSettings) (*mesh.Mesh, error) {
	switch {
	case s.Shape == ShapeDisc:
		return mesh.DiscPlate(s.Width/2, s.Thickness, s.Segments), nil
	case s.CornerRadius > 0:
		outline := roundedRect(s.Width, s.Height, s.CornerRadius, s.Segments)
		m, err := mesh.Extrude([]geom.Path{outline}, s.Thickness, triangulate.New())
		if err != nil {
			return nil, fmt.Errorf("plate outline: %w", err)
		}
		return m, nil
	default:
		return mesh.BoxPlate(s.Width, s.Height, s.Thickness), nil
	}
}

// holeCenters places drill holes for the plate, dropping any hole a disc
// outline cannot contain.
func holeCenters(s PlateSettings) []v2.Vec {
	w, h := s.Width, s.Height
	if s.Shape == ShapeDisc {
		w, h = s.Width, s.Width
	}
	centers := mesh.HoleCenters(s.HolePattern, w, h, s.HoleInset, s.GridSpacing)
	if s.Shape != ShapeDisc {
		return centers
	}
	maxR := s.Width/2 - s.HoleDiameter/2
	kept := centers[:0]
	for _, c := range centers {
		if c.Length() <= maxR {
			kept = append(kept, c)
		}
	}
	return kept
}

// roundedRect builds a closed counter-clockwise outline with quarter-circle
// corners, centered on the origin.
func roundedRect(width, height, radius float64, segments int) geom.Path {
	hw, hh := width/2, height/2
	steps := segments / 4
	if steps < 2 {
		steps = 2
	}

	// Corner arc centers in CCW order starting from the bottom-right,
	// paired with the start angle of each quarter arc.
	corners := []struct {
		c     v2.Vec
		start float64
	}{
		{v2.Vec{X: hw - radius, Y: -hh + radius}, -math.Pi / 2},
		{v2.Vec{X: hw - radius, Y: hh - radius}, 0},
		{v2.Vec{X: -hw + radius, Y: hh - radius}, math.Pi / 2},
		{v2.Vec{X: -hw + radius, Y: -hh + radius}, math.Pi},
	}

	var p geom.Path
	for _, corner := range corners {
		for i := 0; i <= steps; i++ {
			a := corner.start + float64(i)/float64(steps)*math.Pi/2
			p = append(p, v2.Vec{
				X: corner.c.X + radius*math.Cos(a),
				Y: corner.c.Y + radius*math.Sin(a),
			})
		}
	}
	return append(p, p[0])
}

// GenerateRelief turns an 8-bit grayscale buffer into a heightfield plaque
// and returns it as binary STL bytes.
func GenerateRelief(gray []uint8, w, h int, s ReliefSettings) ([]byte, []Warning, error) {
	warnings := s.ValidateAndClamp()
	if err := checkImage(gray, w, h); err != nil {
		return nil, warnings, err
	}

	g := raster.LumaDepth(gray, w, h, s.BaseThickness, s.MaxDepth, s.Invert)
	if s.SmoothRadius > 0 {
		g = raster.GaussianBlur(g, s.SmoothRadius)
	}
	flipRows(g)

	frame := mesh.Frame{Enabled: s.FrameEnabled, Thickness: s.FrameThickness, Depth: s.FrameDepth}
	m := mesh.Heightfield(g, s.Width, s.Height, frame)
	if m.IsEmpty() {
		return nil, warnings, fmt.Errorf("relief: image %dx%d too small to mesh", w, h)
	}

	data, err := encode(m, "relief")
	return data, warnings, err
}

// GenerateTraced extracts silhouette contours from a grayscale buffer and
// extrudes them, returning binary STL bytes. Images with no contours above
// the minimum loop size produce an error.
func GenerateTraced(gray []uint8, w, h int, s TraceSettings) ([]byte, []Warning, error) {
	warnings := s.ValidateAndClamp()
	if err := checkImage(gray, w, h); err != nil {
		return nil, warnings, err
	}

	img := raster.Threshold(gray, w, h, s.Threshold)
	loops := contour.Trace(img, s.MinLoop)
	if len(loops) == 0 {
		return nil, warnings, fmt.Errorf("trace: no contours found at threshold %d", s.Threshold)
	}

	scale := s.Width / float64(w)
	for i, loop := range loops {
		loops[i] = simplify.Simplify(toPhysical(loop, w, h, scale), s.SimplifyTol*scale)
	}

	m, err := mesh.Extrude(loops, s.Depth, triangulate.New())
	if err != nil {
		return nil, warnings, fmt.Errorf("trace: %w", err)
	}
	if m.IsEmpty() {
		return nil, warnings, fmt.Errorf("trace: contours degenerate after simplification")
	}

	data, err := encode(m, "traced")
	return data, warnings, err
}

// GenerateStrokes extracts engraving centerlines from a grayscale buffer:
// threshold, thin to a skeleton, chain pixels into paths, simplify, then
// bridge nearby path ends. Coordinates in the report are pixels.
func GenerateStrokes(gray []uint8, w, h int, s StrokeSettings) (*connect.Result, []Warning, error) {
	warnings := s.ValidateAndClamp()
	if err := checkImage(gray, w, h); err != nil {
		return nil, warnings, err
	}

	skel := thin.Thin(raster.Threshold(gray, w, h, s.Threshold))
	paths := thin.ExtractPaths(skel)
	for i, p := range paths {
		paths[i] = simplify.Simplify(p, s.SimplifyTol)
	}

	result := connect.Connect(paths, s.MaxGap, s.SimplifyTol)
	return &result, warnings, nil
}

// GenerateExtrusion extrudes pre-built loops (glyph outlines, traced art)
// and returns binary STL bytes. Loops must be closed.
func GenerateExtrusion(loops []geom.Path, depth float64, name string) ([]byte, error) {
	if depth <= 0 {
		depth = 3
	}
	m, err := mesh.Extrude(loops, depth, triangulate.New())
	if err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("extrude: no closed loops to mesh")
	}
	return encode(m, name)
}

func checkImage(gray []uint8, w, h int) error {
	if w < 1 || h < 1 || len(gray) < w*h {
		return fmt.Errorf("image buffer %d too small for %dx%d", len(gray), w, h)
	}
	if w*h > maxGridSamples {
		return fmt.Errorf("image %dx%d exceeds %d sample limit, rescale first", w, h, maxGridSamples)
	}
	return nil
}

// toPhysical maps pixel coordinates to physical millimeters: centered on the
// origin with y flipped so the image reads upright in model space.
func toPhysical(p geom.Path, w, h int, scale float64) geom.Path {
	out := make(geom.Path, len(p))
	cx, cy := float64(w)/2, float64(h)/2
	for i, pt := range p {
		out[i] = v2.Vec{
			X: (pt.X - cx) * scale,
			Y: (cy - pt.Y) * scale,
		}
	}
	return out
}

// flipRows reverses grid row order so row zero sits at the bottom, matching
// the upward y axis of model space.
func flipRows(g *raster.Grid) {
	for y := 0; y < g.H/2; y++ {
		top := y * g.W
		bot := (g.H - 1 - y) * g.W
		for x := 0; x < g.W; x++ {
			g.V[top+x], g.V[bot+x] = g.V[bot+x], g.V[top+x]
		}
	}
}

func encode(m *mesh.Mesh, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := stl.Write(&buf, m, name, stl.Binary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
