// Command relievo generates printable STL geometry from parametric plates,
// text, and images.
//
// Modes:
//
//	plate    parametric mounting plate (box or disc, optional drill holes)
//	text     extruded font outlines
//	relief   grayscale photo to heightfield plaque
//	trace    silhouette contours extruded to a solid
//	strokes  centerline extraction report (JSON) for engraving
//	script   evaluate a Lisp job script and run every emitted job
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/marbeck/relievo/pkg/engine"
	"github.com/marbeck/relievo/pkg/mesh"
	"github.com/marbeck/relievo/pkg/pipeline"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("relievo: ")

	var (
		mode   = flag.String("mode", "plate", "plate|text|relief|trace|strokes|script")
		out    = flag.String("out", "out.stl", "output file (or directory for script mode)")
		in     = flag.String("in", "", "input image (relief, trace, strokes, script)")
		maxDim = flag.Int("max-dim", 512, "rescale input images above this dimension")

		width     = flag.Float64("width", 100, "plate/model width in mm")
		height    = flag.Float64("height", 60, "plate height in mm")
		thickness = flag.Float64("thickness", 3, "plate thickness in mm")
		corner    = flag.Float64("corner-radius", 0, "plate corner radius in mm")
		shape     = flag.String("shape", "box", "plate shape: box|disc")
		holes     = flag.String("holes", "none", "hole pattern: none|corners|grid|perimeter")
		holeDia   = flag.Float64("hole-diameter", 4, "drill hole diameter in mm")
		holeInset = flag.Float64("hole-inset", 8, "hole inset from the edge in mm")
		spacing   = flag.Float64("hole-spacing", 15, "grid/perimeter hole spacing in mm")

		text     = flag.String("text", "", "text to extrude")
		fontPath = flag.String("font", "", "TTF/OTF font file for text mode")
		size     = flag.Float64("size", 20, "text em size in mm")

		depth     = flag.Float64("depth", 3, "extrusion depth / relief max depth in mm")
		base      = flag.Float64("base", 1, "relief base thickness in mm")
		invert    = flag.Bool("invert", false, "invert relief luma")
		smooth    = flag.Int("smooth", 1, "relief smoothing radius in samples")
		frame     = flag.Bool("frame", false, "add a frame around the relief")
		threshold = flag.Int("threshold", 128, "foreground luma threshold (0-255)")
		minLoop   = flag.Int("min-loop", 8, "minimum contour loop length in pixels")
		tolerance = flag.Float64("tolerance", 0.5, "simplification tolerance")
		maxGap    = flag.Float64("max-gap", 5, "stroke bridging gap in pixels")

		script = flag.String("script", "", "Lisp job script for script mode")
	)
	flag.Parse()

	var err error
	switch *mode {
	case "plate":
		s := pipeline.PlateSettings{
			Shape:        pipeline.PlateShape(*shape),
			Width:        *width,
			Height:       *height,
			Thickness:    *thickness,
			CornerRadius: *corner,
			Segments:     mesh.DefaultDiscSegments,
			HolePattern:  parsePattern(*holes),
			HoleDiameter: *holeDia,
			HoleInset:    *holeInset,
			GridSpacing:  *spacing,
		}
		err = runPlate(s, *out)

	case "text":
		err = runText(*fontPath, *text, *size, *depth, *tolerance, *out)

	case "relief":
		s := pipeline.DefaultReliefSettings()
		s.Width, s.Height = *width, *height
		s.BaseThickness, s.MaxDepth = *base, *depth
		s.Invert, s.SmoothRadius = *invert, *smooth
		s.FrameEnabled = *frame
		err = runRelief(*in, *maxDim, s, *out)

	case "trace":
		s := pipeline.TraceSettings{
			Threshold:   clampByte(*threshold),
			MinLoop:     *minLoop,
			SimplifyTol: *tolerance,
			Depth:       *depth,
			Width:       *width,
		}
		err = runTrace(*in, *maxDim, s, *out)

	case "strokes":
		s := pipeline.StrokeSettings{
			Threshold:   clampByte(*threshold),
			MaxGap:      *maxGap,
			SimplifyTol: *tolerance,
		}
		err = runStrokes(*in, *maxDim, s, *out)

	case "script":
		err = runScript(*script, *in, *maxDim, *out)

	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func runPlate(s pipeline.PlateSettings, out string) error {
	data, warnings, err := pipeline.GeneratePlate(s)
	if err != nil {
		return err
	}
	logWarnings(warnings)
	return writeOut(out, data)
}

func runText(fontPath, text string, size, depth, tolerance float64, out string) error {
	if fontPath == "" || text == "" {
		return fmt.Errorf("text mode needs -font and -text")
	}
	loops, err := textLoops(fontPath, text, size, tolerance)
	if err != nil {
		return err
	}
	data, err := pipeline.GenerateExtrusion(loops, depth, "text")
	if err != nil {
		return err
	}
	return writeOut(out, data)
}

func runRelief(in string, maxDim int, s pipeline.ReliefSettings, out string) error {
	gray, w, h, err := requireImage(in, maxDim)
	if err != nil {
		return err
	}
	data, warnings, err := pipeline.GenerateRelief(gray, w, h, s)
	if err != nil {
		return err
	}
	logWarnings(warnings)
	return writeOut(out, data)
}

func runTrace(in string, maxDim int, s pipeline.TraceSettings, out string) error {
	gray, w, h, err := requireImage(in, maxDim)
	if err != nil {
		return err
	}
	data, warnings, err := pipeline.GenerateTraced(gray, w, h, s)
	if err != nil {
		return err
	}
	logWarnings(warnings)
	return writeOut(out, data)
}

func runStrokes(in string, maxDim int, s pipeline.StrokeSettings, out string) error {
	gray, w, h, err := requireImage(in, maxDim)
	if err != nil {
		return err
	}
	result, warnings, err := pipeline.GenerateStrokes(gray, w, h, s)
	if err != nil {
		return err
	}
	logWarnings(warnings)

	log.Printf("connected %d of %d paths (%d bridges, total length %.1f)",
		result.ConnectedCount, result.OriginalCount, result.Connections, result.TotalLength)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOut(out, data)
}

// runScript evaluates a Lisp job script and runs every emitted job, writing
// <name>.stl (or <name>.json for strokes) into the output directory. Image
// jobs share the single -in input.
func runScript(scriptPath, in string, maxDim int, outDir string) error {
	if scriptPath == "" {
		return fmt.Errorf("script mode needs -script")
	}
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	jobs, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", scriptPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Printf("%s: %s", scriptPath, e.Error())
		}
		return fmt.Errorf("script has %d error(s)", len(evalErrs))
	}
	if len(jobs) == 0 {
		return fmt.Errorf("script emitted no jobs")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	var gray []uint8
	var w, h int
	for _, job := range jobs {
		switch job.Kind {
		case engine.JobPlate:
			data, warnings, err := pipeline.GeneratePlate(*job.Plate)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			logWarnings(warnings)
			if err := writeOut(filepath.Join(outDir, job.Name+".stl"), data); err != nil {
				return err
			}

		case engine.JobRelief, engine.JobTrace, engine.JobStrokes:
			if gray == nil {
				gray, w, h, err = requireImage(in, maxDim)
				if err != nil {
					return fmt.Errorf("job %s: %w", job.Name, err)
				}
			}
			if err := runImageJob(job, gray, w, h, outDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func runImageJob(job engine.Job, gray []uint8, w, h int, outDir string) error {
	var (
		data     []byte
		warnings []pipeline.Warning
		err      error
		ext      = ".stl"
	)
	switch job.Kind {
	case engine.JobRelief:
		data, warnings, err = pipeline.GenerateRelief(gray, w, h, *job.Relief)
	case engine.JobTrace:
		data, warnings, err = pipeline.GenerateTraced(gray, w, h, *job.Trace)
	case engine.JobStrokes:
		var result any
		result, warnings, err = pipeline.GenerateStrokes(gray, w, h, *job.Strokes)
		if err == nil {
			data, err = json.MarshalIndent(result, "", "  ")
			ext = ".json"
		}
	}
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	logWarnings(warnings)
	return writeOut(filepath.Join(outDir, job.Name+ext), data)
}

func requireImage(in string, maxDim int) ([]uint8, int, int, error) {
	if in == "" {
		return nil, 0, 0, fmt.Errorf("this mode needs -in <image>")
	}
	return loadGray(in, maxDim)
}

func writeOut(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", path, len(data))
	return nil
}

func logWarnings(warnings []pipeline.Warning) {
	for _, w := range warnings {
		log.Print(w.String())
	}
}

func parsePattern(s string) mesh.HolePattern {
	switch s {
	case "corners":
		return mesh.HoleCorners
	case "grid":
		return mesh.HoleGrid
	case "perimeter":
		return mesh.HolePerimeter
	}
	return mesh.HoleNone
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
