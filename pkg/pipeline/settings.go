// Package pipeline orchestrates the geometry stages into complete
// generation operations: settings in, STL bytes (or a stroke report) out.
// Every generator is a pure function; callers may invoke them concurrently.
package pipeline

import (
	"fmt"

	"github.com/marbeck/relievo/pkg/mesh"
)

// Warning is a non-blocking advisory finding from settings validation.
// Invalid values are clamped to safe bounds rather than rejected.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[warning] %s: %s", w.Field, w.Message)
}

// PlateShape selects the plate outline.
type PlateShape string

const (
	ShapeBox  PlateShape = "box"
	ShapeDisc PlateShape = "disc"
)

// PlateSettings describes a flat mounting plate with optional drill holes.
type PlateSettings struct {
	Shape        PlateShape       `json:"shape"`
	Width        float64          `json:"width"`
	Height       float64          `json:"height"`
	Thickness    float64          `json:"thickness"`
	CornerRadius float64          `json:"cornerRadius"`
	Segments     int              `json:"segments"`
	HolePattern  mesh.HolePattern `json:"holePattern"`
	HoleDiameter float64          `json:"holeDiameter"`
	HoleInset    float64          `json:"holeInset"`
	GridSpacing  float64          `json:"gridSpacing"`
}

// DefaultPlateSettings returns a 100x60x3mm box plate with corner holes.
func DefaultPlateSettings() PlateSettings {
	return PlateSettings{
		Shape:        ShapeBox,
		Width:        100,
		Height:       60,
		Thickness:    3,
		Segments:     mesh.DefaultDiscSegments,
		HolePattern:  mesh.HoleCorners,
		HoleDiameter: 4,
		HoleInset:    8,
		GridSpacing:  15,
	}
}

// ValidateAndClamp pins out-of-range values to safe bounds and reports what
// was changed. The receiver is mutated in place.
func (s *PlateSettings) ValidateAndClamp() []Warning {
	var warnings []Warning
	clamp := func(field string, v *float64, min, fallback float64) {
		if *v <= min {
			warnings = append(warnings, Warning{
				Field:   field,
				Message: fmt.Sprintf("%g is not positive, using %g", *v, fallback),
			})
			*v = fallback
		}
	}

	if s.Shape != ShapeBox && s.Shape != ShapeDisc {
		warnings = append(warnings, Warning{
			Field:   "shape",
			Message: fmt.Sprintf("unknown shape %q, using box", s.Shape),
		})
		s.Shape = ShapeBox
	}
	clamp("width", &s.Width, 0, 100)
	clamp("height", &s.Height, 0, 60)
	clamp("thickness", &s.Thickness, 0, 3)

	if s.CornerRadius < 0 {
		warnings = append(warnings, Warning{Field: "cornerRadius", Message: "negative radius, using 0"})
		s.CornerRadius = 0
	}
	if max := min64(s.Width, s.Height) / 2; s.CornerRadius > max {
		warnings = append(warnings, Warning{
			Field:   "cornerRadius",
			Message: fmt.Sprintf("%g exceeds half the short side, using %g", s.CornerRadius, max),
		})
		s.CornerRadius = max
	}
	if s.Segments < 3 {
		s.Segments = mesh.DefaultDiscSegments
	}

	if s.HolePattern != mesh.HoleNone {
		if s.HoleDiameter <= 0 {
			warnings = append(warnings, Warning{Field: "holeDiameter", Message: "not positive, using 4"})
			s.HoleDiameter = 4
		}
		if s.HoleInset < s.HoleDiameter/2 {
			warnings = append(warnings, Warning{
				Field:   "holeInset",
				Message: fmt.Sprintf("%g smaller than hole radius, using %g", s.HoleInset, s.HoleDiameter/2),
			})
			s.HoleInset = s.HoleDiameter / 2
		}
		if s.GridSpacing <= 0 && (s.HolePattern == mesh.HoleGrid || s.HolePattern == mesh.HolePerimeter) {
			warnings = append(warnings, Warning{Field: "gridSpacing", Message: "not positive, using 10"})
			s.GridSpacing = 10
		}
	}
	return warnings
}

// ReliefSettings describes a photo-relief heightfield plaque.
type ReliefSettings struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	BaseThickness  float64 `json:"baseThickness"`
	MaxDepth       float64 `json:"maxDepth"`
	Invert         bool    `json:"invert"`
	SmoothRadius   int     `json:"smoothRadius"`
	FrameEnabled   bool    `json:"frameEnabled"`
	FrameThickness float64 `json:"frameThickness"`
	FrameDepth     float64 `json:"frameDepth"`
}

// DefaultReliefSettings returns a 100x100mm plaque with 1mm base and 3mm of
// relief depth.
func DefaultReliefSettings() ReliefSettings {
	return ReliefSettings{
		Width:          100,
		Height:         100,
		BaseThickness:  1,
		MaxDepth:       3,
		SmoothRadius:   1,
		FrameThickness: 4,
		FrameDepth:     5,
	}
}

// ValidateAndClamp pins out-of-range values to safe bounds and reports what
// was changed.
func (s *ReliefSettings) ValidateAndClamp() []Warning {
	var warnings []Warning
	clamp := func(field string, v *float64, fallback float64) {
		if *v <= 0 {
			warnings = append(warnings, Warning{
				Field:   field,
				Message: fmt.Sprintf("%g is not positive, using %g", *v, fallback),
			})
			*v = fallback
		}
	}
	clamp("width", &s.Width, 100)
	clamp("height", &s.Height, 100)
	clamp("baseThickness", &s.BaseThickness, 1)
	clamp("maxDepth", &s.MaxDepth, 3)
	if s.SmoothRadius < 0 {
		warnings = append(warnings, Warning{Field: "smoothRadius", Message: "negative radius, using 0"})
		s.SmoothRadius = 0
	}
	if s.FrameEnabled {
		clamp("frameThickness", &s.FrameThickness, 4)
		clamp("frameDepth", &s.FrameDepth, 5)
	}
	return warnings
}

// TraceSettings describes silhouette extrusion from a grayscale image.
type TraceSettings struct {
	Threshold   uint8   `json:"threshold"`
	MinLoop     int     `json:"minLoop"`
	SimplifyTol float64 `json:"simplifyTol"`
	Depth       float64 `json:"depth"`
	Width       float64 `json:"width"`
}

// DefaultTraceSettings returns mid-gray thresholding with 3mm extrusion.
func DefaultTraceSettings() TraceSettings {
	return TraceSettings{
		Threshold:   128,
		MinLoop:     8,
		SimplifyTol: 0.5,
		Depth:       3,
		Width:       100,
	}
}

// ValidateAndClamp pins out-of-range values to safe bounds and reports what
// was changed.
func (s *TraceSettings) ValidateAndClamp() []Warning {
	var warnings []Warning
	if s.MinLoop < 1 {
		warnings = append(warnings, Warning{Field: "minLoop", Message: "not positive, using 8"})
		s.MinLoop = 8
	}
	if s.SimplifyTol < 0 {
		warnings = append(warnings, Warning{Field: "simplifyTol", Message: "negative tolerance, using 0"})
		s.SimplifyTol = 0
	}
	if s.Depth <= 0 {
		warnings = append(warnings, Warning{Field: "depth", Message: "not positive, using 3"})
		s.Depth = 3
	}
	if s.Width <= 0 {
		warnings = append(warnings, Warning{Field: "width", Message: "not positive, using 100"})
		s.Width = 100
	}
	return warnings
}

// StrokeSettings describes centerline extraction for engraving toolpaths.
type StrokeSettings struct {
	Threshold   uint8   `json:"threshold"`
	MaxGap      float64 `json:"maxGap"`
	SimplifyTol float64 `json:"simplifyTol"`
}

// DefaultStrokeSettings returns mid-gray thresholding with a 5-pixel
// bridging gap.
func DefaultStrokeSettings() StrokeSettings {
	return StrokeSettings{
		Threshold:   128,
		MaxGap:      5,
		SimplifyTol: 1,
	}
}

// ValidateAndClamp pins out-of-range values to safe bounds and reports what
// was changed.
func (s *StrokeSettings) ValidateAndClamp() []Warning {
	var warnings []Warning
	if s.MaxGap < 0 {
		warnings = append(warnings, Warning{Field: "maxGap", Message: "negative gap, using 0"})
		s.MaxGap = 0
	}
	if s.SimplifyTol < 0 {
		warnings = append(warnings, Warning{Field: "simplifyTol", Message: "negative tolerance, using 0"})
		s.SimplifyTol = 0
	}
	return warnings
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
