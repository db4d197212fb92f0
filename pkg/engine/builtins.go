package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/marbeck/relievo/pkg/mesh"
	"github.com/marbeck/relievo/pkg/pipeline"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms relievo Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: corner-radius -> corner_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing settings through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPlate wraps pipeline.PlateSettings so plate/disc results can flow
// through holes and emit.
type sexpPlate struct {
	settings pipeline.PlateSettings
}

func (p *sexpPlate) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %.0fx%.0fx%.1f)", p.settings.Shape,
		p.settings.Width, p.settings.Height, p.settings.Thickness)
}
func (p *sexpPlate) Type() *zygo.RegisteredType { return nil }

// sexpRelief wraps pipeline.ReliefSettings.
type sexpRelief struct {
	settings pipeline.ReliefSettings
}

func (r *sexpRelief) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(relief %.0fx%.0f depth %.1f)",
		r.settings.Width, r.settings.Height, r.settings.MaxDepth)
}
func (r *sexpRelief) Type() *zygo.RegisteredType { return nil }

// sexpTrace wraps pipeline.TraceSettings.
type sexpTrace struct {
	settings pipeline.TraceSettings
}

func (t *sexpTrace) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(trace threshold %d depth %.1f)",
		t.settings.Threshold, t.settings.Depth)
}
func (t *sexpTrace) Type() *zygo.RegisteredType { return nil }

// sexpStrokes wraps pipeline.StrokeSettings.
type sexpStrokes struct {
	settings pipeline.StrokeSettings
}

func (s *sexpStrokes) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(strokes threshold %d gap %.1f)",
		s.settings.Threshold, s.settings.MaxGap)
}
func (s *sexpStrokes) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float pulls an optional numeric keyword into dst, formatting errors with
// the builtin and keyword name.
func (a kwArgs) float(builtin, name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", builtin, name, err)
	}
	*dst = f
	return nil
}

// integer pulls an optional integer keyword into dst.
func (a kwArgs) integer(builtin, name string, dst *int) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", builtin, name, err)
	}
	*dst = int(f)
	return nil
}

// boolean pulls an optional boolean keyword into dst. A bare trailing
// keyword (nil value) counts as true.
func (a kwArgs) boolean(builtin, name string, dst *bool) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	if v == zygo.SexpNull {
		*dst = true
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", builtin, name, err)
	}
	*dst = b
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_grid) and plain strings ("grid").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toHolePattern converts a keyword or string to a mesh.HolePattern.
func toHolePattern(s zygo.Sexp) (mesh.HolePattern, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return mesh.HoleNone, fmt.Errorf("expected pattern keyword (:corners, :grid, :perimeter): %w", err)
	}
	switch name {
	case "none":
		return mesh.HoleNone, nil
	case "corners":
		return mesh.HoleCorners, nil
	case "grid":
		return mesh.HoleGrid, nil
	case "perimeter":
		return mesh.HolePerimeter, nil
	}
	return mesh.HoleNone, fmt.Errorf("invalid pattern %q, expected none, corners, grid, or perimeter", name)
}

// toPlate extracts plate settings from a sexpPlate.
func toPlate(s zygo.Sexp) (pipeline.PlateSettings, error) {
	if p, ok := s.(*sexpPlate); ok {
		return p.settings, nil
	}
	return pipeline.PlateSettings{}, fmt.Errorf("expected plate, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the relievo DSL builtins into a zygomys
// environment. Shape builtins return settings values; emit appends a Job to
// the provided slice.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, jobs *[]Job) {

	// -----------------------------------------------------------------------
	// (plate :width 100 :height 60 :thickness 3 :corner-radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := pipeline.DefaultPlateSettings()
		s.HolePattern = mesh.HoleNone

		if err := pa.float("plate", "width", &s.Width); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("plate", "height", &s.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("plate", "thickness", &s.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("plate", "corner-radius", &s.CornerRadius); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPlate{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (disc :diameter 60 :thickness 3 :segments 48)
	// -----------------------------------------------------------------------
	env.AddFunction("disc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := pipeline.DefaultPlateSettings()
		s.Shape = pipeline.ShapeDisc
		s.HolePattern = mesh.HoleNone
		s.Width = 60

		if err := pa.float("disc", "diameter", &s.Width); err != nil {
			return zygo.SexpNull, err
		}
		s.Height = s.Width
		if err := pa.float("disc", "thickness", &s.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.integer("disc", "segments", &s.Segments); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPlate{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (holes plate :pattern :corners :diameter 4 :inset 8 :spacing 15)
	// -----------------------------------------------------------------------
	env.AddFunction("holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("holes: expected a plate argument")
		}
		s, err := toPlate(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("holes: %w", err)
		}

		s.HolePattern = mesh.HoleCorners
		if v, ok := pa.kw["pattern"]; ok {
			p, err := toHolePattern(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("holes: pattern: %w", err)
			}
			s.HolePattern = p
		}
		if err := pa.float("holes", "diameter", &s.HoleDiameter); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("holes", "inset", &s.HoleInset); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("holes", "spacing", &s.GridSpacing); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPlate{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (relief :width 100 :height 80 :base 1 :depth 3 :invert true
	//         :smooth 2 :frame true :frame-thickness 4 :frame-depth 5)
	// -----------------------------------------------------------------------
	env.AddFunction("relief", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := pipeline.DefaultReliefSettings()

		if err := pa.float("relief", "width", &s.Width); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("relief", "height", &s.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("relief", "base", &s.BaseThickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("relief", "depth", &s.MaxDepth); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.boolean("relief", "invert", &s.Invert); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.integer("relief", "smooth", &s.SmoothRadius); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.boolean("relief", "frame", &s.FrameEnabled); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("relief", "frame-thickness", &s.FrameThickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("relief", "frame-depth", &s.FrameDepth); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpRelief{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (trace :threshold 128 :min-loop 8 :tolerance 0.5 :depth 3 :width 100)
	// -----------------------------------------------------------------------
	env.AddFunction("trace", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := pipeline.DefaultTraceSettings()

		threshold := int(s.Threshold)
		if err := pa.integer("trace", "threshold", &threshold); err != nil {
			return zygo.SexpNull, err
		}
		s.Threshold = clampUint8(threshold)
		if err := pa.integer("trace", "min-loop", &s.MinLoop); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("trace", "tolerance", &s.SimplifyTol); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("trace", "depth", &s.Depth); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("trace", "width", &s.Width); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpTrace{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (strokes :threshold 128 :max-gap 5 :tolerance 1)
	// -----------------------------------------------------------------------
	env.AddFunction("strokes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := pipeline.DefaultStrokeSettings()

		threshold := int(s.Threshold)
		if err := pa.integer("strokes", "threshold", &threshold); err != nil {
			return zygo.SexpNull, err
		}
		s.Threshold = clampUint8(threshold)
		if err := pa.float("strokes", "max-gap", &s.MaxGap); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("strokes", "tolerance", &s.SimplifyTol); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpStrokes{settings: s}, nil
	})

	// -----------------------------------------------------------------------
	// (emit "mount" (holes (plate :width 100) :pattern :corners))
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("emit: expected a name and a shape")
		}
		jobName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
		}

		job := Job{Name: jobName}
		switch v := pa.positional[1].(type) {
		case *sexpPlate:
			s := v.settings
			job.Kind = JobPlate
			job.Plate = &s
		case *sexpRelief:
			s := v.settings
			job.Kind = JobRelief
			job.Relief = &s
		case *sexpTrace:
			s := v.settings
			job.Kind = JobTrace
			job.Trace = &s
		case *sexpStrokes:
			s := v.settings
			job.Kind = JobStrokes
			job.Strokes = &s
		default:
			return zygo.SexpNull, fmt.Errorf("emit: expected a shape, got %T (%s)",
				pa.positional[1], pa.positional[1].SexpString(nil))
		}

		*jobs = append(*jobs, job)
		return pa.positional[1], nil
	})
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
