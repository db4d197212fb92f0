package engine

import (
	"testing"

	"github.com/marbeck/relievo/pkg/mesh"
	"github.com/marbeck/relievo/pkg/pipeline"
)

// evalJobs evaluates source and fails the test on any error.
func evalJobs(t *testing.T, source string) []Job {
	t.Helper()
	eng := NewEngine()
	jobs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return jobs
}

func TestPreprocessSource(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{":width", `"__kw_width"`},
		{":corner-radius", `"__kw_corner-radius"`},
		{"corner-radius", "corner_radius"},
		{`"keep-hyphens :and :keywords"`, `"keep-hyphens :and :keywords"`},
		{"; comment :width", "// comment :width"},
		{"(- 5 3)", "(- 5 3)"},
		{"x := 1", "x := 1"},
	}
	for _, c := range cases {
		if got := preprocessSource(c.in); got != c.want {
			t.Errorf("preprocessSource(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPlateBuiltin(t *testing.T) {
	jobs := evalJobs(t, `(emit "mount" (plate :width 120 :height 80 :thickness 4 :corner-radius 6))`)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}

	job := jobs[0]
	if job.Kind != JobPlate || job.Name != "mount" || job.Plate == nil {
		t.Fatalf("job = %+v, want a plate named mount", job)
	}
	s := job.Plate
	if s.Width != 120 || s.Height != 80 || s.Thickness != 4 || s.CornerRadius != 6 {
		t.Errorf("settings = %+v", s)
	}
	if s.Shape != pipeline.ShapeBox {
		t.Errorf("shape = %q, want box", s.Shape)
	}
	if s.HolePattern != mesh.HoleNone {
		t.Errorf("plate without holes has pattern %v", s.HolePattern)
	}
}

func TestDiscBuiltin(t *testing.T) {
	jobs := evalJobs(t, `(emit "coaster" (disc :diameter 90 :thickness 5 :segments 48))`)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}

	s := jobs[0].Plate
	if s == nil {
		t.Fatal("disc job carries no plate settings")
	}
	if s.Shape != pipeline.ShapeDisc || s.Width != 90 || s.Thickness != 5 || s.Segments != 48 {
		t.Errorf("settings = %+v", s)
	}
}

func TestHolesBuiltin(t *testing.T) {
	jobs := evalJobs(t, `
(def base (plate :width 100 :height 60))
(emit "drilled" (holes base :pattern :grid :diameter 5 :inset 10 :spacing 20))
`)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}

	s := jobs[0].Plate
	if s.HolePattern != mesh.HoleGrid {
		t.Errorf("pattern = %v, want grid", s.HolePattern)
	}
	if s.HoleDiameter != 5 || s.HoleInset != 10 || s.GridSpacing != 20 {
		t.Errorf("settings = %+v", s)
	}
}

func TestHolesRequiresPlate(t *testing.T) {
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(`(holes 42 :pattern :corners)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Error("expected eval error for non-plate argument")
	}
}

func TestReliefBuiltin(t *testing.T) {
	jobs := evalJobs(t, `(emit "portrait"
  (relief :width 80 :height 120 :base 1.5 :depth 4 :invert true
          :smooth 2 :frame true :frame-thickness 5 :frame-depth 6))`)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}

	job := jobs[0]
	if job.Kind != JobRelief || job.Relief == nil {
		t.Fatalf("job = %+v, want a relief", job)
	}
	s := job.Relief
	if s.Width != 80 || s.Height != 120 || s.BaseThickness != 1.5 || s.MaxDepth != 4 {
		t.Errorf("settings = %+v", s)
	}
	if !s.Invert || s.SmoothRadius != 2 {
		t.Errorf("invert/smooth = %v/%d", s.Invert, s.SmoothRadius)
	}
	if !s.FrameEnabled || s.FrameThickness != 5 || s.FrameDepth != 6 {
		t.Errorf("frame = %+v", s)
	}
}

func TestTraceAndStrokesBuiltins(t *testing.T) {
	jobs := evalJobs(t, `
(emit "logo" (trace :threshold 200 :min-loop 12 :tolerance 0.8 :depth 2 :width 50))
(emit "sketch" (strokes :threshold 90 :max-gap 6 :tolerance 1.5))
`)
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}

	tr := jobs[0]
	if tr.Kind != JobTrace || tr.Trace == nil {
		t.Fatalf("first job = %+v, want a trace", tr)
	}
	if tr.Trace.Threshold != 200 || tr.Trace.MinLoop != 12 || tr.Trace.Depth != 2 {
		t.Errorf("trace settings = %+v", tr.Trace)
	}

	st := jobs[1]
	if st.Kind != JobStrokes || st.Strokes == nil {
		t.Fatalf("second job = %+v, want strokes", st)
	}
	if st.Strokes.Threshold != 90 || st.Strokes.MaxGap != 6 || st.Strokes.SimplifyTol != 1.5 {
		t.Errorf("stroke settings = %+v", st.Strokes)
	}
}

func TestEmitErrors(t *testing.T) {
	eng := NewEngine()

	for _, source := range []string{
		`(emit (plate :width 10))`,
		`(emit "name" 42)`,
		`(emit 42 (plate))`,
	} {
		_, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("%s: fatal error: %v", source, err)
		}
		if len(evalErrs) == 0 {
			t.Errorf("%s: expected eval error", source)
		}
	}
}

func TestEmitReturnsShapeForChaining(t *testing.T) {
	// emit passes the shape through, so one plate can be emitted twice
	// with different names.
	jobs := evalJobs(t, `(emit "b" (emit "a" (plate :width 30)))`)
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if jobs[0].Name != "a" || jobs[1].Name != "b" {
		t.Errorf("names = %q, %q, want a, b", jobs[0].Name, jobs[1].Name)
	}
}

func TestThresholdClamped(t *testing.T) {
	jobs := evalJobs(t, `(emit "t" (trace :threshold 900))`)
	if jobs[0].Trace.Threshold != 255 {
		t.Errorf("threshold = %d, want clamped to 255", jobs[0].Trace.Threshold)
	}
}
