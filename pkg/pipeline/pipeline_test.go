package pipeline_test

import (
	"bytes"
	"testing"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/mesh"
	"github.com/marbeck/relievo/pkg/pipeline"
	"github.com/marbeck/relievo/pkg/stl"
)

// grayRect paints a white-on-black rectangle for the image generators.
func grayRect(w, h, x0, y0, x1, y1 int) []uint8 {
	g := make([]uint8, w*h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g[y*w+x] = 255
		}
	}
	return g
}

func headerOf(t *testing.T, data []byte) (string, uint32) {
	t.Helper()
	name, count, err := stl.ReadBinaryHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return name, count
}

func TestGeneratePlateBox(t *testing.T) {
	s := pipeline.DefaultPlateSettings()
	data, warnings, err := pipeline.GeneratePlate(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("default settings produced warnings: %v", warnings)
	}

	name, count := headerOf(t, data)
	if name != "plate" {
		t.Errorf("solid name = %q, want plate", name)
	}
	// 12 box triangles plus 2 wall triangles per hole segment, 4 holes.
	want := uint32(12 + 4*2*16)
	if count != want {
		t.Errorf("triangle count = %d, want %d", count, want)
	}
}

func TestGeneratePlateRoundedCorners(t *testing.T) {
	s := pipeline.DefaultPlateSettings()
	s.CornerRadius = 10
	s.HolePattern = mesh.HoleNone
	data, _, err := pipeline.GeneratePlate(s)
	if err != nil {
		t.Fatal(err)
	}
	_, count := headerOf(t, data)
	if count <= 12 {
		t.Errorf("rounded plate has %d triangles, want more than a plain box", count)
	}
}

func TestGeneratePlateDisc(t *testing.T) {
	s := pipeline.DefaultPlateSettings()
	s.Shape = pipeline.ShapeDisc
	s.Width = 60
	s.HoleInset = 12
	data, _, err := pipeline.GeneratePlate(s)
	if err != nil {
		t.Fatal(err)
	}
	_, count := headerOf(t, data)
	// Disc body plus four corner holes that fit inside the outline.
	want := uint32(4*s.Segments + 4*2*16)
	if count != want {
		t.Errorf("triangle count = %d, want %d", count, want)
	}
}

func TestGeneratePlateClampsInvalid(t *testing.T) {
	s := pipeline.PlateSettings{Shape: "hex", Width: -5}
	data, warnings, err := pipeline.GeneratePlate(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) == 0 {
		t.Error("invalid settings produced no warnings")
	}
	if _, count := headerOf(t, data); count == 0 {
		t.Error("clamped settings produced an empty mesh")
	}
}

func TestGenerateRelief(t *testing.T) {
	const w, h = 16, 12
	gray := grayRect(w, h, 4, 3, 12, 9)
	s := pipeline.DefaultReliefSettings()
	s.SmoothRadius = 0

	data, warnings, err := pipeline.GenerateRelief(gray, w, h, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	name, count := headerOf(t, data)
	if name != "relief" {
		t.Errorf("solid name = %q, want relief", name)
	}
	cells := (w - 1) * (h - 1)
	walls := 2*(w-1) + 2*(h-1)
	if want := uint32(2*cells + 2 + 2*walls); count != want {
		t.Errorf("triangle count = %d, want %d", count, want)
	}
}

func TestGenerateReliefRejectsBadBuffers(t *testing.T) {
	s := pipeline.DefaultReliefSettings()
	if _, _, err := pipeline.GenerateRelief(make([]uint8, 10), 16, 12, s); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, _, err := pipeline.GenerateRelief(nil, 0, 0, s); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestGenerateTraced(t *testing.T) {
	const w, h = 64, 64
	gray := grayRect(w, h, 16, 16, 48, 48)
	s := pipeline.DefaultTraceSettings()

	data, _, err := pipeline.GenerateTraced(gray, w, h, s)
	if err != nil {
		t.Fatal(err)
	}
	name, count := headerOf(t, data)
	if name != "traced" {
		t.Errorf("solid name = %q, want traced", name)
	}
	if count < 8 {
		t.Errorf("triangle count = %d, want a full extruded square", count)
	}
}

func TestGenerateTracedEmptyImage(t *testing.T) {
	gray := make([]uint8, 64*64)
	if _, _, err := pipeline.GenerateTraced(gray, 64, 64, pipeline.DefaultTraceSettings()); err == nil {
		t.Error("expected error for blank image")
	}
}

func TestGenerateStrokes(t *testing.T) {
	const w, h = 80, 40
	// Two horizontal bars on the same row, separated by a small gap.
	gray := grayRect(w, h, 5, 18, 35, 22)
	bar2 := grayRect(w, h, 39, 18, 70, 22)
	for i, v := range bar2 {
		if v != 0 {
			gray[i] = v
		}
	}

	s := pipeline.DefaultStrokeSettings()
	s.MaxGap = 12
	result, _, err := pipeline.GenerateStrokes(gray, w, h, s)
	if err != nil {
		t.Fatal(err)
	}
	if result.Connections == 0 {
		t.Errorf("connections = %d, want the gap bridged", result.Connections)
	}
	if result.ConnectedCount >= result.OriginalCount {
		t.Errorf("connected %d of %d paths, want fewer after bridging",
			result.ConnectedCount, result.OriginalCount)
	}
	if len(result.Paths) == 0 || result.TotalLength <= 0 {
		t.Errorf("result = %+v, want non-empty paths with positive length", result)
	}
}

func TestGenerateExtrusion(t *testing.T) {
	square := geom.Path{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}
	data, err := pipeline.GenerateExtrusion([]geom.Path{square}, 5, "text")
	if err != nil {
		t.Fatal(err)
	}
	name, count := headerOf(t, data)
	if name != "text" || count != 12 {
		t.Errorf("header = (%q, %d), want (text, 12)", name, count)
	}

	if _, err := pipeline.GenerateExtrusion(nil, 5, "empty"); err == nil {
		t.Error("expected error for no loops")
	}
}

func TestValidateAndClampWarnings(t *testing.T) {
	s := pipeline.ReliefSettings{Width: -1, MaxDepth: 0, SmoothRadius: -2}
	warnings := s.ValidateAndClamp()
	if len(warnings) < 3 {
		t.Fatalf("warnings = %v, want findings for width, maxDepth, smoothRadius", warnings)
	}
	if s.Width <= 0 || s.MaxDepth <= 0 || s.SmoothRadius != 0 {
		t.Errorf("settings not clamped: %+v", s)
	}
}
