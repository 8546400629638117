package scene

import (
	"log"
	"testing"

	"github.com/lumenforge/rayoptics"
)

func init() {
	// Silence diagnostic logging during tests; Validate's return value is
	// what the tests check, not the log line.
	Logger = log.New(discard{}, "", 0)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestValidateFlagsDegenerateSegment(t *testing.T) {
	el := rayoptics.NewMirror("m1", rayoptics.LineSegment{
		P1: rayoptics.Vector{X: 1, Y: 1}, P2: rayoptics.Vector{X: 1, Y: 1},
	}, 1)
	diags := Validate([]rayoptics.Element{el}, nil, 1e-9)
	if !hasSeverity(diags, Error) {
		t.Errorf("expected an Error diagnostic for a degenerate segment, got %+v", diags)
	}
}

func TestValidateFlagsArcRadiusTooSmall(t *testing.T) {
	el := rayoptics.NewMirror("m1", rayoptics.CurvedSegment{
		P1: rayoptics.Vector{X: -10, Y: 0}, P2: rayoptics.Vector{X: 10, Y: 0}, Radius: 1,
	}, 1)
	diags := Validate([]rayoptics.Element{el}, nil, 1e-9)
	if !hasSeverity(diags, Error) {
		t.Errorf("expected an Error diagnostic for a radius shorter than the chord, got %+v", diags)
	}
}

func TestValidateFlagsBadRefractiveIndices(t *testing.T) {
	el := rayoptics.NewRefractive("r1", rayoptics.LineSegment{
		P1: rayoptics.Vector{X: -1, Y: 0}, P2: rayoptics.Vector{X: 1, Y: 0},
	}, -1, 1.5)
	diags := Validate([]rayoptics.Element{el}, nil, 1e-9)
	if !hasSeverity(diags, Error) {
		t.Errorf("expected an Error diagnostic for a non-positive refractive index, got %+v", diags)
	}
}

func TestValidateWarnsOnBeamsplitterOverUnity(t *testing.T) {
	el := rayoptics.NewBeamsplitter("bs1", rayoptics.LineSegment{
		P1: rayoptics.Vector{X: -1, Y: 0}, P2: rayoptics.Vector{X: 1, Y: 0},
	}, 0.9, 0.9, false, 0)
	diags := Validate([]rayoptics.Element{el}, nil, 1e-9)
	if !hasSeverity(diags, Warning) {
		t.Errorf("expected a Warning diagnostic for T+R > 1, got %+v", diags)
	}
}

func TestValidateFlagsBadSource(t *testing.T) {
	src := rayoptics.SourceDescriptor{RayCount: 0, WavelengthNm: 500}
	diags := Validate(nil, []rayoptics.SourceDescriptor{src}, 1e-9)
	if !hasSeverity(diags, Error) {
		t.Errorf("expected an Error diagnostic for RayCount < 1, got %+v", diags)
	}
}

func TestValidateCleanSceneHasNoDiagnostics(t *testing.T) {
	el := rayoptics.NewMirror("m1", rayoptics.LineSegment{
		P1: rayoptics.Vector{X: -1, Y: 0}, P2: rayoptics.Vector{X: 1, Y: 0},
	}, 0.9)
	src := rayoptics.SourceDescriptor{RayCount: 1, RayLengthMM: 10, WavelengthNm: 500}
	diags := Validate([]rayoptics.Element{el}, []rayoptics.SourceDescriptor{src}, 1e-9)
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for a well-formed scene, got %+v", diags)
	}
}

func TestBoundingBoxCoversAllGeometryAndSources(t *testing.T) {
	el := rayoptics.NewMirror("m1", rayoptics.LineSegment{
		P1: rayoptics.Vector{X: -10, Y: 5}, P2: rayoptics.Vector{X: 20, Y: -5},
	}, 1)
	src := rayoptics.SourceDescriptor{Position: rayoptics.Vector{X: 0, Y: 100}}
	box := BoundingBox([]rayoptics.Element{el}, []rayoptics.SourceDescriptor{src}, 2)

	if box.LLx > -12 || box.LLy > -7 || box.URx < 22 || box.URy < 102 {
		t.Errorf("bounding box %+v does not cover geometry+source with 2mm margin", box)
	}
}

func TestBoundingBoxEmptySceneIsZero(t *testing.T) {
	box := BoundingBox(nil, nil, 5)
	if box.LLx != 0 || box.LLy != 0 || box.URx != 0 || box.URy != 0 {
		t.Errorf("expected the zero Rect for an empty scene, got %+v", box)
	}
}

func hasSeverity(diags []Diagnostic, sev Severity) bool {
	for _, d := range diags {
		if d.Severity == sev {
			return true
		}
	}
	return false
}
