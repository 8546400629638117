// Package scene provides scene-assembly and validation helpers that sit in
// front of the rayoptics engine: stable element/source containers and a
// validator for the "recommended preconditions" spec.md §7 leaves as the
// caller's responsibility. It is not a scene-editing UI — no interactivity,
// selection, drag/drop, or persistence lives here.
package scene

import (
	"fmt"
	"log"

	"github.com/lumenforge/rayoptics"
	"seehuhn.de/go/geom/rect"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	// Warning diagnostics describe scenes the engine will still trace —
	// spec.md §7 treats these as caller responsibility, not engine errors.
	Warning Severity = iota
	// Error diagnostics describe geometry the kernel will silently treat
	// as a no-hit (degenerate segments, arcs whose radius cannot span
	// their chord), which leaves the element invisible to every ray, as
	// well as non-positive refractive indices and invalid source
	// parameters. Tracing still runs.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one non-fatal finding from Validate.
type Diagnostic struct {
	Severity Severity
	ElementID string // "source[i]" for source-level diagnostics
	Message  string
}

func (d Diagnostic) String() string {
	if d.ElementID == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: element %q: %s", d.Severity, d.ElementID, d.Message)
}

// Logger receives one line per diagnostic when non-nil. Validate itself
// never panics or aborts on a diagnostic; logging is purely informational,
// matching spec.md §7's "caller responsibility" stance.
var Logger = log.Default()

// Validate checks elements and sources against the preconditions spec.md
// §7 recommends (not requires) and returns every violation found. It does
// not mutate its arguments and does not call into rayoptics.Trace.
func Validate(elements []rayoptics.Element, sources []rayoptics.SourceDescriptor, eps float64) []Diagnostic {
	var diags []Diagnostic
	emit := func(d Diagnostic) {
		diags = append(diags, d)
		if Logger != nil {
			Logger.Printf("scene: %s", d)
		}
	}

	for _, el := range elements {
		checkGeometry(el, eps, emit)
		checkProperties(el, emit)
	}
	for i, src := range sources {
		checkSource(i, src, emit)
	}
	return diags
}

func checkGeometry(el rayoptics.Element, eps float64, emit func(Diagnostic)) {
	switch g := el.Geometry().(type) {
	case rayoptics.LineSegment:
		if g.P1.Sub(g.P2).Length() < eps {
			emit(Diagnostic{Severity: Error, ElementID: el.ID(), Message: "p1 == p2: degenerate segment, element is invisible to every ray"})
		}
	case rayoptics.CurvedSegment:
		chord := g.P1.Sub(g.P2).Length()
		if chord < eps {
			emit(Diagnostic{Severity: Error, ElementID: el.ID(), Message: "p1 == p2: degenerate arc endpoints"})
		} else if absF(g.Radius) < chord/2 {
			emit(Diagnostic{Severity: Error, ElementID: el.ID(), Message: "radius too small to span the chord between p1 and p2"})
		}
	}
}

func checkProperties(el rayoptics.Element, emit func(Diagnostic)) {
	switch v := el.(type) {
	case *rayoptics.Refractive:
		if v.N1 <= 0 || v.N2 <= 0 {
			emit(Diagnostic{Severity: Error, ElementID: el.ID(), Message: "refractive indices must be > 0"})
		}
	case *rayoptics.Beamsplitter:
		if v.T < 0 || v.T > 1 || v.R < 0 || v.R > 1 {
			emit(Diagnostic{Severity: Warning, ElementID: el.ID(), Message: "T/R outside [0, 1]; the engine clamps each weight to [0, 1]"})
		}
		if v.T+v.R > 1 {
			emit(Diagnostic{Severity: Warning, ElementID: el.ID(), Message: "T + R > 1: this beamsplitter amplifies intensity rather than conserving it"})
		}
	case *rayoptics.Dichroic:
		if v.TransitionWidthNm <= 0 {
			emit(Diagnostic{Severity: Warning, ElementID: el.ID(), Message: "transition width <= 0 produces a hard step rather than a smooth one"})
		}
	case *rayoptics.Mirror:
		if v.Reflectivity < 0 || v.Reflectivity > 1 {
			emit(Diagnostic{Severity: Warning, ElementID: el.ID(), Message: "reflectivity outside [0, 1]"})
		}
	}
}

func checkSource(index int, src rayoptics.SourceDescriptor, emit func(Diagnostic)) {
	id := fmt.Sprintf("source[%d]", index)
	if src.RayCount < 1 {
		emit(Diagnostic{Severity: Error, ElementID: id, Message: "ray_count must be >= 1"})
	}
	if src.RayLengthMM < 0 {
		emit(Diagnostic{Severity: Error, ElementID: id, Message: "ray_length must be >= 0"})
	}
	if src.WavelengthNm <= 0 {
		emit(Diagnostic{Severity: Error, ElementID: id, Message: "wavelength must be > 0"})
	}
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// BoundingBox returns the smallest axis-aligned rectangle containing every
// element's geometry endpoints and every source position, padded by
// margin on each side. It is primarily useful as a default viewport for
// rayoptics/render. An empty scene returns the zero Rect.
func BoundingBox(elements []rayoptics.Element, sources []rayoptics.SourceDescriptor, margin float64) rect.Rect {
	first := true
	var box rect.Rect
	extend := func(v rayoptics.Vector) {
		if first {
			box = rect.Rect{LLx: v.X, LLy: v.Y, URx: v.X, URy: v.Y}
			first = false
			return
		}
		if v.X < box.LLx {
			box.LLx = v.X
		}
		if v.Y < box.LLy {
			box.LLy = v.Y
		}
		if v.X > box.URx {
			box.URx = v.X
		}
		if v.Y > box.URy {
			box.URy = v.Y
		}
	}

	for _, el := range elements {
		switch g := el.Geometry().(type) {
		case rayoptics.LineSegment:
			extend(g.P1)
			extend(g.P2)
		case rayoptics.CurvedSegment:
			extend(g.P1)
			extend(g.P2)
		}
	}
	for _, src := range sources {
		extend(src.Position)
	}

	if first {
		return rect.Rect{}
	}
	box.LLx -= margin
	box.LLy -= margin
	box.URx += margin
	box.URy += margin
	return box
}
