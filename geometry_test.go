package rayoptics

import (
	"math"
	"testing"
)

func TestIntersectSegmentHitsPerpendicular(t *testing.T) {
	seg := LineSegment{P1: Vector{X: -1, Y: 0}, P2: Vector{X: 1, Y: 0}}
	hit, ok := intersectSegment(Vector{X: 0, Y: -5}, Vector{X: 0, Y: 1}, seg, 1e-9)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Distance-5) > 1e-9 {
		t.Errorf("Distance = %v, want 5", hit.Distance)
	}
	if hit.Point.Sub(Vector{X: 0, Y: 0}).Length() > 1e-9 {
		t.Errorf("Point = %v, want origin", hit.Point)
	}
}

func TestIntersectSegmentRejectsParallel(t *testing.T) {
	seg := LineSegment{P1: Vector{X: -1, Y: 0}, P2: Vector{X: 1, Y: 0}}
	_, ok := intersectSegment(Vector{X: 0, Y: -5}, Vector{X: 1, Y: 0}, seg, 1e-9)
	if ok {
		t.Errorf("expected no hit for a ray parallel to the segment")
	}
}

func TestIntersectSegmentRejectsBehindOrigin(t *testing.T) {
	seg := LineSegment{P1: Vector{X: -1, Y: 0}, P2: Vector{X: 1, Y: 0}}
	_, ok := intersectSegment(Vector{X: 0, Y: 5}, Vector{X: 0, Y: 1}, seg, 1e-9)
	if ok {
		t.Errorf("expected no hit: segment is behind the ray's origin")
	}
}

func TestIntersectSegmentRejectsOutsideSpan(t *testing.T) {
	seg := LineSegment{P1: Vector{X: -1, Y: 0}, P2: Vector{X: 1, Y: 0}}
	_, ok := intersectSegment(Vector{X: 5, Y: -5}, Vector{X: 0, Y: 1}, seg, 1e-9)
	if ok {
		t.Errorf("expected no hit: ray crosses the line outside the segment's span")
	}
}

func TestIntersectSegmentRejectsDegenerate(t *testing.T) {
	seg := LineSegment{P1: Vector{X: 3, Y: 4}, P2: Vector{X: 3, Y: 4}}
	_, ok := intersectSegment(Vector{X: 0, Y: 0}, Vector{X: 1, Y: 1}, seg, 1e-9)
	if ok {
		t.Errorf("expected no hit for a degenerate (zero-length) segment")
	}
}

func TestIntersectArcHitsConvexSide(t *testing.T) {
	// Arc through (-1,0) and (1,0), radius 1: the radius equals half the
	// chord, so the centre is the chord midpoint (0,0) and the arc is the
	// lower half circle. The centre is taken from arcCenter rather than
	// hardcoded.
	arc := CurvedSegment{P1: Vector{X: -1, Y: 0}, P2: Vector{X: 1, Y: 0}, Radius: 1}
	center, ok := arcCenter(arc.P1, arc.P2, arc.Radius, 1e-9)
	if !ok {
		t.Fatalf("arcCenter failed")
	}
	// Fire a ray from far below straight up; it should cross the near arc
	// surface before reaching the centre's side.
	origin := Vector{X: 0, Y: center.Y - 10}
	hit, ok := intersectArc(origin, Vector{X: 0, Y: 1}, arc, 1e-9)
	if !ok {
		t.Fatalf("expected a hit on the arc")
	}
	if math.Abs(hit.Point.Sub(center).Length()-1) > 1e-6 {
		t.Errorf("hit point is not on the circle of radius 1: got distance %v from centre", hit.Point.Sub(center).Length())
	}
}

func TestIntersectArcRejectsRadiusShorterThanChord(t *testing.T) {
	arc := CurvedSegment{P1: Vector{X: -5, Y: 0}, P2: Vector{X: 5, Y: 0}, Radius: 1}
	_, ok := intersectArc(Vector{X: 0, Y: -20}, Vector{X: 0, Y: 1}, arc, 1e-9)
	if ok {
		t.Errorf("expected no hit: radius 1 cannot span a chord of length 10")
	}
}

func TestNearestHitBreaksTiesByIndex(t *testing.T) {
	// Two coincident mirrors at the same distance; nearestHit must always
	// pick the one with the lower slice index, deterministically.
	g := LineSegment{P1: Vector{X: -1, Y: 5}, P2: Vector{X: 1, Y: 5}}
	a := NewMirror("a", g, 1)
	b := NewMirror("b", g, 1)
	elements := []Element{a, b}

	best, found := nearestHit(Vector{X: 0, Y: 0}, Vector{X: 0, Y: 1}, elements, nil, 100, 1e-9)
	if !found {
		t.Fatalf("expected a hit")
	}
	if best.element.ID() != "a" {
		t.Errorf("nearestHit picked %q, want the lower-index element %q", best.element.ID(), "a")
	}
}

func TestNearestHitExcludesSelf(t *testing.T) {
	g := LineSegment{P1: Vector{X: -1, Y: 5}, P2: Vector{X: 1, Y: 5}}
	self := NewMirror("self", g, 1)
	elements := []Element{self}

	_, found := nearestHit(Vector{X: 0, Y: 0}, Vector{X: 0, Y: 1}, elements, self, 100, 1e-9)
	if found {
		t.Errorf("expected no hit: the only element is excluded")
	}
}

func TestNearestHitRejectsBeyondRemaining(t *testing.T) {
	g := LineSegment{P1: Vector{X: -1, Y: 10}, P2: Vector{X: 1, Y: 10}}
	m := NewMirror("m", g, 1)
	_, found := nearestHit(Vector{X: 0, Y: 0}, Vector{X: 0, Y: 1}, []Element{m}, nil, 5, 1e-9)
	if found {
		t.Errorf("expected no hit: element is farther than remaining budget")
	}
}

func TestOrientHitFlipsTowardIncomingRay(t *testing.T) {
	hit := Hit{Normal: Vector{X: 0, Y: 1}, Tangent: Vector{X: 1, Y: 0}}
	oriented := orientHit(Vector{X: 0, Y: 1}, hit)
	if oriented.Normal.Dot(Vector{X: 0, Y: 1}) >= 0 {
		t.Errorf("orientHit did not flip the normal to face the incoming ray")
	}
	// tangent must flip together with the normal to stay right-handed.
	if oriented.Tangent.X != -1 {
		t.Errorf("orientHit flipped normal without flipping tangent")
	}
}
