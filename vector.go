package rayoptics

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Vector is a 2D point or direction in millimetres. It rides on the same
// vector type the rest of the geom ecosystem uses rather than a hand-rolled
// pair, so that arithmetic (Add, Sub, Mul, Dot, Length) is shared with
// everything else built on seehuhn.de/go/geom.
type Vector = vec.Vec2

// unit returns v scaled to unit length. The zero vector maps to itself;
// callers at the few sites where a direction could legitimately be zero
// (degenerate geometry) are expected to reject before this point.
func unit(v Vector) Vector {
	n := v.Length()
	if n < geometryEpsilonFloor {
		return v
	}
	return v.Mul(1 / n)
}

// geometryEpsilonFloor guards unit() against dividing by a near-zero
// length; it is intentionally tighter than GEOMETRY_EPSILON since it only
// prevents a NaN, not a geometric rejection.
const geometryEpsilonFloor = 1e-15

// leftNormal returns the 90-degree counter-clockwise rotation of t, i.e.
// (-t.Y, t.X). This is the left-normal convention used throughout §4.1 of
// the specification: for a segment walked p1->p2, leftNormal(tangent)
// points to the left of the direction of travel.
func leftNormal(t Vector) Vector {
	return Vector{X: -t.Y, Y: t.X}
}

// rotate2D rotates v by angle radians counter-clockwise.
func rotate2D(v Vector, angle float64) Vector {
	s, c := math.Sincos(angle)
	return Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}
