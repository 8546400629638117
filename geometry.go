package rayoptics

import "math"

// LineSegment is a finite flat interface between p1 and p2, in millimetres.
type LineSegment struct {
	P1, P2 Vector
}

// CurvedSegment is a circular arc through p1 and p2. The sign of Radius
// picks one of the two arcs joining the endpoints: positive puts the
// centre on the left of the p1->p2 chord, negative puts it on the right.
type CurvedSegment struct {
	P1, P2 Vector
	Radius float64
}

// Geometry is implemented by LineSegment and CurvedSegment. It is a closed
// set: base.Intersect only needs to handle these two cases, so adding a
// third geometry kind is a single place to edit (here, and in
// base.Intersect).
type Geometry interface {
	geometryMarker()
}

func (LineSegment) geometryMarker()  {}
func (CurvedSegment) geometryMarker() {}

// chord returns the tangent, left-normal, midpoint, and length of the
// segment from a to b. Degenerate (a == b) segments return ok == false.
func chord(a, b Vector, eps float64) (t, n, center Vector, length float64, ok bool) {
	d := b.Sub(a)
	length = d.Length()
	if length < eps {
		return Vector{}, Vector{}, Vector{}, 0, false
	}
	t = d.Mul(1 / length)
	n = leftNormal(t)
	center = a.Add(b).Mul(0.5)
	return t, n, center, length, true
}

// arcCenter returns the centre of the circle of the given signed radius
// passing through p1 and p2. ok is false when the chord is degenerate or
// the radius is too short to span it (both are treated as no-hit by
// callers, per spec.md §4.1/§7).
func arcCenter(p1, p2 Vector, radius, eps float64) (center Vector, ok bool) {
	_, n, mid, length, ok := chord(p1, p2, eps)
	if !ok {
		return Vector{}, false
	}
	r := math.Abs(radius)
	half := length / 2
	if r < half {
		return Vector{}, false
	}
	d := math.Sqrt(r*r - half*half)
	// n is the left-normal of p1->p2; positive radius puts the centre on
	// the left of the chord (same convention spec.md §3 fixes for
	// segment normals), negative on the right.
	if radius > 0 {
		return mid.Add(n.Mul(d)), true
	}
	return mid.Sub(n.Mul(d)), true
}

// Hit is the result of a successful ray/geometry intersection test.
type Hit struct {
	// Distance is the ray parameter t such that X = P + Distance*V/|V|... in
	// practice callers pass a unit V, so Distance is arclength in mm.
	Distance float64
	Point    Vector
	Tangent  Vector // unit tangent at the hit, facing p1->p2 (pre-flip)
	// Normal is the unit normal at the hit (pre-flip): the left normal of
	// p1->p2 for a LineSegment; for a CurvedSegment the radial direction,
	// negated for negative radius, which points to the right of the chord.
	Normal Vector
}

// intersectSegment implements spec.md §4.1's segment-intersection algorithm.
// P, V is the ray (V need not be unit length); ok is false for any of the
// rejection cases the spec enumerates (degenerate segment, parallel ray,
// hit behind the origin, hit outside the segment's span).
func intersectSegment(p, v Vector, seg LineSegment, eps float64) (hit Hit, ok bool) {
	t, n, center, length, ok := chord(seg.P1, seg.P2, eps)
	if !ok {
		return Hit{}, false
	}
	denom := v.Dot(n)
	if math.Abs(denom) < eps {
		return Hit{}, false
	}
	tParam := center.Sub(p).Dot(n) / denom
	if tParam <= eps {
		return Hit{}, false
	}
	x := p.Add(v.Mul(tParam))
	s := x.Sub(center).Dot(t)
	if math.Abs(s) > length/2+1e-7 {
		return Hit{}, false
	}
	return Hit{
		Distance: tParam * v.Length(),
		Point:    x,
		Tangent:  t,
		Normal:   n,
	}, true
}

// intersectArc implements spec.md §4.1's arc-intersection algorithm: solve
// the quadratic for the ray parameter against the circle of the given
// centre/radius, then reject roots that land outside the p1-p2 arc span.
func intersectArc(p, v Vector, arc CurvedSegment, eps float64) (hit Hit, ok bool) {
	center, ok := arcCenter(arc.P1, arc.P2, arc.Radius, eps)
	if !ok {
		return Hit{}, false
	}
	r := math.Abs(arc.Radius)
	m := p.Sub(center)
	vv := v.Dot(v)
	if vv < eps {
		return Hit{}, false
	}
	b := v.Dot(m)
	c := m.Dot(m) - r*r
	disc := b*b - vv*c
	if disc <= 0 {
		return Hit{}, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / vv
	t2 := (-b + sq) / vv

	// try the smaller positive root first, then the larger.
	for _, tParam := range orderedRoots(t1, t2, eps) {
		x := p.Add(v.Mul(tParam))
		if !onArcSpan(x, center, arc, eps) {
			continue
		}
		radial := x.Sub(center)
		normal := radial.Mul(1 / radial.Length())
		if arc.Radius < 0 {
			normal = normal.Mul(-1)
		}
		tangent := Vector{X: -normal.Y, Y: normal.X}
		return Hit{
			Distance: tParam * v.Length(),
			Point:    x,
			Tangent:  tangent,
			Normal:   normal,
		}, true
	}
	return Hit{}, false
}

// orderedRoots returns the roots greater than eps, smallest first.
func orderedRoots(t1, t2, eps float64) []float64 {
	var out []float64
	lo, hi := t1, t2
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo > eps {
		out = append(out, lo)
	}
	if hi > eps {
		out = append(out, hi)
	}
	return out
}

// onArcSpan reports whether point x, known to lie on the full circle
// through arc.P1/arc.P2, lies on the minor arc between them — the shallow,
// shorter-angular-path side, which is the arc a curved optical surface
// (lens/mirror face with a sagitta small relative to its chord) represents.
func onArcSpan(x, center Vector, arc CurvedSegment, eps float64) bool {
	angleOf := func(pt Vector) float64 {
		d := pt.Sub(center)
		return math.Atan2(d.Y, d.X)
	}
	a1 := angleOf(arc.P1)
	a2 := angleOf(arc.P2)
	ax := angleOf(x)

	// normalizeDiff folds an angle difference into (-pi, pi].
	normalizeDiff := func(a float64) float64 {
		for a <= -math.Pi {
			a += 2 * math.Pi
		}
		for a > math.Pi {
			a -= 2 * math.Pi
		}
		return a
	}

	total := normalizeDiff(a2 - a1)
	toX := normalizeDiff(ax - a1)
	if total >= 0 {
		return toX >= -eps && toX <= total+eps
	}
	return toX <= eps && toX >= total-eps
}

// candidateHit is one element's intersection outcome packaged with the
// element it came from and its index in the elements slice, so nearestHit
// can break distance ties by that index.
type candidateHit struct {
	Hit
	element Element
	index   int
}

// nearestHit scans every element except `exclude`, returning the closest
// intersection within `remaining` distance. found is false when no element
// is hit within budget, meaning the ray escapes.
func nearestHit(p, v Vector, elements []Element, exclude Element, remaining, eps float64) (best candidateHit, found bool) {
	for i, el := range elements {
		if exclude != nil && el.ID() == exclude.ID() {
			continue
		}
		hit, ok := el.Intersect(p, v, eps)
		if !ok {
			continue
		}
		if hit.Distance > remaining {
			continue
		}
		cand := candidateHit{Hit: hit, element: el, index: i}
		if !found || cand.Distance < best.Distance ||
			(cand.Distance == best.Distance && cand.index < best.index) {
			best = cand
			found = true
		}
	}
	return best, found
}
