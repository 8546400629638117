package rayoptics

import "math"

// Element is implemented by the closed set of optical element variants:
// Mirror, ThinLens, Refractive, Beamsplitter, Waveplate, Dichroic. There is
// no string-based type tag anywhere in the dispatch path — the driver
// calls Intersect and Interact directly through this interface, and each
// concrete type supplies its own interaction law. Adding a new variant is
// a single new type implementing this interface; nothing else in the
// driver changes.
type Element interface {
	// ID returns a stable identity, unique within one Trace call, used to
	// exclude an element from self-reintersection. Nearest-hit distance ties
	// are broken by the element's position in the elements slice, not by ID.
	ID() string

	// Geometry returns the element's segment or arc.
	Geometry() Geometry

	// Intersect tests a ray against this element's geometry.
	Intersect(p, v Vector, eps float64) (Hit, bool)

	// Interact computes the outgoing rays produced when ray hits this
	// element at hit. It must not mutate ray or the element itself.
	Interact(ray Ray, hit Hit, budgets Budgets) []Ray
}

// base is embedded by every element variant to supply ID, Geometry, and
// Intersect uniformly; each variant adds only its own Interact method.
type base struct {
	IDValue string
	Geom    Geometry
}

func (b base) ID() string       { return b.IDValue }
func (b base) Geometry() Geometry { return b.Geom }

func (b base) Intersect(p, v Vector, eps float64) (Hit, bool) {
	switch g := b.Geom.(type) {
	case LineSegment:
		return intersectSegment(p, v, g, eps)
	case CurvedSegment:
		return intersectArc(p, v, g, eps)
	default:
		return Hit{}, false
	}
}

// orientHit flips (tangent, normal) together, if needed, so that the
// normal faces the incoming ray (dot(direction, normal) < 0), per spec.md
// invariant 4. Flipping both keeps the local (tangent, normal) frame
// right-handed.
func orientHit(v Vector, hit Hit) Hit {
	if v.Dot(hit.Normal) > 0 {
		hit.Normal = hit.Normal.Mul(-1)
		hit.Tangent = hit.Tangent.Mul(-1)
	}
	return hit
}

// advance produces the shared bookkeeping every outgoing ray needs: offset
// the origin by SelfHitEpsilon along the new direction, extend PathPoints
// with the hit point, decrement RemainingLength by the distance already
// travelled plus the epsilon advance, bump EventsSoFar, and set
// LastElement. dir must already be unit length.
func advance(ray Ray, hit Hit, dir Vector, intensity float64, polarization Jones, self Element, budgets Budgets) Ray {
	out := ray.clone()
	out.PathPoints = append(out.PathPoints, hit.Point)
	traveled := hit.Distance + budgets.SelfHitEpsilon
	out.RemainingLength = ray.RemainingLength - traveled
	out.Position = hit.Point.Add(dir.Mul(budgets.SelfHitEpsilon))
	out.Direction = dir
	out.Intensity = intensity
	out.Polarization = polarization
	out.EventsSoFar = ray.EventsSoFar + 1
	out.LastElement = self
	return out
}

// ---------------------------------------------------------------------
// Mirror

// Mirror reflects an incoming ray, attenuating its intensity by
// Reflectivity. See transformMirror for the polarization convention.
type Mirror struct {
	base
	Reflectivity float64
}

// NewMirror constructs a Mirror with the given stable id, geometry, and
// reflectivity in [0, 1].
func NewMirror(id string, geom Geometry, reflectivity float64) *Mirror {
	return &Mirror{base: base{IDValue: id, Geom: geom}, Reflectivity: reflectivity}
}

func (m *Mirror) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	hit = orientHit(ray.Direction, hit)
	reflected := unit(reflectVec(ray.Direction, hit.Normal))
	pol := transformMirror(ray.Polarization)
	out := advance(ray, hit, reflected, ray.Intensity*m.Reflectivity, pol, m, budgets)
	return []Ray{out}
}

func reflectVec(v, n Vector) Vector {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// ---------------------------------------------------------------------
// ThinLens

// ThinLens bends the ray by the paraxial deflection -y/f, leaving
// polarization and intensity unchanged.
type ThinLens struct {
	base
	FocalLengthMM float64
}

func NewThinLens(id string, geom Geometry, focalLengthMM float64) *ThinLens {
	return &ThinLens{base: base{IDValue: id, Geom: geom}, FocalLengthMM: focalLengthMM}
}

func (l *ThinLens) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	hit = orientHit(ray.Direction, hit)
	t, n := hit.Tangent, hit.Normal

	y := hit.Point.Sub(segmentCenterForLens(l.Geom, hit)).Dot(t)
	an := ray.Direction.Dot(n)
	at := ray.Direction.Dot(t)
	thetaIn := math.Atan2(at, an)

	// orientHit flips n to face the incoming ray, the opposite convention
	// from RaytracingV2.py:1146 (whose normal keeps its original, outward
	// sense); with n reversed the paraxial deflection must add y/f rather
	// than subtract it to bend the ray back toward the optical axis.
	thetaOut := thetaIn
	if math.Abs(l.FocalLengthMM) > 1e-12 {
		thetaOut = thetaIn + y/l.FocalLengthMM
	}
	local := Vector{X: math.Cos(thetaOut), Y: math.Sin(thetaOut)}
	dir := unit(n.Mul(local.X).Add(t.Mul(local.Y)))

	out := advance(ray, hit, dir, ray.Intensity, ray.Polarization, l, budgets)
	return []Ray{out}
}

// segmentCenterForLens returns the geometric centre used as the lens's
// optical-axis reference point: the segment midpoint for a flat lens, or
// the arc's chord midpoint for a curved one. The lateral coordinate y in
// the paraxial formula is measured from this point along the tangent.
func segmentCenterForLens(g Geometry, hit Hit) Vector {
	switch seg := g.(type) {
	case LineSegment:
		return seg.P1.Add(seg.P2).Mul(0.5)
	case CurvedSegment:
		return seg.P1.Add(seg.P2).Mul(0.5)
	default:
		return hit.Point
	}
}

// ---------------------------------------------------------------------
// Refractive

// Refractive is a boundary between media of index N1 (the side the
// geometry's unoriented Hit.Normal points away from) and N2 (the side it
// points into). A ray crossing along that normal goes from N1 into N2; a
// ray crossing against it goes from N2 into N1.
type Refractive struct {
	base
	N1, N2 float64
}

func NewRefractive(id string, geom Geometry, n1, n2 float64) *Refractive {
	return &Refractive{base: base{IDValue: id, Geom: geom}, N1: n1, N2: n2}
}

func (rf *Refractive) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	n1, n2 := rf.N1, rf.N2
	if ray.Direction.Dot(hit.Normal) < 0 {
		n1, n2 = n2, n1
	}
	hit = orientHit(ray.Direction, hit)
	t, n := hit.Tangent, hit.Normal

	cosI := -ray.Direction.Dot(n)
	if cosI < 0 {
		cosI = 0
	}
	rs, rp, ts, tp, cosT, ok := fresnelCoefficients(n1, n2, cosI)

	// The Fresnel weights are fractions of Ray.Intensity, so they are taken
	// from the unit-norm input state rather than the drifted Jones norm.
	sIn, pIn := decomposeJonesSP(ray.Polarization.normalized(), ray.Direction, t, n)

	if !ok {
		// Total internal reflection: only the reflected ray survives, at
		// the input intensity (spec.md §4.6 item 5, §8 boundary case).
		reflected := unit(reflectVec(ray.Direction, n))
		pol := recomposeJonesSP(sIn, pIn, t, n)
		out := advance(ray, hit, reflected, ray.Intensity, pol, rf, budgets)
		return []Ray{out}
	}

	sinI := math.Sqrt(max0(1 - cosI*cosI))
	tangentialSign := 1.0
	if ray.Direction.Dot(t) < 0 {
		tangentialSign = -1.0
	}
	sinT := n1 / n2 * sinI

	// transmitted direction: Snell's law in the (n, t) plane, bending
	// toward/away from the normal depending on n1/n2.
	transDir := unit(n.Mul(-cosT).Add(t.Mul(tangentialSign * sinT)))
	reflDir := unit(reflectVec(ray.Direction, n))

	sT := sIn * complex(ts, 0)
	pT := pIn * complex(tp, 0)
	sR := sIn * complex(rs, 0)
	pR := pIn * complex(rp, 0)

	intensityT := (n2 * cosT) / (n1 * cosI) * (real(sT)*real(sT) + imag(sT)*imag(sT) + real(pT)*real(pT) + imag(pT)*imag(pT))
	intensityR := real(sR)*real(sR) + imag(sR)*imag(sR) + real(pR)*real(pR) + imag(pR)*imag(pR)

	var out []Ray
	if ray.Intensity*intensityT >= budgets.MinIntensity {
		pol := recomposeJonesSP(sT, pT, t, n)
		out = append(out, advance(ray, hit, transDir, ray.Intensity*intensityT, pol, rf, budgets))
	}
	if ray.Intensity*intensityR >= budgets.MinIntensity {
		pol := recomposeJonesSP(sR, pR, t, n)
		out = append(out, advance(ray, hit, reflDir, ray.Intensity*intensityR, pol, rf, budgets))
	}
	return out
}

// decomposeJonesSP projects a lab-frame Jones vector onto the s
// (perpendicular to the plane of incidence, along the surface tangent)
// and p (in-plane) basis for a refractive interaction. In 2D, the plane
// of incidence is the plane of the page, so "s" literally means the
// component carried along the tangent direction and "p" the component
// carried along the ray's own in-plane transverse axis; this
// implementation treats the Jones basis as already expressed in the
// (tangent, normal) frame via a rotation into that local frame, matching
// the PBS/waveplate treatment in polarization.go.
func decomposeJonesSP(j Jones, v, t, n Vector) (s, p complex128) {
	// angle from lab x-axis to tangent direction
	alpha := math.Atan2(t.Y, t.X)
	local := rotateJones(j, alpha)
	return local.Ex, local.Ey
}

func recomposeJonesSP(s, p complex128, t, n Vector) Jones {
	alpha := math.Atan2(t.Y, t.X)
	return rotateJones(Jones{Ex: s, Ey: p}, -alpha)
}

// ---------------------------------------------------------------------
// Beamsplitter

// Beamsplitter partially transmits and partially reflects. When
// IsPolarizing is false, both outgoing rays carry the input Jones vector
// unchanged and split by the independent T/R intensity weights, each
// clamped to [0, 1] (their sum is not renormalized). When
// IsPolarizing is true, it behaves as a polarizing beam splitter with
// transmission axis TransmissionAxisDeg (spec.md §4.2).
type Beamsplitter struct {
	base
	T, R                 float64
	IsPolarizing         bool
	TransmissionAxisDeg  float64
}

func NewBeamsplitter(id string, geom Geometry, t, r float64, isPolarizing bool, transmissionAxisDeg float64) *Beamsplitter {
	return &Beamsplitter{
		base: base{IDValue: id, Geom: geom}, T: t, R: r,
		IsPolarizing: isPolarizing, TransmissionAxisDeg: transmissionAxisDeg,
	}
}

func (bs *Beamsplitter) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	hit = orientHit(ray.Direction, hit)
	n := hit.Normal

	if bs.IsPolarizing {
		labAngle := bs.transmissionAxisInLabFrame()
		transmitted, reflected, wT, wR := splitPolarizingBeamsplitter(ray.Polarization, labAngle)
		return splitOutgoing(ray, hit, n, budgets, bs,
			unit(ray.Direction), ray.Intensity*wT, transmitted,
			unit(reflectVec(ray.Direction, n)), ray.Intensity*wR, reflected)
	}

	clampedT := clamp01(bs.T)
	clampedR := clamp01(bs.R)
	return splitOutgoing(ray, hit, n, budgets, bs,
		unit(ray.Direction), ray.Intensity*clampedT, ray.Polarization,
		unit(reflectVec(ray.Direction, n)), ray.Intensity*clampedR, ray.Polarization)
}

// transmissionAxisInLabFrame converts the configured axis to radians. The
// configured angle is already a lab-frame angle; the element's own
// orientation is not taken into account.
func (bs *Beamsplitter) transmissionAxisInLabFrame() float64 {
	return bs.TransmissionAxisDeg * math.Pi / 180
}

// splitOutgoing pushes the transmitted branch before the reflected branch
// (matching original_source/RaytracingV2.py's trace_all push order), and
// drops any branch whose intensity falls below MinIntensity before it is
// ever appended, per spec.md §4.6.
func splitOutgoing(ray Ray, hit Hit, n Vector, budgets Budgets, self Element,
	transDir Vector, transI float64, transPol Jones,
	reflDir Vector, reflI float64, reflPol Jones) []Ray {
	var out []Ray
	if transI >= budgets.MinIntensity {
		out = append(out, advance(ray, hit, transDir, transI, transPol, self, budgets))
	}
	if reflI >= budgets.MinIntensity {
		out = append(out, advance(ray, hit, reflDir, reflI, reflPol, self, budgets))
	}
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ---------------------------------------------------------------------
// Waveplate

// Waveplate applies a phase shift between the fast and slow axes without
// changing intensity.
type Waveplate struct {
	base
	PhaseShiftDeg, FastAxisDeg float64
}

func NewWaveplate(id string, geom Geometry, phaseShiftDeg, fastAxisDeg float64) *Waveplate {
	return &Waveplate{base: base{IDValue: id, Geom: geom}, PhaseShiftDeg: phaseShiftDeg, FastAxisDeg: fastAxisDeg}
}

func (w *Waveplate) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	hit = orientHit(ray.Direction, hit)
	pol := transformWaveplate(ray.Polarization, w.FastAxisDeg, w.PhaseShiftDeg)
	out := advance(ray, hit, unit(ray.Direction), ray.Intensity, pol, w, budgets)
	return []Ray{out}
}

// ---------------------------------------------------------------------
// Dichroic

// Dichroic computes wavelength-dependent T/R via a smooth step around
// CutoffNm, then behaves as a non-polarizing beamsplitter with those
// weights.
type Dichroic struct {
	base
	CutoffNm, TransitionWidthNm float64
	PassType                    DichroicPassType
}

type DichroicPassType int

const (
	Longpass DichroicPassType = iota
	Shortpass
)

func NewDichroic(id string, geom Geometry, cutoffNm, transitionWidthNm float64, passType DichroicPassType) *Dichroic {
	return &Dichroic{base: base{IDValue: id, Geom: geom}, CutoffNm: cutoffNm, TransitionWidthNm: transitionWidthNm, PassType: passType}
}

func (d *Dichroic) Interact(ray Ray, hit Hit, budgets Budgets) []Ray {
	hit = orientHit(ray.Direction, hit)
	n := hit.Normal

	lo := d.CutoffNm - d.TransitionWidthNm/2
	hi := d.CutoffNm + d.TransitionWidthNm/2
	t := smoothStep(lo, hi, ray.WavelengthNm)
	if d.PassType == Shortpass {
		t = 1 - t
	}
	r := 1 - t

	return splitOutgoing(ray, hit, n, budgets, d,
		unit(ray.Direction), ray.Intensity*t, ray.Polarization,
		unit(reflectVec(ray.Direction, n)), ray.Intensity*r, ray.Polarization)
}
