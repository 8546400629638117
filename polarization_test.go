package rayoptics

import (
	"math"
	"testing"
)

func closeC(a, b complex128, eps float64) bool {
	d := a - b
	return math.Hypot(real(d), imag(d)) < eps
}

func TestJonesConstructorsAreUnitNorm(t *testing.T) {
	cases := []Jones{
		Horizontal(), Vertical(), DiagonalPlus45(), DiagonalMinus45(),
		CircularRight(), CircularLeft(), LinearAt(30),
	}
	for i, j := range cases {
		if math.Abs(j.Intensity()-1) > 1e-9 {
			t.Errorf("case %d: Intensity() = %v, want 1", i, j.Intensity())
		}
	}
}

func TestRotateJonesRoundTrip(t *testing.T) {
	j := LinearAt(17)
	rotated := rotateJones(j, 0.7)
	back := rotateJones(rotated, -0.7)
	if !closeC(back.Ex, j.Ex, 1e-9) || !closeC(back.Ey, j.Ey, 1e-9) {
		t.Errorf("rotate then inverse-rotate did not return the original vector: got %+v, want %+v", back, j)
	}
}

func TestRotateJonesPreservesIntensity(t *testing.T) {
	j := LinearAt(5)
	rotated := rotateJones(j, 1.3)
	if math.Abs(rotated.Intensity()-j.Intensity()) > 1e-9 {
		t.Errorf("rotation is not unitary: intensity changed from %v to %v", j.Intensity(), rotated.Intensity())
	}
}

func TestTransformWaveplateHalfWaveFlipsLinearPolarization(t *testing.T) {
	// A half-wave plate (180 deg retardance) with fast axis at 0 deg
	// reflects horizontal polarization back onto itself and leaves
	// vertical polarization inverted in sign but physically identical.
	out := transformWaveplate(Vertical(), 0, 180)
	if !closeC(out.Ex, 0, 1e-9) || !closeC(out.Ey, -1, 1e-9) {
		t.Errorf("half-wave plate at 0 deg: Vertical() -> %+v, want (0, -1)", out)
	}
}

func TestTransformWaveplatePreservesIntensity(t *testing.T) {
	for _, phase := range []float64{0, 45, 90, 180, 270} {
		j := LinearAt(23)
		out := transformWaveplate(j, 10, phase)
		if math.Abs(out.Intensity()-j.Intensity()) > 1e-9 {
			t.Errorf("phase %v: waveplate is not unitary: %v -> %v", phase, j.Intensity(), out.Intensity())
		}
	}
}

func TestSplitPolarizingBeamsplitterMalusLaw(t *testing.T) {
	// Horizontal light through a PBS whose transmission axis is at theta
	// degrees from horizontal: wT should equal cos^2(theta) (Malus's law).
	for _, theta := range []float64{0, 30, 45, 60, 90} {
		_, _, wT, wR := splitPolarizingBeamsplitter(Horizontal(), theta)
		want := math.Cos(theta*math.Pi/180) * math.Cos(theta*math.Pi/180)
		if math.Abs(wT-want) > 1e-9 {
			t.Errorf("theta=%v: wT = %v, want %v", theta, wT, want)
		}
		if math.Abs(wT+wR-1) > 1e-9 {
			t.Errorf("theta=%v: wT+wR = %v, want 1", theta, wT+wR)
		}
	}
}

func TestSplitPolarizingBeamsplitterZeroInput(t *testing.T) {
	_, _, wT, wR := splitPolarizingBeamsplitter(Jones{}, 30)
	if wT != 1 || wR != 0 {
		t.Errorf("zero-amplitude input should transmit everything to avoid a 0/0 split, got wT=%v wR=%v", wT, wR)
	}
}

func TestFresnelNormalIncidenceMatchesClassicFormula(t *testing.T) {
	n1, n2 := 1.0, 1.5
	rs, rp, _, _, _, ok := fresnelCoefficients(n1, n2, 1)
	if !ok {
		t.Fatalf("normal incidence should never totally internally reflect")
	}
	want := (n1 - n2) / (n1 + n2)
	if math.Abs(rs-want) > 1e-9 {
		t.Errorf("rs = %v, want %v", rs, want)
	}
	if math.Abs(rp-(-want)) > 1e-9 {
		t.Errorf("rp = %v, want %v (sign convention differs between s and p at normal incidence)", rp, -want)
	}
}

func TestFresnelTotalInternalReflection(t *testing.T) {
	// Going from dense to sparse medium beyond the critical angle must
	// report ok == false.
	n1, n2 := 1.5, 1.0
	critical := math.Asin(n2 / n1)
	cosBeyond := math.Cos(critical + 0.1)
	_, _, _, _, _, ok := fresnelCoefficients(n1, n2, cosBeyond)
	if ok {
		t.Errorf("expected total internal reflection beyond the critical angle")
	}
}

func TestFresnelBelowCriticalAngleTransmits(t *testing.T) {
	n1, n2 := 1.5, 1.0
	critical := math.Asin(n2 / n1)
	cosBelow := math.Cos(critical - 0.1)
	_, _, _, _, _, ok := fresnelCoefficients(n1, n2, cosBelow)
	if !ok {
		t.Errorf("expected transmission below the critical angle")
	}
}

func TestSmoothStepBoundsAndMonotone(t *testing.T) {
	if smoothStep(500, 600, 400) != 0 {
		t.Errorf("smoothStep below edge0 should be 0")
	}
	if smoothStep(500, 600, 700) != 1 {
		t.Errorf("smoothStep above edge1 should be 1")
	}
	prev := -1.0
	for x := 500.0; x <= 600; x += 10 {
		v := smoothStep(500, 600, x)
		if v < prev {
			t.Errorf("smoothStep is not monotone near x=%v", x)
		}
		prev = v
	}
}

func TestTransformMirrorLeavesJonesUnchanged(t *testing.T) {
	j := LinearAt(37)
	out := transformMirror(j)
	if out != j {
		t.Errorf("transformMirror modified the Jones vector: %+v -> %+v", j, out)
	}
}
