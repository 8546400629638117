package rayoptics

import "math"

// Jones is a Jones vector: the complex amplitudes of the electric field
// along two orthonormal basis directions, conventionally (x, y) in the lab
// frame. This implementation keeps Jones vectors unnormalized in general —
// a ray's intensity is tracked separately on Ray.Intensity and updated
// multiplicatively at every interaction — except that source emission
// constructs every standard state already at unit norm (§4.4). Every
// transform is either unitary (rotation, waveplate, and the identity used
// by mirrors, non-polarizing beamsplitters and dichroics) or sub-unitary
// (the PBS projection, the Fresnel amplitude coefficients), so norm only
// ever shrinks, never needing rescaling back up.
type Jones struct {
	Ex, Ey complex128
}

// Intensity returns |Ex|^2 + |Ey|^2, the Jones vector's own squared norm.
// This is distinct from — and not a substitute for — Ray.Intensity; see
// the package-level convention note above.
func (j Jones) Intensity() float64 {
	return real(j.Ex)*real(j.Ex) + imag(j.Ex)*imag(j.Ex) +
		real(j.Ey)*real(j.Ey) + imag(j.Ey)*imag(j.Ey)
}

func (j Jones) scale(factor complex128) Jones {
	return Jones{Ex: j.Ex * factor, Ey: j.Ey * factor}
}

func (j Jones) normalized() Jones {
	n := math.Sqrt(j.Intensity())
	if n < geometryEpsilonFloor {
		return j
	}
	return j.scale(complex(1/n, 0))
}

// Horizontal, Vertical, DiagonalPlus45, DiagonalMinus45, CircularRight, and
// CircularLeft are the standard Jones-vector constructors of spec.md §6.
func Horizontal() Jones        { return Jones{Ex: 1, Ey: 0} }
func Vertical() Jones          { return Jones{Ex: 0, Ey: 1} }
func DiagonalPlus45() Jones    { return LinearAt(45) }
func DiagonalMinus45() Jones   { return LinearAt(-45) }
func CircularRight() Jones {
	return Jones{Ex: complex(1/math.Sqrt2, 0), Ey: complex(0, 1/math.Sqrt2)}
}
func CircularLeft() Jones {
	return Jones{Ex: complex(1/math.Sqrt2, 0), Ey: complex(0, -1/math.Sqrt2)}
}

// LinearAt returns the Jones vector for linear polarization at angle theta
// degrees from the lab-frame x axis: (cos theta, sin theta).
func LinearAt(thetaDeg float64) Jones {
	th := thetaDeg * math.Pi / 180
	return Jones{Ex: complex(math.Cos(th), 0), Ey: complex(math.Sin(th), 0)}
}

// rotateJones applies the 2x2 rotation R(alpha) = [[cos a, sin a], [-sin a,
// cos a]] to j, per spec.md §4.2's "rotate into local frame" step.
func rotateJones(j Jones, alphaRad float64) Jones {
	c := complex(math.Cos(alphaRad), 0)
	s := complex(math.Sin(alphaRad), 0)
	return Jones{
		Ex: c*j.Ex + s*j.Ey,
		Ey: -s*j.Ex + c*j.Ey,
	}
}

// transformMirror applies the mirror's polarization law. Per the open
// question in spec.md §9, this implementation models an idealised
// reflector: neither s- nor p-polarization receives a phase shift, only
// the element's Reflectivity intensity scaling (applied by the caller via
// the returned intensity weight). The Jones vector itself is unchanged by
// reflection; the lab-frame direction change is handled purely
// geometrically, independent of polarization.
func transformMirror(j Jones) Jones {
	return j
}

// transformWaveplate rotates j into the waveplate's fast-axis frame,
// applies diag(1, exp(i*phase)), and rotates back. Intensity is
// unchanged (the matrix is unitary).
func transformWaveplate(j Jones, fastAxisDeg, phaseShiftDeg float64) Jones {
	alpha := fastAxisDeg * math.Pi / 180
	local := rotateJones(j, alpha)
	phase := phaseShiftDeg * math.Pi / 180
	local.Ey *= complex(math.Cos(phase), math.Sin(phase))
	return rotateJones(local, -alpha)
}

// splitPolarizingBeamsplitter implements spec.md §4.2's PBS law: rotate
// into the transmission-axis frame, transmit the component parallel to the
// axis, reflect the component perpendicular to it. Returns the transmitted
// and reflected Jones vectors (in lab frame) and their intensity weights,
// which sum to 1 (Malus's law) regardless of the input polarization axis.
func splitPolarizingBeamsplitter(j Jones, axisDeg float64) (transmitted, reflected Jones, wT, wR float64) {
	local := rotateJones(j, axisDeg*math.Pi/180)
	iPar := real(local.Ex)*real(local.Ex) + imag(local.Ex)*imag(local.Ex)
	iPerp := real(local.Ey)*real(local.Ey) + imag(local.Ey)*imag(local.Ey)
	total := iPar + iPerp
	if total < geometryEpsilonFloor {
		// No well-defined polarization axis to split on (zero-amplitude
		// input); transmit everything to avoid a division by zero.
		return rotateJones(local, -axisDeg*math.Pi/180), Jones{}, 1, 0
	}
	wT = iPar / total
	wR = iPerp / total

	localT := Jones{Ex: local.Ex, Ey: 0}
	localR := Jones{Ex: 0, Ey: local.Ey}
	transmitted = rotateJones(localT, -axisDeg*math.Pi/180)
	reflected = rotateJones(localR, -axisDeg*math.Pi/180)
	return transmitted, reflected, wT, wR
}

// fresnelCoefficients computes the Fresnel amplitude reflection/
// transmission coefficients for s- and p-polarization at a dielectric
// interface, given the angle of incidence and the ratio of refractive
// indices. ok is false on total internal reflection (no real transmission
// angle exists).
func fresnelCoefficients(n1, n2, cosThetaI float64) (rs, rp, ts, tp, cosThetaT float64, ok bool) {
	sinThetaI := math.Sqrt(max0(1 - cosThetaI*cosThetaI))
	sinThetaT := n1 / n2 * sinThetaI
	if sinThetaT > 1 {
		return 0, 0, 0, 0, 0, false
	}
	cosThetaT = math.Sqrt(max0(1 - sinThetaT*sinThetaT))

	rs = (n1*cosThetaI - n2*cosThetaT) / (n1*cosThetaI + n2*cosThetaT)
	rp = (n2*cosThetaI - n1*cosThetaT) / (n2*cosThetaI + n1*cosThetaT)
	ts = (2 * n1 * cosThetaI) / (n1*cosThetaI + n2*cosThetaT)
	tp = (2 * n1 * cosThetaI) / (n2*cosThetaI + n1*cosThetaT)
	return rs, rp, ts, tp, cosThetaT, true
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// smoothStep is the cubic Hermite interpolant used for the dichroic's
// wavelength response (spec.md §4.2): 0 below edge0, 1 above edge1,
// monotone C1 in between.
func smoothStep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	tt := (x - edge0) / (edge1 - edge0)
	if tt < 0 {
		tt = 0
	}
	if tt > 1 {
		tt = 1
	}
	return tt * tt * (3 - 2*tt)
}
