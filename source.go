package rayoptics

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// PolarizationKind enumerates the polarization_spec values of spec.md §6.
type PolarizationKind int

const (
	PolHorizontal PolarizationKind = iota
	PolVertical
	PolPlus45
	PolMinus45
	PolCircularRight
	PolCircularLeft
	PolLinear
	PolCustom
)

// PolarizationSpec selects a source's emitted polarization state. For
// PolLinear, AngleDeg is the linear polarization angle. For PolCustom,
// Custom is used directly (normalized on entry, per spec.md §6).
type PolarizationSpec struct {
	Kind     PolarizationKind
	AngleDeg float64
	Custom   Jones
}

// jones resolves the spec into a concrete, unit-norm Jones vector.
func (s PolarizationSpec) jones() Jones {
	switch s.Kind {
	case PolHorizontal:
		return Horizontal()
	case PolVertical:
		return Vertical()
	case PolPlus45:
		return DiagonalPlus45()
	case PolMinus45:
		return DiagonalMinus45()
	case PolCircularRight:
		return CircularRight()
	case PolCircularLeft:
		return CircularLeft()
	case PolLinear:
		return LinearAt(s.AngleDeg)
	case PolCustom:
		return s.Custom.normalized()
	default:
		return Horizontal()
	}
}

// SourceDescriptor configures a fan of initial rays, per spec.md §3/§4.4.
type SourceDescriptor struct {
	Position        Vector
	BaseAngleDeg    float64
	ApertureSizeMM  float64
	RayCount        int
	SpreadDeg       float64
	RayLengthMM     float64
	WavelengthNm    float64
	ColorRGB        [3]uint8
	Polarization    PolarizationSpec
}

// Emit produces SourceDescriptor.RayCount initial rays, per spec.md §4.4:
// offsets evenly spaced across the aperture in the source's local frame
// (rotated by BaseAngleDeg), directions evenly spaced across the spread
// fan in parallel index to the offsets.
func (s SourceDescriptor) Emit() []Ray {
	n := s.RayCount
	if n < 1 {
		n = 1
	}

	offsets := make([]float64, n)
	if n == 1 || s.ApertureSizeMM == 0 {
		offsets[0] = 0
		for i := 1; i < n; i++ {
			offsets[i] = 0
		}
	} else {
		step := s.ApertureSizeMM / float64(n-1)
		start := -s.ApertureSizeMM / 2
		for i := 0; i < n; i++ {
			offsets[i] = start + step*float64(i)
		}
	}

	baseRad := s.BaseAngleDeg * math.Pi / 180
	spreadRad := s.SpreadDeg * math.Pi / 180

	angles := make([]float64, n)
	if s.SpreadDeg == 0 || n == 1 {
		for i := range angles {
			angles[i] = baseRad
		}
	} else {
		step := 2 * spreadRad / float64(n-1)
		start := baseRad - spreadRad
		for i := 0; i < n; i++ {
			angles[i] = start + step*float64(i)
		}
	}

	// ctm rotates the source's local aperture frame (offsets measured
	// along the local y axis, perpendicular to the base direction) into
	// the lab frame, built with matrix.RotateDeg the way testcases/ctm.go
	// builds its CTMs, and applied by hand-indexing ([a b c d e f]) the
	// way raster.go itself applies CTM to a vec.Vec2 (see its devicePoint).
	ctm := matrix.RotateDeg(s.BaseAngleDeg)

	pol := s.Polarization.jones()

	rays := make([]Ray, 0, n)
	for i := 0; i < n; i++ {
		local := Vector{X: 0, Y: offsets[i]}
		lx := ctm[0]*local.X + ctm[2]*local.Y
		ly := ctm[1]*local.X + ctm[3]*local.Y
		p := s.Position.Add(Vector{X: lx, Y: ly})

		dir := Vector{X: math.Cos(angles[i]), Y: math.Sin(angles[i])}

		rays = append(rays, Ray{
			Position:        p,
			Direction:       dir,
			RemainingLength: s.RayLengthMM,
			Intensity:       1,
			Polarization:    pol,
			WavelengthNm:    s.WavelengthNm,
			BaseRGB:         s.ColorRGB,
			EventsSoFar:     0,
			LastElement:     nil,
			PathPoints:      []Vector{p},
		})
	}
	return rays
}
