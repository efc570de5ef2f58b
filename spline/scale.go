package spline

import "math"

// scaleTransform is the pure pre/post conditioning pair around a fit: the
// targets are shifted and scaled into [0, 1] before assembly and the fitted
// coefficients are mapped back afterwards. It carries no shape semantics,
// so it can be toggled without touching the constraint or solve logic.
// Value-typed constraint targets (endpoint pins, global bounds) pass
// through Apply so they live in the same coordinates as the targets.
type scaleTransform struct {
	shift float64
	scale float64
}

// identityTransform leaves everything untouched.
func identityTransform() scaleTransform {
	return scaleTransform{shift: 0, scale: 1}
}

// newScaleTransform builds the transform mapping y onto [0, 1]. Constant
// data degrades to a pure shift.
func newScaleTransform(y []float64) scaleTransform {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range y {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span <= 0 || math.IsInf(span, 0) {
		span = 1
	}
	return scaleTransform{shift: lo, scale: span}
}

// Apply maps one value into fitting coordinates. NaN sentinels pass
// through, preserving their "unconstrained" meaning.
func (s scaleTransform) Apply(v float64) float64 {
	return (v - s.shift) / s.scale
}

// ApplySlice maps a slice into fitting coordinates, returning a copy.
func (s scaleTransform) ApplySlice(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Apply(v)
	}
	return out
}

// InvertCoefficients maps fitted (value, slope) pairs back to data
// coordinates: values undo the shift and scale, slopes only the scale.
func (s scaleTransform) InvertCoefficients(coefs []Coefficient) []Coefficient {
	out := make([]Coefficient, len(coefs))
	for i, c := range coefs {
		out[i] = Coefficient{
			Value: c.Value*s.scale + s.shift,
			Slope: c.Slope * s.scale,
		}
	}
	return out
}
