package spline

import "fmt"

// Type identifies the polynomial family of a fitted spline.
type Type int

const (
	// Cubic is the only supported spline type: piecewise cubic Hermite
	// segments with value and slope unknowns at every knot.
	Cubic Type = iota
)

// Extrapolation identifies the behavior outside the knot span.
type Extrapolation int

const (
	// ExtrapolationNone is the only supported mode: evaluation outside
	// [Knots[0], Knots[len-1]] yields NaN (or ErrOutOfRange in strict mode).
	ExtrapolationNone Extrapolation = iota
)

// Coefficient holds the value and slope of the spline at one knot. Together
// with the neighboring knot's pair it determines the cubic Hermite segment
// on the interval between them.
type Coefficient struct {
	Value float64
	Slope float64
}

// Model is the immutable result of a fit: a strictly increasing knot
// sequence and one Coefficient per knot. Evaluation never mutates it.
type Model struct {
	typ           Type
	extrapolation Extrapolation
	knots         []float64
	coefs         []Coefficient
}

// newModel copies its inputs so the result cannot alias caller memory.
// The knot sequence must already be validated as strictly increasing.
func newModel(knots []float64, coefs []Coefficient) (*Model, error) {
	if len(knots) < 2 {
		return nil, fmt.Errorf("%d knots: %w", len(knots), ErrValidation)
	}
	if len(coefs) != len(knots) {
		return nil, fmt.Errorf("%d coefficient pairs for %d knots: %w", len(coefs), len(knots), ErrValidation)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] <= knots[i-1] {
			return nil, fmt.Errorf("knots %v and %v: %w", knots[i-1], knots[i], ErrDegenerateKnots)
		}
	}
	m := &Model{
		typ:           Cubic,
		extrapolation: ExtrapolationNone,
		knots:         append([]float64(nil), knots...),
		coefs:         append([]Coefficient(nil), coefs...),
	}
	return m, nil
}

// Type returns the polynomial family of the model.
func (m *Model) Type() Type { return m.typ }

// Extrapolation returns the extrapolation mode of the model.
func (m *Model) Extrapolation() Extrapolation { return m.extrapolation }

// KnotCount returns the number of knots.
func (m *Model) KnotCount() int { return len(m.knots) }

// Knots returns a copy of the knot sequence.
func (m *Model) Knots() []float64 {
	return append([]float64(nil), m.knots...)
}

// Coefficients returns a copy of the (value, slope) pairs, one per knot.
func (m *Model) Coefficients() []Coefficient {
	return append([]Coefficient(nil), m.coefs...)
}

// Domain returns the closed interval spanned by the knots.
func (m *Model) Domain() (lo, hi float64) {
	return m.knots[0], m.knots[len(m.knots)-1]
}

// Statistics is a stated diagnostic surface (R², residual summaries) that
// the system does not implement.
func (m *Model) Statistics() error {
	return fmt.Errorf("fit diagnostics: %w", ErrNotImplemented)
}
