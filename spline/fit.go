package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/chenwilliam77/EconFixedPointPDEs/gonumExtensions"
	"github.com/chenwilliam77/EconFixedPointPDEs/grid"
)

// FitRequest bundles every fitting option. Zero values of the numeric
// bound/endpoint fields are real constraints; NaN means "unconstrained", so
// requests should start from DefaultFitRequest. The request is consumed by
// one Fit call and can be discarded afterwards.
type FitRequest struct {
	// Degree of the spline segments. Only 3 (cubic) is supported; 0 means 3.
	Degree int

	// Knots is the number of knots, at least 2.
	Knots int

	// KnotPolicy chooses uniform (default) or quantile knot placement.
	KnotPolicy KnotPolicy

	// Lambda weights the roughness regularizer. Must be >= 0.
	Lambda float64

	// C2 forces second-derivative continuity at interior knots.
	C2 bool

	// LeftValue / RightValue pin the spline value at the first/last knot.
	// NaN leaves the endpoint free.
	LeftValue  float64
	RightValue float64

	// MinValue / MaxValue bound the spline value over the whole domain,
	// enforced at BoundSamples Chebyshev probes per interval plus every
	// knot. NaN leaves the side unbounded. The probe set approximates a
	// true global bound; it has no completeness guarantee between probes.
	MinValue     float64
	MaxValue     float64
	BoundSamples int

	// Whole-domain monotonicity flags and their interval variants. A
	// whole-domain flag excludes both interval lists, and Increasing
	// excludes Decreasing.
	Increasing          bool
	Decreasing          bool
	IncreasingIntervals [][]float64
	DecreasingIntervals [][]float64

	// Whole-domain curvature flags and their interval variants, with the
	// same exclusivity rules.
	ConcaveUp           bool
	ConcaveDown         bool
	ConcaveUpIntervals  [][]float64
	ConcaveDownIntervals [][]float64

	// Scaling toggles the shift/scale conditioning of the targets.
	Scaling bool

	// Extrapolation of the fitted model. Only ExtrapolationNone is
	// supported.
	Extrapolation Extrapolation

	// InitialGuess is accepted for interface compatibility with iterative
	// callers; the direct solver does not consult it beyond length
	// validation.
	InitialGuess []float64

	// Weights would select weighted least squares, which is not supported.
	Weights []float64
}

// DefaultFitRequest returns the baseline request: 6 uniform knots, cubic,
// C2 continuity, λ = 1e-6, scaling on, all shape constraints off.
func DefaultFitRequest() FitRequest {
	nan := math.NaN()
	return FitRequest{
		Degree:       3,
		Knots:        6,
		KnotPolicy:   KnotsUniform,
		Lambda:       1e-6,
		C2:           true,
		LeftValue:    nan,
		RightValue:   nan,
		MinValue:     nan,
		MaxValue:     nan,
		BoundSamples: 11,
		Scaling:      true,
	}
}

// Fit fits a shape-constrained least-squares cubic spline to the samples
// (x, y). Pairs with NaN in either coordinate are dropped before fitting.
// Fit never returns a partial model: any validation, conflict, degeneracy
// or solver failure aborts construction.
func Fit(x, y []float64, req FitRequest) (*Model, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("len(x)=%d, len(y)=%d: %w", len(x), len(y), ErrValidation)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Drop NaN pairs.
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%d usable samples: %w", len(xs), ErrValidation)
	}

	knots, err := selectKnots(xs, req.Knots, req.KnotPolicy)
	if err != nil {
		return nil, err
	}

	transform := identityTransform()
	if req.Scaling {
		transform = newScaleTransform(ys)
	}
	targets := transform.ApplySlice(ys)

	bins, err := bin(xs, knots, false, true)
	if err != nil {
		return nil, err
	}

	builder := newConstraintBuilder(knots)
	if err := req.buildConstraints(builder, transform); err != nil {
		return nil, err
	}

	design := buildDesign(xs, bins, knots)
	if gonumExtensions.HasNaNOrInf(design) ||
		gonumExtensions.HasNaNOrInf(mat.NewDense(len(targets), 1, targets)) {
		return nil, fmt.Errorf("non-finite samples: %w", ErrValidation)
	}

	problem := constrainedProblem{
		design: design,
		target: targets,
		reg:    buildRegularizer(knots),
		lambda: req.Lambda,
	}
	problem.eqM, problem.eqRHS = builder.eq.finalize()
	problem.ineqM, problem.ineqRHS = builder.ineq.finalize()

	raw, err := solveCoefficients(problem)
	if err != nil {
		return nil, err
	}

	coefs := make([]Coefficient, len(knots))
	for i := range coefs {
		coefs[i] = Coefficient{Value: raw[2*i], Slope: raw[2*i+1]}
	}
	return newModel(knots, transform.InvertCoefficients(coefs))
}

// validate checks option well-formedness and the mutual exclusivity of the
// shape requests. It runs before any matrix assembly.
func (req FitRequest) validate() error {
	if req.Degree != 0 && req.Degree != 3 {
		return fmt.Errorf("degree %d: %w", req.Degree, ErrNotImplemented)
	}
	if req.Weights != nil {
		return fmt.Errorf("weighted fitting: %w", ErrNotImplemented)
	}
	if req.Extrapolation != ExtrapolationNone {
		return fmt.Errorf("extrapolation mode %d: %w", req.Extrapolation, ErrNotImplemented)
	}
	if req.Knots < 2 {
		return fmt.Errorf("%d knots: %w", req.Knots, ErrValidation)
	}
	if math.IsNaN(req.Lambda) || req.Lambda < 0 {
		return fmt.Errorf("lambda %v: %w", req.Lambda, ErrValidation)
	}
	if req.BoundSamples < 1 {
		return fmt.Errorf("%d bound samples: %w", req.BoundSamples, ErrValidation)
	}
	if req.InitialGuess != nil && len(req.InitialGuess) != 2*req.Knots {
		return fmt.Errorf("initial guess length %d for %d unknowns: %w", len(req.InitialGuess), 2*req.Knots, ErrValidation)
	}

	if req.Increasing && req.Decreasing {
		return fmt.Errorf("increasing and decreasing: %w", ErrConflictingConstraints)
	}
	wholeMono := req.Increasing || req.Decreasing
	if wholeMono && (len(req.IncreasingIntervals) > 0 || len(req.DecreasingIntervals) > 0) {
		return fmt.Errorf("whole-domain monotonicity with interval lists: %w", ErrConflictingConstraints)
	}
	if req.ConcaveUp && req.ConcaveDown {
		return fmt.Errorf("concave up and concave down: %w", ErrConflictingConstraints)
	}
	wholeCurv := req.ConcaveUp || req.ConcaveDown
	if wholeCurv && (len(req.ConcaveUpIntervals) > 0 || len(req.ConcaveDownIntervals) > 0) {
		return fmt.Errorf("whole-domain curvature with interval lists: %w", ErrConflictingConstraints)
	}
	if !math.IsNaN(req.MinValue) && !math.IsNaN(req.MaxValue) && req.MinValue > req.MaxValue {
		return fmt.Errorf("min %v above max %v: %w", req.MinValue, req.MaxValue, ErrValidation)
	}
	return nil
}

// buildConstraints translates the request into rows on the builder.
// Value-typed targets are mapped through the scaling transform first.
func (req FitRequest) buildConstraints(b *constraintBuilder, transform scaleTransform) error {
	if req.C2 {
		b.addC2Continuity()
	}
	if !math.IsNaN(req.LeftValue) {
		b.addLeftValue(transform.Apply(req.LeftValue))
	}
	if !math.IsNaN(req.RightValue) {
		b.addRightValue(transform.Apply(req.RightValue))
	}

	if !math.IsNaN(req.MinValue) || !math.IsNaN(req.MaxValue) {
		probes, err := grid.ChebyshevInterior(req.BoundSamples)
		if err != nil {
			return fmt.Errorf("bound probes: %w: %v", ErrValidation, err)
		}
		if !math.IsNaN(req.MinValue) {
			b.addBound(transform.Apply(req.MinValue), probes, true)
		}
		if !math.IsNaN(req.MaxValue) {
			b.addBound(transform.Apply(req.MaxValue), probes, false)
		}
	}

	switch {
	case req.Increasing:
		b.addMonotone(b.allSpans(), true)
	case req.Decreasing:
		b.addMonotone(b.allSpans(), false)
	default:
		inc, err := b.intervalSpans(req.IncreasingIntervals)
		if err != nil {
			return err
		}
		dec, err := b.intervalSpans(req.DecreasingIntervals)
		if err != nil {
			return err
		}
		b.addMonotone(inc, true)
		b.addMonotone(dec, false)
	}

	switch {
	case req.ConcaveUp:
		b.addCurvature(b.allSpans(), true)
	case req.ConcaveDown:
		b.addCurvature(b.allSpans(), false)
	default:
		up, err := b.intervalSpans(req.ConcaveUpIntervals)
		if err != nil {
			return err
		}
		down, err := b.intervalSpans(req.ConcaveDownIntervals)
		if err != nil {
			return err
		}
		b.addCurvature(up, true)
		b.addCurvature(down, false)
	}
	return nil
}
