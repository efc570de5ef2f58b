package spline

import "errors"

// Sentinel errors of the fitting and evaluation surface. Call sites wrap
// them with context via fmt.Errorf("...: %w", ErrX); match with errors.Is.
var (
	// ErrValidation indicates malformed input: mismatched slice lengths,
	// interval rows that are not [lo, hi] pairs, non-finite options.
	ErrValidation = errors.New("spline: invalid input")

	// ErrConflictingConstraints indicates mutually exclusive shape requests,
	// e.g. a whole-domain monotonicity flag combined with an explicit
	// monotonicity interval list.
	ErrConflictingConstraints = errors.New("spline: conflicting shape constraints")

	// ErrDegenerateKnots indicates that knot selection produced duplicate
	// positions, typically because the knot count exceeds the number of
	// distinct sample locations.
	ErrDegenerateKnots = errors.New("spline: degenerate knot sequence")

	// ErrOutOfRange indicates a point outside the knot span when strict
	// bounds checking was requested. The default evaluation policy degrades
	// to NaN per point instead.
	ErrOutOfRange = errors.New("spline: point outside knot range")

	// ErrInfeasibleConstraints indicates that no coefficient vector
	// satisfies all equality and inequality rows simultaneously.
	ErrInfeasibleConstraints = errors.New("spline: infeasible constraint system")

	// ErrNotImplemented marks stated but unsupported modes: degree other
	// than cubic, weighted fitting, inverse evaluation, extrapolation.
	ErrNotImplemented = errors.New("spline: not implemented")

	// ErrInvalidArgument indicates an evaluation mode outside the known set.
	ErrInvalidArgument = errors.New("spline: invalid argument")
)
