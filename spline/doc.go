// Package spline fits shape-constrained least-squares cubic splines to
// scattered data and evaluates them together with their derivatives.
//
// A fit builds a piecewise-cubic Hermite spline: value and slope unknowns at
// every knot, a least-squares design matrix over those unknowns, a roughness
// regularizer on the integrated squared second derivative, and linear
// equality/inequality rows expressing the requested shape (C2 continuity,
// endpoint values, global bounds, monotonicity, curvature). The combined
// linearly-constrained least-squares problem is solved directly; the result
// is an immutable Model.
//
// All operations are pure in-memory numeric transformations: no I/O, no
// shared mutable state, deterministic for identical inputs.
package spline
