// Package econpdes ties the pseudo-transient PDE solver to shape-constrained
// spline fitting: a stationary value function is computed on a grid and then
// compressed into a smooth, shape-respecting spline that callers evaluate
// anywhere in the domain.
package econpdes

import (
	"fmt"

	"github.com/chenwilliam77/EconFixedPointPDEs/relax"
	"github.com/chenwilliam77/EconFixedPointPDEs/spline"
)

// ValueFunction is the evaluation surface handed to callers: values and
// derivatives over a closed domain. *spline.Model satisfies it.
type ValueFunction interface {
	// Evaluate returns the derivative of the given order (0 to 3) at each
	// point. Points outside the domain evaluate to NaN.
	Evaluate(points []float64, mode int, assumeSorted bool) ([]float64, error)
	// Domain returns the closed interval the function is defined on.
	Domain() (lo, hi float64)
}

// Request configures one stationary solve-and-fit cycle.
type Request struct {
	// Grid holds the strictly increasing state nodes the PDE is solved on.
	Grid []float64

	// Coefficients of the stationary equation.
	Coefficients relax.Coefficients

	// Relax controls the pseudo-transient iteration. Zero value means
	// relax.DefaultOptions.
	Relax relax.Options

	// Fit controls the spline compression of the grid solution. Zero value
	// means spline.DefaultFitRequest with Increasing and ConcaveDown shape
	// constraints left off; set the shape fields to enforce the usual
	// value-function curvature.
	Fit spline.FitRequest
}

// SolveStationary solves the stationary equation on the request grid, fits a
// shape-constrained spline to the node values, and returns the spline as a
// ValueFunction together with the raw grid solution.
func SolveStationary(req Request) (ValueFunction, []float64, error) {
	opts := req.Relax
	if opts == (relax.Options{}) {
		opts = relax.DefaultOptions()
	}
	solver, err := relax.NewSolver(req.Grid, req.Coefficients, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("econpdes: %w", err)
	}
	values, err := solver.SolveStationary(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("econpdes: %w", err)
	}

	fit := req.Fit
	if fit.Knots == 0 {
		fit = spline.DefaultFitRequest()
	}
	model, err := spline.Fit(solver.Grid(), values, fit)
	if err != nil {
		return nil, nil, fmt.Errorf("econpdes: %w", err)
	}
	return model, values, nil
}
