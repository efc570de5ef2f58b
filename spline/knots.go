package spline

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/chenwilliam77/EconFixedPointPDEs/grid"
)

// KnotPolicy selects how interior knot locations are chosen from the data.
type KnotPolicy int

const (
	// KnotsUniform places knots evenly over [min(x), max(x)]. Default.
	KnotsUniform KnotPolicy = iota

	// KnotsQuantile places knots at evenly spaced quantiles of x, so knot
	// density follows the data distribution.
	KnotsQuantile
)

// selectKnots returns nk strictly increasing knot positions spanning
// [min(x), max(x)]. Duplicate positions, which arise when nk exceeds the
// number of distinct x values under the quantile policy or when the data is
// a single point, fail with ErrDegenerateKnots.
func selectKnots(x []float64, nk int, policy KnotPolicy) ([]float64, error) {
	if nk < 2 {
		return nil, fmt.Errorf("%d knots requested: %w", nk, ErrValidation)
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var knots []float64
	switch policy {
	case KnotsUniform:
		if lo >= hi {
			return nil, fmt.Errorf("data span [%v, %v]: %w", lo, hi, ErrDegenerateKnots)
		}
		var err error
		knots, err = grid.Uniform(lo, hi, nk)
		if err != nil {
			return nil, fmt.Errorf("knot selection: %w", err)
		}
	case KnotsQuantile:
		data := stats.Float64Data(x)
		knots = make([]float64, nk)
		knots[0], knots[nk-1] = lo, hi
		for i := 1; i < nk-1; i++ {
			q, err := stats.Percentile(data, 100*float64(i)/float64(nk-1))
			if err != nil {
				// Percentile rejects a grid finer than the sample, which is
				// the same degeneracy the monotonicity check below catches.
				return nil, fmt.Errorf("knot quantile: %w: %v", ErrDegenerateKnots, err)
			}
			knots[i] = q
		}
	default:
		return nil, fmt.Errorf("knot policy %d: %w", policy, ErrValidation)
	}

	for i := 1; i < nk; i++ {
		if knots[i] <= knots[i-1] {
			return nil, fmt.Errorf("knots %v and %v coincide: %w", knots[i-1], knots[i], ErrDegenerateKnots)
		}
	}

	return knots, nil
}
