// Package grid generates one dimensional node sequences for collocation and
// finite difference discretizations. Every constructor returns a strictly
// increasing slice spanning [lo, hi], or an error when the request cannot
// produce one.
package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadInterval indicates lo >= hi or a non-finite endpoint.
	ErrBadInterval = errors.New("grid: invalid interval")

	// ErrTooFewNodes indicates a node count below two.
	ErrTooFewNodes = errors.New("grid: at least two nodes required")

	// ErrNotImplemented marks grid families that are referenced by callers
	// but intentionally unsupported (Smolyak sparse grids).
	ErrNotImplemented = errors.New("grid: not implemented")
)

func checkInterval(lo, hi float64, n int) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return fmt.Errorf("[%v, %v]: %w", lo, hi, ErrBadInterval)
	}
	if n < 2 {
		return fmt.Errorf("n = %d: %w", n, ErrTooFewNodes)
	}
	return nil
}

// Uniform returns n evenly spaced nodes over [lo, hi], endpoints included.
func Uniform(lo, hi float64, n int) ([]float64, error) {
	if err := checkInterval(lo, hi, n); err != nil {
		return nil, err
	}
	nodes := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for index := range nodes {
		nodes[index] = lo + float64(index)*step
	}
	// Guard the last node against accumulated rounding.
	nodes[n-1] = hi
	return nodes, nil
}

// Chebyshev returns n Chebyshev nodes of the second kind mapped onto
// [lo, hi], endpoints included. The clustering toward the endpoints makes
// them the standard choice for collocation.
func Chebyshev(lo, hi float64, n int) ([]float64, error) {
	if err := checkInterval(lo, hi, n); err != nil {
		return nil, err
	}
	nodes := make([]float64, n)
	half := (hi - lo) / 2
	mid := (hi + lo) / 2
	for index := range nodes {
		// cos runs from pi down to 0 so the nodes come out increasing.
		theta := math.Pi * float64(n-1-index) / float64(n-1)
		nodes[index] = mid + half*math.Cos(theta)
	}
	nodes[0], nodes[n-1] = lo, hi
	return nodes, nil
}

// ChebyshevInterior returns n Chebyshev nodes strictly inside (0, 1). It is
// the sampling rule used when bounding a spline's value over each knot
// interval: the interval endpoints carry their own constraints, so only
// interior probes are needed.
func ChebyshevInterior(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("n = %d: %w", n, ErrTooFewNodes)
	}
	nodes := make([]float64, n)
	for index := range nodes {
		// Chebyshev points of the first kind on (0, 1), increasing.
		theta := math.Pi * (2*float64(n-index) - 1) / (2 * float64(n))
		nodes[index] = 0.5 + 0.5*math.Cos(theta)
	}
	return nodes, nil
}

// Exponential returns n nodes on [lo, hi] whose spacing grows geometrically
// away from lo. The scale parameter (> 0) controls the concentration; large
// values cluster harder near lo. Typical use is a state grid that needs
// resolution near a lower boundary.
func Exponential(lo, hi float64, n int, scale float64) ([]float64, error) {
	if err := checkInterval(lo, hi, n); err != nil {
		return nil, err
	}
	if math.IsNaN(scale) || scale <= 0 {
		return nil, fmt.Errorf("scale = %v: %w", scale, ErrBadInterval)
	}
	nodes := make([]float64, n)
	denom := math.Expm1(scale)
	for index := range nodes {
		u := float64(index) / float64(n-1)
		nodes[index] = lo + (hi-lo)*math.Expm1(scale*u)/denom
	}
	nodes[n-1] = hi
	return nodes, nil
}

// Smolyak sparse grids are referenced by the multi-dimensional callers of
// the original system but are not supported here.
func Smolyak(lo, hi []float64, level int) ([][]float64, error) {
	return nil, fmt.Errorf("smolyak level %d: %w", level, ErrNotImplemented)
}
