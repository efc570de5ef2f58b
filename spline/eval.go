package spline

import (
	"fmt"
	"math"
)

// Evaluate evaluates the spline (mode 0) or one of its derivatives (mode 1,
// 2 or 3) at the given points. Points outside the knot span evaluate to NaN.
// Mode -1 would request inverse evaluation (solving for x given a value),
// which is not implemented; any other mode outside -1..3 is rejected as
// invalid. Set assumeSorted when the points are already in ascending order
// to skip the internal permutation.
func (m *Model) Evaluate(points []float64, mode int, assumeSorted bool) ([]float64, error) {
	return m.evaluate(points, mode, assumeSorted, false)
}

// EvaluateStrict is Evaluate except that any point outside the knot span
// fails with ErrOutOfRange instead of producing NaN.
func (m *Model) EvaluateStrict(points []float64, mode int, assumeSorted bool) ([]float64, error) {
	return m.evaluate(points, mode, assumeSorted, true)
}

func (m *Model) evaluate(points []float64, mode int, assumeSorted, strict bool) ([]float64, error) {
	switch {
	case mode == -1:
		return nil, fmt.Errorf("inverse evaluation: %w", ErrNotImplemented)
	case mode < -1 || mode > 3:
		return nil, fmt.Errorf("derivative order %d: %w", mode, ErrInvalidArgument)
	}

	bins, err := bin(points, m.knots, assumeSorted, strict)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(points))
	for i, p := range points {
		j := bins[i]
		if j == outOfRangeBin {
			out[i] = math.NaN()
			continue
		}
		h := m.knots[j+1] - m.knots[j]
		t := (p - m.knots[j]) / h
		row := basisRow(mode, t, h)
		c0, c1 := m.coefs[j], m.coefs[j+1]
		out[i] = row[0]*c0.Value + row[1]*c0.Slope + row[2]*c1.Value + row[3]*c1.Slope
	}
	return out, nil
}
