package spline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/chenwilliam77/EconFixedPointPDEs/gonumExtensions"
)

// constraintSet accumulates linear constraint rows into a growable buffer
// and finalizes them into a dense matrix exactly once. Inequality rows use
// the convention  row·c <= rhs.
type constraintSet struct {
	nc   int
	rows []float64
	rhs  []float64
}

func newConstraintSet(nc int) *constraintSet {
	return &constraintSet{nc: nc}
}

// append adds one row given its non-zero columns.
func (s *constraintSet) append(cols []int, vals []float64, rhs float64) {
	row := make([]float64, s.nc)
	for i, col := range cols {
		row[col] = vals[i]
	}
	s.rows = append(s.rows, row...)
	s.rhs = append(s.rhs, rhs)
}

func (s *constraintSet) len() int { return len(s.rhs) }

// finalize builds the dense matrix and right-hand side, then rescales every
// row by its own L1 norm. The normalization is a conditioning step keeping
// constraint rows on the same scale as the design and regularizer rows; it
// must run only after all rows are known.
func (s *constraintSet) finalize() (*mat.Dense, []float64) {
	if s.len() == 0 {
		return nil, nil
	}
	matrix := mat.NewDense(s.len(), s.nc, s.rows)
	rhs := append([]float64(nil), s.rhs...)
	gonumExtensions.RowL1Normalize(matrix, rhs)
	return matrix, rhs
}

// constraintBuilder translates shape requests into equality and inequality
// rows over the Hermite coefficient vector.
type constraintBuilder struct {
	knots []float64
	eq    *constraintSet
	ineq  *constraintSet
}

func newConstraintBuilder(knots []float64) *constraintBuilder {
	nc := 2 * len(knots)
	return &constraintBuilder{
		knots: knots,
		eq:    newConstraintSet(nc),
		ineq:  newConstraintSet(nc),
	}
}

// segmentCols returns the four coefficient columns of interval j.
func segmentCols(j int) []int {
	return []int{2 * j, 2*j + 1, 2*j + 2, 2*j + 3}
}

// addC2Continuity forces the second derivative of the left segment to match
// that of the right segment at every interior knot: one equality row each.
func (b *constraintBuilder) addC2Continuity() {
	nk := len(b.knots)
	for i := 1; i < nk-1; i++ {
		left := b.knots[i] - b.knots[i-1]
		right := b.knots[i+1] - b.knots[i]
		fromLeft := basisRow(2, 1, left)
		fromRight := basisRow(2, 0, right)

		// Left segment touches columns of interval i-1, right segment those
		// of interval i; the shared knot columns overlap.
		cols := []int{2 * (i - 1), 2*i - 1, 2 * i, 2*i + 1, 2*i + 2, 2*i + 3}
		vals := []float64{
			fromLeft[0], fromLeft[1],
			fromLeft[2] - fromRight[0], fromLeft[3] - fromRight[1],
			-fromRight[2], -fromRight[3],
		}
		b.eq.append(cols, vals, 0)
	}
}

// addLeftValue pins the spline value at the first knot.
func (b *constraintBuilder) addLeftValue(v float64) {
	b.eq.append([]int{0}, []float64{1}, v)
}

// addRightValue pins the spline value at the last knot.
func (b *constraintBuilder) addRightValue(v float64) {
	b.eq.append([]int{2 * (len(b.knots) - 1)}, []float64{1}, v)
}

// addBound appends value rows at the given normalized sample points mapped
// into every interval, bounding the spline from below (lower=true) or above.
// Sampling a fixed set of interior probes approximates a true global bound;
// it carries no completeness guarantee between probes.
func (b *constraintBuilder) addBound(v float64, probes []float64, lower bool) {
	for j := 0; j < len(b.knots)-1; j++ {
		h := b.knots[j+1] - b.knots[j]
		for _, t := range probes {
			row := basisRow(0, t, h)
			vals := row[:]
			rhs := v
			if lower {
				// row·c >= v  ->  -row·c <= -v
				vals = []float64{-row[0], -row[1], -row[2], -row[3]}
				rhs = -v
			}
			b.ineq.append(segmentCols(j), vals, rhs)
		}
	}
	// The knots themselves are bounded directly; probes cover the interior.
	for i := range b.knots {
		if lower {
			b.ineq.append([]int{2 * i}, []float64{-1}, -v)
		} else {
			b.ineq.append([]int{2 * i}, []float64{1}, v)
		}
	}
}

// addMonotone appends, for every interval index in spans, the sufficient
// conditions for a non-decreasing (increasing=true) or non-increasing cubic
// segment: both endpoint slopes lie in the Fritsch-Carlson box between 0 and
// 3 times the secant slope. Four inequality rows per interval.
func (b *constraintBuilder) addMonotone(spans []int, increasing bool) {
	sign := 1.
	if !increasing {
		sign = -1
	}
	for _, j := range spans {
		h := b.knots[j+1] - b.knots[j]
		cols := segmentCols(j)
		// sign*m_j >= 0 and sign*m_{j+1} >= 0
		b.ineq.append([]int{cols[1]}, []float64{-sign}, 0)
		b.ineq.append([]int{cols[3]}, []float64{-sign}, 0)
		// sign*(h*m - 3*(v1 - v0)) <= 0 at both endpoints
		b.ineq.append(cols, []float64{3 * sign, sign * h, -3 * sign, 0}, 0)
		b.ineq.append(cols, []float64{3 * sign, 0, -3 * sign, sign * h}, 0)
	}
}

// addCurvature appends, for every interval index in spans, the conditions
// for concave-up (up=true) or concave-down behavior. The second derivative
// of a cubic segment is linear in t, so sign conditions at both interval
// endpoints are exact: two inequality rows per interval.
func (b *constraintBuilder) addCurvature(spans []int, up bool) {
	sign := 1.
	if !up {
		sign = -1
	}
	for _, j := range spans {
		h := b.knots[j+1] - b.knots[j]
		for _, t := range [2]float64{0, 1} {
			row := basisRow(2, t, h)
			// sign*f'' >= 0  ->  -sign*row·c <= 0
			vals := []float64{-sign * row[0], -sign * row[1], -sign * row[2], -sign * row[3]}
			b.ineq.append(segmentCols(j), vals, 0)
		}
	}
}

// allSpans returns every interval index.
func (b *constraintBuilder) allSpans() []int {
	spans := make([]int, len(b.knots)-1)
	for j := range spans {
		spans[j] = j
	}
	return spans
}

// intervalSpans maps [lo, hi] x-intervals onto the indices of every knot
// interval they overlap. Interval rows must hold exactly two finite,
// increasing entries.
func (b *constraintBuilder) intervalSpans(intervals [][]float64) ([]int, error) {
	seen := make(map[int]bool)
	var spans []int
	for _, iv := range intervals {
		if len(iv) != 2 {
			return nil, fmt.Errorf("interval %v must have exactly two entries: %w", iv, ErrValidation)
		}
		lo, hi := iv[0], iv[1]
		if !(lo < hi) {
			return nil, fmt.Errorf("interval [%v, %v]: %w", lo, hi, ErrValidation)
		}
		for j := 0; j < len(b.knots)-1; j++ {
			if b.knots[j] < hi && b.knots[j+1] > lo && !seen[j] {
				seen[j] = true
				spans = append(spans, j)
			}
		}
	}
	return spans, nil
}
