package spline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// rowDot evaluates one constraint row against a coefficient vector.
func rowDot(m *mat.Dense, row int, c []float64) float64 {
	sum := 0.
	for j, v := range c {
		sum += m.At(row, j) * v
	}
	return sum
}

func TestC2ContinuityVanishesOnCubic(t *testing.T) {
	// x³ on [0, 2] has a continuous second derivative, so its exact Hermite
	// coefficients must satisfy every continuity row.
	b := newConstraintBuilder([]float64{0, 1, 2})
	b.addC2Continuity()
	eq, rhs := b.eq.finalize()
	require.NotNil(t, eq)
	require.Len(t, rhs, 1)

	c := []float64{0, 0, 1, 3, 8, 12}
	assert.InDelta(t, 0, rowDot(eq, 0, c), 1e-12)
}

func TestEndpointValueRows(t *testing.T) {
	b := newConstraintBuilder([]float64{0, 1, 2})
	b.addLeftValue(3)
	b.addRightValue(-1)
	eq, rhs := b.eq.finalize()

	require.Equal(t, 2, len(rhs))
	assert.InDelta(t, 3, rhs[0], 1e-12)
	assert.InDelta(t, 1, eq.At(0, 0), 1e-12)
	assert.InDelta(t, -1, rhs[1], 1e-12)
	assert.InDelta(t, 1, eq.At(1, 4), 1e-12)
}

func TestMonotoneRowsAdmitLinearGrowth(t *testing.T) {
	knots := []float64{0, 1, 2}
	b := newConstraintBuilder(knots)
	b.addMonotone(b.allSpans(), true)
	ineq, rhs := b.ineq.finalize()
	require.Equal(t, 8, len(rhs))

	// f(x) = x satisfies every non-decreasing row.
	c := []float64{0, 1, 1, 1, 2, 1}
	for i := range rhs {
		assert.LessOrEqual(t, rowDot(ineq, i, c), rhs[i]+1e-12, "row %d", i)
	}

	// f(x) = -x violates at least one.
	d := []float64{0, -1, -1, -1, -2, -1}
	violated := false
	for i := range rhs {
		if rowDot(ineq, i, d) > rhs[i]+1e-12 {
			violated = true
		}
	}
	assert.True(t, violated)
}

func TestCurvatureRowsMatchSign(t *testing.T) {
	knots := []float64{0, 1}
	b := newConstraintBuilder(knots)
	b.addCurvature(b.allSpans(), true)
	ineq, rhs := b.ineq.finalize()
	require.Equal(t, 2, len(rhs))

	// f(x) = x² is concave up; its coefficients satisfy both rows.
	up := []float64{0, 0, 1, 2}
	for i := range rhs {
		assert.LessOrEqual(t, rowDot(ineq, i, up), rhs[i]+1e-12)
	}

	down := []float64{0, 0, -1, -2}
	violated := false
	for i := range rhs {
		if rowDot(ineq, i, down) > rhs[i]+1e-12 {
			violated = true
		}
	}
	assert.True(t, violated)
}

func TestBoundRowsCoverKnotsAndProbes(t *testing.T) {
	knots := []float64{0, 1, 2}
	b := newConstraintBuilder(knots)
	b.addBound(0, []float64{0.5}, true)
	ineq, rhs := b.ineq.finalize()

	// One probe per interval plus one row per knot.
	require.Equal(t, 2+3, len(rhs))

	// The constant function 1 stays above the bound everywhere.
	c := []float64{1, 0, 1, 0, 1, 0}
	for i := range rhs {
		assert.LessOrEqual(t, rowDot(ineq, i, c), rhs[i]+1e-12)
	}
}

func TestFinalizeNormalizesRows(t *testing.T) {
	s := newConstraintSet(2)
	s.append([]int{0, 1}, []float64{2, 2}, 8)
	m, rhs := s.finalize()

	assert.InDelta(t, 0.5, m.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, m.At(0, 1), 1e-12)
	assert.InDelta(t, 2, rhs[0], 1e-12)
}

func TestFinalizeEmptySet(t *testing.T) {
	s := newConstraintSet(4)
	m, rhs := s.finalize()
	assert.Nil(t, m)
	assert.Nil(t, rhs)
}

func TestIntervalSpans(t *testing.T) {
	b := newConstraintBuilder([]float64{0, 1, 2, 3})

	spans, err := b.intervalSpans([][]float64{{0.5, 1.5}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, spans)

	// Overlapping requests do not duplicate interval indices.
	spans, err = b.intervalSpans([][]float64{{0, 3}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, spans)

	spans, err = b.intervalSpans(nil)
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestIntervalSpansValidation(t *testing.T) {
	b := newConstraintBuilder([]float64{0, 1, 2})

	_, err := b.intervalSpans([][]float64{{1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = b.intervalSpans([][]float64{{2, 1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = b.intervalSpans([][]float64{{math.NaN(), 1}})
	assert.ErrorIs(t, err, ErrValidation)
}
