package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNNLSUnconstrainedInterior(t *testing.T) {
	e := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	u, err := nnls(e, []float64{1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, u, 1e-10)
}

func TestNNLSClampsNegativeComponent(t *testing.T) {
	// The unconstrained minimizer is (-0.5, 3); the sign constraint pins the
	// first component at zero.
	e := mat.NewDense(2, 2, []float64{2, 0, 0, 1})
	u, err := nnls(e, []float64{-1, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 3}, u, 1e-10)
}

func TestLDPProjectsOntoConstraintCorner(t *testing.T) {
	// min ||x|| subject to x1 >= 1 and x2 >= 1.
	g := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x, err := ldp(g, []float64{1, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, x, 1e-8)
}

func TestLDPInactiveConstraintsGiveOrigin(t *testing.T) {
	g := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x, err := ldp(g, []float64{-1, -1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, x, 1e-8)
}

func TestLDPInfeasible(t *testing.T) {
	// x >= 1 and -x >= 1 cannot both hold.
	g := mat.NewDense(2, 1, []float64{1, -1})
	_, err := ldp(g, []float64{1, 1})
	assert.ErrorIs(t, err, ErrInfeasibleConstraints)
}

func TestLSIActiveBound(t *testing.T) {
	// min ||x - (2, -3)|| subject to x2 >= 0.
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	g := mat.NewDense(1, 2, []float64{0, 1})
	x, err := lsi(a, []float64{2, -3}, g, []float64{0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 0}, x, 1e-8)
}

func TestEliminateEqualitiesProperties(t *testing.T) {
	eq := mat.NewDense(1, 2, []float64{1, 1})
	c0, nullSpace, err := eliminateEqualities(eq, []float64{2})
	require.NoError(t, err)

	// The particular solution satisfies the constraint.
	assert.InDelta(t, 2, c0[0]+c0[1], 1e-12)

	// The null-space basis is one orthonormal column annihilated by eq.
	rows, cols := nullSpace.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 1, cols)
	z0, z1 := nullSpace.At(0, 0), nullSpace.At(1, 0)
	assert.InDelta(t, 0, z0+z1, 1e-12)
	assert.InDelta(t, 1, z0*z0+z1*z1, 1e-12)
}

func TestEliminateEqualitiesRankDeficient(t *testing.T) {
	eq := mat.NewDense(2, 2, []float64{1, 1, 2, 2})
	_, _, err := eliminateEqualities(eq, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInfeasibleConstraints)
}

func TestSolveCoefficientsEqualityOnly(t *testing.T) {
	p := constrainedProblem{
		design: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
		target: []float64{1, 2},
		eqM:    mat.NewDense(1, 2, []float64{1, 0}),
		eqRHS:  []float64{0},
	}
	c, err := solveCoefficients(p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2}, c, 1e-10)
}

func TestSolveCoefficientsInequalityOnly(t *testing.T) {
	// min ||c - (1, 2)|| subject to c2 <= 1.
	p := constrainedProblem{
		design:  mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
		target:  []float64{1, 2},
		ineqM:   mat.NewDense(1, 2, []float64{0, 1}),
		ineqRHS: []float64{1},
	}
	c, err := solveCoefficients(p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, c, 1e-8)
}

func TestSolveCoefficientsInfeasible(t *testing.T) {
	// c1 <= -1 and c1 >= 1 together.
	p := constrainedProblem{
		design:  mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
		target:  []float64{0, 0},
		ineqM:   mat.NewDense(2, 2, []float64{1, 0, -1, 0}),
		ineqRHS: []float64{-1, -1},
	}
	_, err := solveCoefficients(p)
	assert.ErrorIs(t, err, ErrInfeasibleConstraints)
}

func TestSolveCoefficientsRegularizerPullsTowardZero(t *testing.T) {
	// With a huge penalty on the second unknown the solution drops it.
	p := constrainedProblem{
		design: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
		target: []float64{1, 1},
		reg:    mat.NewDense(1, 2, []float64{0, 1}),
		lambda: 1e8,
	}
	c, err := solveCoefficients(p)
	require.NoError(t, err)
	assert.InDelta(t, 1, c[0], 1e-10)
	assert.InDelta(t, 0, c[1], 1e-6)
}
