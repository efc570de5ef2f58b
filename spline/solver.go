package spline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/chenwilliam77/EconFixedPointPDEs/gonumExtensions"
)

// The solver minimizes ||Design·c - y||² + λ·||Reg·c||² subject to
// Eq·c = eqRHS and Ineq·c <= ineqRHS. The quadratic objective is folded into
// a single least-squares block by stacking Design on top of √λ·Reg; equality
// constraints are eliminated through the null space of their matrix; the
// remaining inequality-constrained least-squares problem is solved with the
// classical Lawson-Hanson chain NNLS -> LDP -> LSI. Everything is direct and
// deterministic: identical inputs give identical coefficients.

// constrainedProblem carries one fully assembled fit system.
type constrainedProblem struct {
	design  *mat.Dense
	target  []float64
	reg     *mat.Dense
	lambda  float64
	eqM     *mat.Dense
	eqRHS   []float64
	ineqM   *mat.Dense // row·c <= rhs
	ineqRHS []float64
}

const (
	// rankTol flags negligible triangular pivots relative to the largest.
	rankTol = 1e-12

	// feasTol is the slack allowed when verifying inequality feasibility.
	feasTol = 1e-8
)

// solveCoefficients returns the coefficient vector of the constrained
// least-squares problem.
func solveCoefficients(p constrainedProblem) ([]float64, error) {
	stacked, rhs := p.stack()

	// Inequalities enter the chain in G·c >= h form.
	var ineqG *mat.Dense
	var ineqH []float64
	if p.ineqM != nil {
		rows, cols := p.ineqM.Dims()
		ineqG = mat.NewDense(rows, cols, nil)
		ineqG.Scale(-1, p.ineqM)
		ineqH = make([]float64, rows)
		for i, v := range p.ineqRHS {
			ineqH[i] = -v
		}
	}

	if p.eqM == nil {
		if ineqG == nil {
			return lstsq(stacked, rhs)
		}
		return lsi(stacked, rhs, ineqG, ineqH)
	}

	// Eliminate the equality constraints: c = c0 + Z·w with Z spanning the
	// null space of the equality matrix.
	c0, nullSpace, err := eliminateEqualities(p.eqM, p.eqRHS)
	if err != nil {
		return nil, err
	}

	_, free := nullSpace.Dims()
	if free == 0 {
		// Every degree of freedom is pinned; just verify the inequalities.
		if !satisfies(ineqG, ineqH, c0) {
			return nil, fmt.Errorf("equality constraints pin an infeasible point: %w", ErrInfeasibleConstraints)
		}
		return c0, nil
	}

	reducedA := &mat.Dense{}
	reducedA.Mul(stacked, nullSpace)
	reducedY := subtractProjection(rhs, stacked, c0)

	var w []float64
	if ineqG == nil {
		w, err = lstsq(reducedA, reducedY)
	} else {
		reducedG := &mat.Dense{}
		reducedG.Mul(ineqG, nullSpace)
		reducedH := subtractProjection(ineqH, ineqG, c0)
		w, err = lsi(reducedA, reducedY, reducedG, reducedH)
	}
	if err != nil {
		return nil, err
	}

	coefs := make([]float64, len(c0))
	wVec := mat.NewVecDense(len(w), w)
	var zw mat.VecDense
	zw.MulVec(nullSpace, wVec)
	for i := range coefs {
		coefs[i] = c0[i] + zw.AtVec(i)
	}
	return coefs, nil
}

// stack folds the regularizer into the design block as √λ rows.
func (p constrainedProblem) stack() (*mat.Dense, []float64) {
	if p.lambda <= 0 || p.reg == nil {
		return p.design, p.target
	}
	regRows, regCols := p.reg.Dims()
	scaled := mat.NewDense(regRows, regCols, nil)
	scaled.Scale(math.Sqrt(p.lambda), p.reg)
	stacked := gonumExtensions.VStack(p.design, scaled)
	rhs := append(append([]float64(nil), p.target...), make([]float64, regRows)...)
	return stacked, rhs
}

// subtractProjection returns base - m·v.
func subtractProjection(base []float64, m *mat.Dense, v []float64) []float64 {
	var proj mat.VecDense
	proj.MulVec(m, mat.NewVecDense(len(v), v))
	out := make([]float64, len(base))
	for i := range out {
		out[i] = base[i] - proj.AtVec(i)
	}
	return out
}

// satisfies reports whether G·x >= h within feasTol. A nil G is feasible.
func satisfies(g *mat.Dense, h []float64, x []float64) bool {
	if g == nil {
		return true
	}
	var gx mat.VecDense
	gx.MulVec(g, mat.NewVecDense(len(x), x))
	for i, bound := range h {
		if gx.AtVec(i) < bound-feasTol {
			return false
		}
	}
	return true
}

// lstsq solves the dense least-squares problem min ||a·x - y|| through a QR
// factorization. Ill-conditioning is tolerated; rank failures are not.
func lstsq(a *mat.Dense, y []float64) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(a)
	var x mat.VecDense
	err := qr.SolveVecTo(&x, false, mat.NewVecDense(len(y), y))
	if err != nil && !isConditionErr(err) {
		return nil, fmt.Errorf("least-squares solve: %w", err)
	}
	out := make([]float64, x.Len())
	copy(out, x.RawVector().Data)
	return out, nil
}

func isConditionErr(err error) bool {
	var cond mat.Condition
	return errors.As(err, &cond)
}

// eliminateEqualities computes a particular solution c0 of Eq·c = d and an
// orthonormal basis Z of the null space of Eq, via the full QR factorization
// of Eqᵀ. Rank-deficient equality systems (duplicate or contradictory rows)
// fail with ErrInfeasibleConstraints.
func eliminateEqualities(eq *mat.Dense, d []float64) (c0 []float64, nullSpace *mat.Dense, err error) {
	me, nc := eq.Dims()
	if me > nc {
		return nil, nil, fmt.Errorf("%d equality rows for %d unknowns: %w", me, nc, ErrInfeasibleConstraints)
	}

	var qr mat.QR
	qr.Factorize(eq.T())

	var q, r mat.Dense
	qr.QTo(&q) // nc x nc
	qr.RTo(&r) // nc x me

	r1 := r.Slice(0, me, 0, me)
	if minAbsDiag(r1) < rankTol*math.Max(1, maxAbsDiag(r1)) {
		return nil, nil, fmt.Errorf("rank-deficient equality system: %w", ErrInfeasibleConstraints)
	}

	// Solve R1ᵀ·z = d, then c0 = Q1·z satisfies Eq·c0 = d.
	var z mat.VecDense
	if err := z.SolveVec(r1.T(), mat.NewVecDense(len(d), d)); err != nil && !isConditionErr(err) {
		return nil, nil, fmt.Errorf("equality elimination: %w: %v", ErrInfeasibleConstraints, err)
	}
	q1 := q.Slice(0, nc, 0, me)
	var particular mat.VecDense
	particular.MulVec(q1, &z)

	c0 = make([]float64, nc)
	copy(c0, particular.RawVector().Data)

	nullSpace = mat.DenseCopyOf(q.Slice(0, nc, me, nc))
	return c0, nullSpace, nil
}

func minAbsDiag(m mat.Matrix) float64 {
	rows, _ := m.Dims()
	smallest := math.Inf(1)
	for i := 0; i < rows; i++ {
		if v := math.Abs(m.At(i, i)); v < smallest {
			smallest = v
		}
	}
	return smallest
}

func maxAbsDiag(m mat.Matrix) float64 {
	rows, _ := m.Dims()
	largest := 0.
	for i := 0; i < rows; i++ {
		if v := math.Abs(m.At(i, i)); v > largest {
			largest = v
		}
	}
	return largest
}

// lsi solves min ||a·x - y|| subject to g·x >= h for a with full column
// rank, by transforming into a least-distance problem in the coordinates of
// the triangular factor of a.
func lsi(a *mat.Dense, y []float64, g *mat.Dense, h []float64) ([]float64, error) {
	_, n := a.Dims()

	var qr mat.QR
	qr.Factorize(a)
	var r mat.Dense
	qr.RTo(&r)
	r1 := r.Slice(0, n, 0, n)
	if minAbsDiag(r1) < rankTol*math.Max(1, maxAbsDiag(r1)) {
		return nil, fmt.Errorf("design matrix rank deficient: %w", ErrValidation)
	}

	// The unconstrained minimizer gives Qᵀy implicitly: R·xHat = (Qᵀy)ₙ.
	xHat, err := lstsq(a, y)
	if err != nil {
		return nil, err
	}
	var qty mat.VecDense
	qty.MulVec(r1, mat.NewVecDense(n, xHat))

	// rInv via the triangular system R·X = I.
	var rInv mat.Dense
	if err := rInv.Solve(r1, gonumExtensions.Eye(n)); err != nil && !isConditionErr(err) {
		return nil, fmt.Errorf("triangular inversion: %w", err)
	}

	// z = R·x - Qᵀy turns the objective into min ||z|| with constraints
	// (G·R⁻¹)·z >= h - (G·R⁻¹)·(Qᵀy).
	var gr mat.Dense
	gr.Mul(g, &rInv)
	qtyRaw := make([]float64, n)
	copy(qtyRaw, qty.RawVector().Data)
	hShift := subtractProjection(h, &gr, qtyRaw)

	z, err := ldp(&gr, hShift)
	if err != nil {
		return nil, err
	}

	x := make([]float64, n)
	for i := range z {
		z[i] += qtyRaw[i]
	}
	var xVec mat.VecDense
	xVec.MulVec(&rInv, mat.NewVecDense(n, z))
	copy(x, xVec.RawVector().Data)
	return x, nil
}

// ldp solves the least-distance problem min ||x|| subject to g·x >= h by the
// Lawson-Hanson reduction to a non-negative least-squares problem. A zero
// NNLS residual certifies that the constraints admit no solution.
func ldp(g *mat.Dense, h []float64) ([]float64, error) {
	mg, n := g.Dims()

	// E = [gᵀ; hᵀ] is (n+1) x mg, f is the last unit vector.
	e := mat.NewDense(n+1, mg, nil)
	for k := 0; k < mg; k++ {
		for i := 0; i < n; i++ {
			e.Set(i, k, g.At(k, i))
		}
		e.Set(n, k, h[k])
	}
	f := make([]float64, n+1)
	f[n] = 1

	u, err := nnls(e, f)
	if err != nil {
		return nil, err
	}

	// Residual r = E·u - f. A vanishing residual, equivalently a last
	// component that fails to drop below zero, certifies infeasibility.
	var r mat.VecDense
	r.MulVec(e, mat.NewVecDense(mg, u))
	res := make([]float64, n+1)
	rnorm := 0.
	for i := 0; i <= n; i++ {
		res[i] = r.AtVec(i) - f[i]
		rnorm += res[i] * res[i]
	}
	rnorm = math.Sqrt(rnorm)
	if rnorm < 1e-10 || res[n] > -1e-10 {
		return nil, fmt.Errorf("least-distance subproblem: %w", ErrInfeasibleConstraints)
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = -res[i] / res[n]
	}
	return x, nil
}

// nnls solves min ||e·u - f|| subject to u >= 0 with the active-set method
// of Lawson and Hanson. Columns move between the zero set and the passive
// set until the dual vector has no positive entry outside the passive set.
func nnls(e *mat.Dense, f []float64) ([]float64, error) {
	m, n := e.Dims()
	u := make([]float64, n)
	passive := make([]bool, n)
	maxIter := 3 * n
	if maxIter < 30 {
		maxIter = 30
	}

	dualTol := nnlsDualTol(e, f)
	fVec := mat.NewVecDense(m, f)

	for iter := 0; iter < maxIter; iter++ {
		// Dual w = eᵀ·(f - e·u).
		var res mat.VecDense
		res.MulVec(e, mat.NewVecDense(n, u))
		res.SubVec(fVec, &res)
		var dual mat.VecDense
		dual.MulVec(e.T(), &res)

		pick, best := -1, dualTol
		for j := 0; j < n; j++ {
			if !passive[j] && dual.AtVec(j) > best {
				pick, best = j, dual.AtVec(j)
			}
		}
		if pick < 0 {
			return u, nil
		}
		passive[pick] = true

		for {
			z, err := passiveLeastSquares(e, f, passive)
			if err != nil {
				return nil, err
			}

			// All passive components positive: accept and look for the next
			// dual violation.
			negative := false
			for j := 0; j < n; j++ {
				if passive[j] && z[j] <= 0 {
					negative = true
					break
				}
			}
			if !negative {
				copy(u, z)
				break
			}

			// Step from u toward z until the first passive component hits
			// zero, then demote it.
			alpha := 1.
			for j := 0; j < n; j++ {
				if passive[j] && z[j] <= 0 {
					if step := u[j] / (u[j] - z[j]); step < alpha {
						alpha = step
					}
				}
			}
			for j := 0; j < n; j++ {
				if passive[j] {
					u[j] += alpha * (z[j] - u[j])
					if u[j] <= dualTol {
						u[j] = 0
						passive[j] = false
					}
				}
			}
		}
	}
	return nil, fmt.Errorf("non-negative least squares did not converge: %w", ErrInfeasibleConstraints)
}

// nnlsDualTol scales the dual optimality tolerance to the problem data.
func nnlsDualTol(e *mat.Dense, f []float64) float64 {
	scale := mat.Norm(e, 2)
	for _, v := range f {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}
	if scale == 0 {
		scale = 1
	}
	return 1e-11 * scale
}

// passiveLeastSquares solves the unconstrained least-squares problem over
// the passive columns only, returning a full-length vector with zeros in the
// remaining positions.
func passiveLeastSquares(e *mat.Dense, f []float64, passive []bool) ([]float64, error) {
	m, n := e.Dims()
	var cols []int
	for j := 0; j < n; j++ {
		if passive[j] {
			cols = append(cols, j)
		}
	}
	sub := mat.NewDense(m, len(cols), nil)
	for k, j := range cols {
		for i := 0; i < m; i++ {
			sub.Set(i, k, e.At(i, j))
		}
	}
	sol, err := lstsq(sub, f)
	if err != nil {
		return nil, err
	}
	z := make([]float64, n)
	for k, j := range cols {
		z[j] = sol[k]
	}
	return z, nil
}
