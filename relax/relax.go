// Package relax solves stationary and transient linear-generator equations
//
//	ρ(x)·v(x) = r(x) + μ(x)·v'(x) + ½σ²(x)·v''(x)
//
// on a one-dimensional grid by pseudo-transient continuation: the stationary
// equation is reached as the steady state of implicit damped time steps
//
//	((1/Δ + ρ)·I - L)·v⁺ = r + v/Δ
//
// where L is the upwind finite-difference discretization of the generator
// μ·d/dx + ½σ²·d²/dx² with reflecting boundaries. The step matrix is
// factorized once and reused across iterations.
package relax

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBadGrid indicates a grid that is too short or not strictly
	// increasing.
	ErrBadGrid = errors.New("relax: invalid grid")

	// ErrBadOptions indicates a missing coefficient callback or a
	// non-positive step, tolerance or iteration budget.
	ErrBadOptions = errors.New("relax: invalid options")

	// ErrNoConvergence indicates the stationary residual stayed above
	// tolerance for the whole iteration budget.
	ErrNoConvergence = errors.New("relax: no convergence")
)

// Coefficients carries the equation data as plain callbacks evaluated once
// per grid node. Diffusion is the volatility σ, not the variance.
type Coefficients struct {
	Discount  func(x float64) float64
	Drift     func(x float64) float64
	Diffusion func(x float64) float64
	Reward    func(x float64) float64
}

// Options controls the pseudo-transient iteration.
type Options struct {
	// Step is the damped pseudo-time step Δ. The implicit scheme is stable
	// for any positive value; larger steps converge faster on well-behaved
	// problems.
	Step float64

	// Tol is the sup-norm residual of the stationary equation at which the
	// iteration stops.
	Tol float64

	// MaxIterations bounds the number of implicit steps.
	MaxIterations int
}

// DefaultOptions returns the baseline iteration parameters.
func DefaultOptions() Options {
	return Options{Step: 10, Tol: 1e-9, MaxIterations: 1000}
}

// Solver holds one discretized equation: the grid, the generator matrix and
// the node-wise discount and reward vectors.
type Solver struct {
	grid     []float64
	opts     Options
	discount []float64
	reward   []float64
	gen      *mat.Dense
}

// NewSolver discretizes the equation on the given grid. The grid must hold
// at least three strictly increasing nodes and every coefficient callback
// must be set.
func NewSolver(grid []float64, coefs Coefficients, opts Options) (*Solver, error) {
	if len(grid) < 3 {
		return nil, fmt.Errorf("%d nodes: %w", len(grid), ErrBadGrid)
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return nil, fmt.Errorf("nodes %v and %v: %w", grid[i-1], grid[i], ErrBadGrid)
		}
	}
	if coefs.Discount == nil || coefs.Drift == nil || coefs.Diffusion == nil || coefs.Reward == nil {
		return nil, fmt.Errorf("nil coefficient callback: %w", ErrBadOptions)
	}
	if opts.Step <= 0 || opts.Tol <= 0 || opts.MaxIterations < 1 {
		return nil, fmt.Errorf("step %v, tol %v, max iterations %d: %w",
			opts.Step, opts.Tol, opts.MaxIterations, ErrBadOptions)
	}

	n := len(grid)
	s := &Solver{
		grid:     append([]float64(nil), grid...),
		opts:     opts,
		discount: make([]float64, n),
		reward:   make([]float64, n),
	}
	for i, x := range grid {
		s.discount[i] = coefs.Discount(x)
		s.reward[i] = coefs.Reward(x)
	}
	s.gen = buildGenerator(grid, coefs)
	return s, nil
}

// Grid returns a copy of the solver's nodes.
func (s *Solver) Grid() []float64 {
	return append([]float64(nil), s.grid...)
}

// SolveStationary iterates implicit damped steps from the initial guess until
// the stationary residual drops below tolerance. A nil guess starts from the
// myopic value r/ρ. The returned slice holds the value at every grid node.
func (s *Solver) SolveStationary(initial []float64) ([]float64, error) {
	n := len(s.grid)
	v := make([]float64, n)
	if initial != nil {
		if len(initial) != n {
			return nil, fmt.Errorf("initial guess length %d for %d nodes: %w", len(initial), n, ErrBadOptions)
		}
		copy(v, initial)
	} else {
		for i := range v {
			if s.discount[i] != 0 {
				v[i] = s.reward[i] / s.discount[i]
			}
		}
	}

	lu := s.factorizeStep(s.opts.Step)
	for iter := 0; iter < s.opts.MaxIterations; iter++ {
		if s.residual(v) < s.opts.Tol {
			return v, nil
		}
		next, err := s.step(lu, v, s.opts.Step)
		if err != nil {
			return nil, err
		}
		v = next
	}
	if s.residual(v) < s.opts.Tol {
		return v, nil
	}
	return nil, fmt.Errorf("residual %v above %v after %d iterations: %w",
		s.residual(v), s.opts.Tol, s.opts.MaxIterations, ErrNoConvergence)
}

// March runs the transient mode: the time span is covered with the given
// number of fixed implicit steps from the initial condition, without any
// convergence test. It returns the value at the end of the span.
func (s *Solver) March(initial []float64, span float64, steps int) ([]float64, error) {
	n := len(s.grid)
	if len(initial) != n {
		return nil, fmt.Errorf("initial condition length %d for %d nodes: %w", len(initial), n, ErrBadOptions)
	}
	if span <= 0 || steps < 1 {
		return nil, fmt.Errorf("span %v over %d steps: %w", span, steps, ErrBadOptions)
	}

	dt := span / float64(steps)
	lu := s.factorizeStep(dt)
	v := append([]float64(nil), initial...)
	for k := 0; k < steps; k++ {
		next, err := s.step(lu, v, dt)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// factorizeStep builds and factorizes ((1/Δ + ρ)·I - L).
func (s *Solver) factorizeStep(dt float64) *mat.LU {
	n := len(s.grid)
	step := mat.NewDense(n, n, nil)
	step.Scale(-1, s.gen)
	for i := 0; i < n; i++ {
		step.Set(i, i, step.At(i, i)+1/dt+s.discount[i])
	}
	var lu mat.LU
	lu.Factorize(step)
	return &lu
}

// step solves one implicit update ((1/Δ + ρ)·I - L)·v⁺ = r + v/Δ.
func (s *Solver) step(lu *mat.LU, v []float64, dt float64) ([]float64, error) {
	n := len(v)
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, s.reward[i]+v[i]/dt)
	}
	var next mat.VecDense
	if err := lu.SolveVecTo(&next, false, rhs); err != nil {
		return nil, fmt.Errorf("implicit step: %w", err)
	}
	out := make([]float64, n)
	copy(out, next.RawVector().Data)
	return out, nil
}

// residual returns the sup norm of ρ·v - r - L·v.
func (s *Solver) residual(v []float64) float64 {
	n := len(v)
	var lv mat.VecDense
	lv.MulVec(s.gen, mat.NewVecDense(n, v))
	worst := 0.
	for i := 0; i < n; i++ {
		r := math.Abs(s.discount[i]*v[i] - s.reward[i] - lv.AtVec(i))
		if r > worst {
			worst = r
		}
	}
	return worst
}
