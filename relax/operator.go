package relax

import "gonum.org/v1/gonum/mat"

// buildGenerator discretizes μ·d/dx + ½σ²·d²/dx² on a possibly nonuniform
// grid. First derivatives are first-order upwind: forward where μ > 0,
// backward where μ < 0, so the generator stays an M-matrix and the implicit
// step is unconditionally stable. Second derivatives are central. The
// boundaries reflect: the one-sided difference pointing out of the domain
// vanishes, and the diffusion term sees a mirrored ghost node.
func buildGenerator(grid []float64, coefs Coefficients) *mat.Dense {
	n := len(grid)
	gen := mat.NewDense(n, n, nil)

	for i := 0; i < n; i++ {
		mu := coefs.Drift(grid[i])
		sigma := coefs.Diffusion(grid[i])
		half := 0.5 * sigma * sigma

		var lower, diag, upper float64

		switch i {
		case 0:
			forward := grid[1] - grid[0]
			if mu > 0 {
				diag -= mu / forward
				upper += mu / forward
			}
			// Reflecting ghost node at grid[0] - forward with the same value
			// as grid[1].
			diag -= 2 * half / (forward * forward)
			upper += 2 * half / (forward * forward)
		case n - 1:
			backward := grid[n-1] - grid[n-2]
			if mu < 0 {
				diag += mu / backward
				lower -= mu / backward
			}
			diag -= 2 * half / (backward * backward)
			lower += 2 * half / (backward * backward)
		default:
			backward := grid[i] - grid[i-1]
			forward := grid[i+1] - grid[i]
			if mu > 0 {
				diag -= mu / forward
				upper += mu / forward
			} else if mu < 0 {
				diag += mu / backward
				lower -= mu / backward
			}
			width := backward + forward
			lower += 2 * half / (backward * width)
			diag -= 2 * half / (backward * forward)
			upper += 2 * half / (forward * width)
		}

		if i > 0 {
			gen.Set(i, i-1, lower)
		}
		gen.Set(i, i, diag)
		if i < n-1 {
			gen.Set(i, i+1, upper)
		}
	}
	return gen
}
