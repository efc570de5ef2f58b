// Package visualize renders fitted splines and value functions to PNG files.
// All file I/O of the module lives here.
package visualize

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/chenwilliam77/EconFixedPointPDEs/spline"
)

// Spline draws the fitted curve over its domain together with the sample
// scatter and saves the figure to path. The x and y slices may be nil to
// plot the curve alone.
func Spline(m *spline.Model, x, y []float64, path string) error {
	lo, hi := m.Domain()
	const samples = 256
	points := make([]float64, samples)
	for i := range points {
		points[i] = lo + (hi-lo)*float64(i)/float64(samples-1)
	}
	values, err := m.Evaluate(points, 0, true)
	if err != nil {
		return fmt.Errorf("visualize: evaluate spline: %w", err)
	}

	curve := make(plotter.XYs, samples)
	for i := range curve {
		curve[i].X, curve[i].Y = points[i], values[i]
	}

	p := plot.New()
	p.Title.Text = "fitted spline"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"

	line, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	p.Add(line)

	if len(x) > 0 && len(x) == len(y) {
		data := make(plotter.XYs, len(x))
		for i := range data {
			data[i].X, data[i].Y = x[i], y[i]
		}
		scatter, err := plotter.NewScatter(data)
		if err != nil {
			return fmt.Errorf("visualize: %w", err)
		}
		p.Add(scatter)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("visualize: save %s: %w", path, err)
	}
	return nil
}

// ValueFunction draws a value function sampled on a grid and saves the
// figure to path.
func ValueFunction(grid, v []float64, path string) error {
	if len(grid) != len(v) {
		return fmt.Errorf("visualize: %d nodes, %d values", len(grid), len(v))
	}

	curve := make(plotter.XYs, len(grid))
	for i := range curve {
		curve[i].X, curve[i].Y = grid[i], v[i]
	}

	p := plot.New()
	p.Title.Text = "value function"
	p.X.Label.Text = "state"
	p.Y.Label.Text = "value"

	line, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("visualize: save %s: %w", path, err)
	}
	return nil
}
