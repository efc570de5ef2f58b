package spline

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unknown layout: coefficient column 2j holds the value at knot j, column
// 2j+1 the slope, so a sample binned into interval j touches columns
// 2j .. 2j+3.

// buildDesign returns the least-squares design matrix over nc = 2*len(knots)
// unknowns for samples x with precomputed bin indices.
func buildDesign(x []float64, bins []int, knots []float64) *mat.Dense {
	nc := 2 * len(knots)
	design := mat.NewDense(len(x), nc, nil)
	for i, p := range x {
		j := bins[i]
		h := knots[j+1] - knots[j]
		t := (p - knots[j]) / h
		row := basisRow(0, t, h)
		design.Set(i, 2*j, row[0])
		design.Set(i, 2*j+1, row[1])
		design.Set(i, 2*j+2, row[2])
		design.Set(i, 2*j+3, row[3])
	}
	return design
}

// buildRegularizer returns the roughness penalty matrix: one second
// derivative row per knot, weighted by the square root of the mean width of
// the adjacent intervals so that ||R·c||² approximates the integrated
// squared second derivative. Interior and first knots take f'' from the
// interval to their right, the last knot from its left.
func buildRegularizer(knots []float64) *mat.Dense {
	nk := len(knots)
	nc := 2 * nk
	reg := mat.NewDense(nk, nc, nil)
	for i := 0; i < nk; i++ {
		j, t := i, 0.
		if i == nk-1 {
			j, t = nk-2, 1.
		}
		h := knots[j+1] - knots[j]

		width := 0.
		sides := 0.
		if i > 0 {
			width += knots[i] - knots[i-1]
			sides++
		}
		if i < nk-1 {
			width += knots[i+1] - knots[i]
			sides++
		}
		weight := math.Sqrt(width / sides)

		row := basisRow(2, t, h)
		reg.Set(i, 2*j, weight*row[0])
		reg.Set(i, 2*j+1, weight*row[1])
		reg.Set(i, 2*j+2, weight*row[2])
		reg.Set(i, 2*j+3, weight*row[3])
	}
	return reg
}
