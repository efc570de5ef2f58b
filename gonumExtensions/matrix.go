// Package gonumExtensions collects small dense-matrix helpers that gonum
// does not provide directly.
package gonumExtensions

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ones returns a (m by n) matrix filled with ones
func Ones(m, n int) *mat.Dense {
	return Full(m, n, 1.)
}

// Full returns a (m by n) matrix filled with value
func Full(m, n int, value float64) *mat.Dense {
	data := make([]float64, m*n)
	for index := range data {
		data[index] = value
	}
	return mat.NewDense(m, n, data)
}

// Eye returns the (n by n) identity matrix.
func Eye(n int) *mat.Dense {
	tmp := mat.NewDense(n, n, nil)
	for index := 0; index < n; index++ {
		tmp.Set(index, index, 1)
	}
	return tmp
}

// VStack stacks the given matrices on top of each other. All matrices must
// share the same number of columns. Nil matrices and matrices with zero rows
// are skipped; nil is returned when nothing remains.
func VStack(matrices ...mat.Matrix) *mat.Dense {
	rows, cols := 0, 0
	for _, matrix := range matrices {
		if matrix == nil {
			continue
		}
		m, n := matrix.Dims()
		if m == 0 {
			continue
		}
		if cols == 0 {
			cols = n
		}
		if n != cols {
			panic("gonumExtensions: VStack column mismatch")
		}
		rows += m
	}
	if rows == 0 {
		return nil
	}
	res := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, matrix := range matrices {
		if matrix == nil {
			continue
		}
		m, _ := matrix.Dims()
		if m == 0 {
			continue
		}
		res.Slice(offset, offset+m, 0, cols).(*mat.Dense).Copy(matrix)
		offset += m
	}
	return res
}

// RowL1Normalize divides every row of matrix, and the matching entry of rhs,
// by the L1 norm of that row. Rows with zero norm are left untouched.
func RowL1Normalize(matrix *mat.Dense, rhs []float64) {
	if matrix == nil {
		return
	}
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		norm := 0.
		for col := 0; col < n; col++ {
			norm += math.Abs(matrix.At(row, col))
		}
		if norm == 0 {
			continue
		}
		for col := 0; col < n; col++ {
			matrix.Set(row, col, matrix.At(row, col)/norm)
		}
		if rhs != nil {
			rhs[row] /= norm
		}
	}
}

// HasNaNOrInf checks if there are any NaN or Inf entries in matrix.
func HasNaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}
