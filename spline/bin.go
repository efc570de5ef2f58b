package spline

import (
	"fmt"
	"sort"
)

// outOfRangeBin marks a point outside the knot span in lenient mode.
const outOfRangeBin = -1

// bin assigns each point the index j of the half-open knot interval
// [knots[j], knots[j+1]) containing it; a point equal to the last knot is
// clamped into the last interval. Output order always matches input order:
// unsorted input is sorted through an index permutation, binned, and
// un-permuted.
//
// In strict mode a point outside [knots[0], knots[len-1]] fails with
// ErrOutOfRange; otherwise its bin is outOfRangeBin and the caller decides
// (evaluation turns it into NaN).
func bin(points, knots []float64, assumeSorted, strict bool) ([]int, error) {
	bins := make([]int, len(points))
	if len(points) == 0 {
		return bins, nil
	}

	if assumeSorted {
		if err := binSorted(points, knots, strict, func(i, b int) { bins[i] = b }); err != nil {
			return nil, err
		}
		return bins, nil
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return points[order[a]] < points[order[b]] })

	sorted := make([]float64, len(points))
	for rank, idx := range order {
		sorted[rank] = points[idx]
	}
	err := binSorted(sorted, knots, strict, func(rank, b int) { bins[order[rank]] = b })
	if err != nil {
		return nil, err
	}
	return bins, nil
}

// binSorted walks sorted points and knots together in a single pass and
// reports (position, bin) pairs through emit.
func binSorted(points, knots []float64, strict bool, emit func(i, b int)) error {
	last := len(knots) - 1
	j := 0
	for i, p := range points {
		if p < knots[0] || p > knots[last] {
			if strict {
				return fmt.Errorf("point %v outside [%v, %v]: %w", p, knots[0], knots[last], ErrOutOfRange)
			}
			emit(i, outOfRangeBin)
			continue
		}
		for j < last-1 && p >= knots[j+1] {
			j++
		}
		emit(i, j)
	}
	return nil
}
