// Package robust rejects candidate positions that disagree with the
// consensus of the other candidates.
//
// Every pair of candidates is compared. The threshold MEDV is twice the
// median pairwise distance, taking the element of 1-based rank
// floor(count/2)+1 as the median. A candidate is dropped when its distance
// to more than half of the candidates is at least MEDV. Pairs of identical
// candidates never count as disagreeing, so a set of identical candidates
// survives intact even though its MEDV is zero.
package robust

import (
	"multilateration-sim/internal/common"
)

// Result describes one filtering pass.
type Result struct {
	Survivors []common.Point
	Dropped   []int   // indices into the input, ascending
	Threshold float64 // MEDV; zero when fewer than two candidates
}

// Filter returns the candidates that agree with the consensus, in input
// order. With fewer than two candidates the input is returned unchanged.
func Filter(candidates []common.Point) []common.Point {
	return Apply(candidates).Survivors
}

// Apply runs the filter and reports what it dropped.
func Apply(candidates []common.Point) Result {
	n := len(candidates)
	if n <= 1 {
		return Result{Survivors: candidates}
	}

	dists := PairwiseDistances(candidates)
	scratch := make([]float64, len(dists))
	copy(scratch, dists)
	medv := 2 * Select(scratch, len(scratch)/2)

	disagree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dists[pairIndex(i, j, n)]
			if d >= medv && d > 0 {
				disagree[i]++
				disagree[j]++
			}
		}
	}

	res := Result{
		Survivors: make([]common.Point, 0, n),
		Threshold: medv,
	}
	for i, c := range candidates {
		if disagree[i] > n/2 {
			res.Dropped = append(res.Dropped, i)
			continue
		}
		res.Survivors = append(res.Survivors, c)
	}
	return res
}

// PairwiseDistances returns the n(n-1)/2 distances between distinct
// candidates, row by row of the upper triangle: (0,1), (0,2), ..., (1,2), ...
func PairwiseDistances(points []common.Point) []float64 {
	n := len(points)
	if n < 2 {
		return nil
	}
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, points[i].Distance(points[j]))
		}
	}
	return out
}

// pairIndex locates pair (i, j), i < j, in the PairwiseDistances layout.
func pairIndex(i, j, n int) int {
	return i*(2*n-i-1)/2 + (j - i - 1)
}
