package multilateration

import (
	"fmt"

	"multilateration-sim/internal/common"
)

// DefaultSubsetSize solves every anchor triple independently.
const DefaultSubsetSize = 3

// Options controls how SubsetSolver turns one epoch into candidates.
type Options struct {
	// SubsetSize is the number of anchors per independent solve, at least 3.
	SubsetSize int
	// MaxCandidates caps the number of subsets solved; zero means no cap.
	MaxCandidates int
}

// DefaultOptions solves every triple without a cap.
func DefaultOptions() Options {
	return Options{SubsetSize: DefaultSubsetSize}
}

// Solver produces candidate positions from anchors and their ranges.
type Solver interface {
	Solve(anchors []common.Point, ranges []float64, opts Options) ([]common.Point, error)
}

// SubsetSolver runs SolveLeastSquares on every combination of SubsetSize
// anchors, in lexicographic order, and returns one candidate per
// successful solve. Degenerate subsets (collinear anchors) are skipped.
type SubsetSolver struct{}

// NewSubsetSolver creates a subset solver.
func NewSubsetSolver() *SubsetSolver {
	return &SubsetSolver{}
}

// Solve implements Solver. With no more anchors than SubsetSize a single
// solve over all anchors is performed.
func (s *SubsetSolver) Solve(anchors []common.Point, ranges []float64, opts Options) ([]common.Point, error) {
	if len(anchors) != len(ranges) {
		return nil, fmt.Errorf("%w: %d anchors but %d ranges", common.ErrUsage, len(anchors), len(ranges))
	}
	k := opts.SubsetSize
	if k == 0 {
		k = DefaultSubsetSize
	}
	if k < dimension+1 {
		return nil, fmt.Errorf("%w: subset size must be at least %d, got %d", common.ErrConfiguration, dimension+1, k)
	}
	if len(anchors) < dimension+1 {
		return nil, fmt.Errorf("insufficient anchors: got %d, need at least %d", len(anchors), dimension+1)
	}
	if len(anchors) <= k {
		sol, err := SolveLeastSquares(measurements(anchors, ranges, nil))
		if err != nil {
			return nil, err
		}
		return []common.Point{sol.Position}, nil
	}

	var candidates []common.Point
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if sol, err := SolveLeastSquares(measurements(anchors, ranges, idx)); err == nil {
			candidates = append(candidates, sol.Position)
			if opts.MaxCandidates > 0 && len(candidates) >= opts.MaxCandidates {
				break
			}
		}
		if !nextCombination(idx, len(anchors)) {
			break
		}
	}
	return candidates, nil
}

func measurements(anchors []common.Point, ranges []float64, idx []int) []Measurement {
	if idx == nil {
		out := make([]Measurement, len(anchors))
		for i := range anchors {
			out[i] = Measurement{AnchorPosition: anchors[i], Distance: ranges[i]}
		}
		return out
	}
	out := make([]Measurement, len(idx))
	for i, j := range idx {
		out[i] = Measurement{AnchorPosition: anchors[j], Distance: ranges[j]}
	}
	return out
}

// nextCombination advances idx to the next k-combination of [0, n) in
// lexicographic order and reports whether one exists.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}
