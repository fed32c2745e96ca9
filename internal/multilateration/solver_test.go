package multilateration

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multilateration-sim/internal/common"
)

var (
	anchors = []common.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	target  = common.Point{X: 3, Y: 3}
)

// approxPoint compares points with an absolute tolerance. Point.Equal is
// exact, and cmp prefers it over float options.
var approxPoint = cmp.Comparer(func(a, b common.Point) bool {
	return math.Abs(a.X-b.X) <= 1e-9 && math.Abs(a.Y-b.Y) <= 1e-9
})

func rangesTo(p common.Point, as []common.Point) []float64 {
	out := make([]float64, len(as))
	for i, a := range as {
		out[i] = p.Distance(a)
	}
	return out
}

func TestSolveLeastSquaresExact(t *testing.T) {
	ms := measurements(anchors[:3], rangesTo(target, anchors[:3]), nil)
	sol, err := SolveLeastSquares(ms)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, sol.Position.X, 1e-9)
	assert.InDelta(t, 3.0, sol.Position.Y, 1e-9)
	assert.InDelta(t, 0.0, sol.ResidualError, 1e-9)

	e, err := CalculateLocalizationError(target, sol.Position)
	require.NoError(t, err)
	assert.Less(t, e, 1e-9)
}

func TestSolveLeastSquaresErrors(t *testing.T) {
	_, err := SolveLeastSquares(measurements(anchors[:2], []float64{1, 1}, nil))
	assert.Error(t, err)

	collinear := []common.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}
	_, err = SolveLeastSquares(measurements(collinear, rangesTo(target, collinear), nil))
	assert.Error(t, err)
}

func TestSubsetSolverProducesOneCandidatePerTriple(t *testing.T) {
	s := NewSubsetSolver()
	cands, err := s.Solve(anchors, rangesTo(target, anchors), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, cands, 4)
	want := []common.Point{target, target, target, target}
	if diff := cmp.Diff(want, cands, approxPoint); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	capped, err := s.Solve(anchors, rangesTo(target, anchors), Options{SubsetSize: 3, MaxCandidates: 2})
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	all, err := s.Solve(anchors, rangesTo(target, anchors), Options{SubsetSize: 4})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubsetSolverSkipsCollinearTriples(t *testing.T) {
	as := []common.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	cands, err := NewSubsetSolver().Solve(as, rangesTo(target, as), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, cands, 3)
}

func TestSubsetSolverErrors(t *testing.T) {
	s := NewSubsetSolver()
	_, err := s.Solve(anchors, []float64{1}, DefaultOptions())
	assert.ErrorIs(t, err, common.ErrUsage)

	_, err = s.Solve(anchors, rangesTo(target, anchors), Options{SubsetSize: 2})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = s.Solve(anchors[:2], []float64{1, 2}, DefaultOptions())
	assert.Error(t, err)
}

func TestNextCombination(t *testing.T) {
	idx := []int{0, 1, 2}
	var seen [][]int
	for {
		seen = append(seen, append([]int(nil), idx...))
		if !nextCombination(idx, 5) {
			break
		}
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, []int{0, 1, 3}, seen[1])
	assert.Equal(t, []int{2, 3, 4}, seen[9])
}
