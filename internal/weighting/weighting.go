// Package weighting scores candidate positions against observed ranges.
package weighting

import (
	"math"

	"multilateration-sim/internal/common"
)

// Epsilon guards denominators and floors membership values (2^-24).
const Epsilon = 1.0 / (1 << 24)

// Weigher scores how well position explains the ranges measured to anchors.
// Scores are non-negative and higher is better. Zero means the position is
// inconsistent with at least one range, or that there is nothing to score:
// no anchors, or anchors and ranges of different lengths.
//
// Weigh never mutates the weigher and may be called concurrently; a
// Reconfigure call must not overlap with Weigh calls.
type Weigher interface {
	Weigh(position common.Point, anchors []common.Point, ranges []float64) float64
}

func scorable(anchors []common.Point, ranges []float64) bool {
	return len(anchors) > 0 && len(anchors) == len(ranges)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
