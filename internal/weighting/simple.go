package weighting

import (
	"math"

	"multilateration-sim/internal/common"
)

// minRatioRange keeps the distance/range ratio finite for tiny ranges.
const minRatioRange = 0.001

// RatioWeigher scores positions by the ratio of geometric distance to
// measured range: close to one everywhere and with little spread is best.
type RatioWeigher struct{}

// NewRatioWeigher creates a ratio weigher.
func NewRatioWeigher() *RatioWeigher {
	return &RatioWeigher{}
}

// Weigh returns (1/mean(ratio)) / max(stddev(ratio), Epsilon), with the mean
// also floored at Epsilon.
func (RatioWeigher) Weigh(position common.Point, anchors []common.Point, ranges []float64) float64 {
	if !scorable(anchors, ranges) {
		return 0
	}
	ratios := make([]float64, len(anchors))
	for i, a := range anchors {
		ratios[i] = position.Distance(a) / math.Max(ranges[i], minRatioRange)
	}
	mean, sd := meanStdDev(ratios)
	return (1 / math.Max(mean, Epsilon)) / math.Max(sd, Epsilon)
}

// SquaredDeviationWeigher returns the reciprocal of the summed squared
// relative deviations (distance/range - 1)^2.
//
// Anchors whose range is not positive carry no relative information and are
// skipped: they neither raise nor lower the score. When no anchor
// contributes the score is 0. When the contributing anchors match exactly
// (or so closely that the reciprocal overflows) the score is
// math.MaxFloat64, so consumers never see an infinity.
type SquaredDeviationWeigher struct{}

// NewSquaredDeviationWeigher creates a squared-deviation weigher.
func NewSquaredDeviationWeigher() *SquaredDeviationWeigher {
	return &SquaredDeviationWeigher{}
}

// Weigh implements Weigher.
func (SquaredDeviationWeigher) Weigh(position common.Point, anchors []common.Point, ranges []float64) float64 {
	if !scorable(anchors, ranges) {
		return 0
	}
	sum := 0.0
	used := 0
	for i, a := range anchors {
		if !(ranges[i] > 0) {
			continue
		}
		dev := position.Distance(a)/ranges[i] - 1
		sum += dev * dev
		used++
	}
	if used == 0 {
		return 0
	}
	weight := 1 / sum
	if math.IsInf(weight, 1) {
		return math.MaxFloat64
	}
	return weight
}
