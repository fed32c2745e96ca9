package weighting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"multilateration-sim/internal/common"
)

// Gaussian weigher defaults, matching the line-of-sight ranging error.
const (
	DefaultGaussianMean   = 0.90
	DefaultGaussianStdDev = 0.56
)

// GaussianWeigher returns the product over anchors of a normal density at
// range - distance.
type GaussianWeigher struct {
	dist distuv.Normal
}

// NewGaussianWeigher creates a Gaussian weigher.
func NewGaussianWeigher(mean, sdev float64) (*GaussianWeigher, error) {
	if !finite(mean) {
		return nil, fmt.Errorf("%w: gaussian weigher mean must be finite, got %v", common.ErrConfiguration, mean)
	}
	if !finitePositive(sdev) {
		return nil, fmt.Errorf("%w: gaussian weigher standard deviation must be positive, got %v", common.ErrConfiguration, sdev)
	}
	return &GaussianWeigher{dist: distuv.Normal{Mu: mean, Sigma: sdev}}, nil
}

// Weigh accumulates log densities so that many anchors do not underflow,
// and floors the result at the smallest positive float: a Gaussian tail is
// never exactly zero.
func (w *GaussianWeigher) Weigh(position common.Point, anchors []common.Point, ranges []float64) float64 {
	if !scorable(anchors, ranges) {
		return 0
	}
	logWeight := 0.0
	for i, a := range anchors {
		logWeight += w.dist.LogProb(ranges[i] - position.Distance(a))
	}
	weight := math.Exp(logWeight)
	if !(weight > 0) {
		return math.SmallestNonzeroFloat64
	}
	return weight
}
