package weighting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"multilateration-sim/internal/common"
)

// Trapezoid is a fuzzy membership function over the residual
// range - distance: zero outside (LowerFoot, UpperFoot), one on
// [LowerShoulder, UpperShoulder], linear in between.
type Trapezoid struct {
	LowerFoot     float64
	LowerShoulder float64
	UpperShoulder float64
	UpperFoot     float64
}

// DefaultTrapezoid accepts residuals a little below zero and up to the
// positive bias non-line-of-sight propagation adds.
func DefaultTrapezoid() Trapezoid {
	return Trapezoid{LowerFoot: -1, LowerShoulder: 0, UpperShoulder: 2.5, UpperFoot: 6}
}

func (t Trapezoid) validate() error {
	for _, v := range []float64{t.LowerFoot, t.LowerShoulder, t.UpperShoulder, t.UpperFoot} {
		if !finite(v) {
			return fmt.Errorf("%w: membership corners must be finite", common.ErrConfiguration)
		}
	}
	if !(t.LowerFoot <= t.LowerShoulder && t.LowerShoulder <= t.UpperShoulder && t.UpperShoulder <= t.UpperFoot && t.LowerFoot < t.UpperFoot) {
		return fmt.Errorf("%w: membership corners must be ordered, got %+v", common.ErrConfiguration, t)
	}
	return nil
}

// Membership evaluates the trapezoid at r.
func (t Trapezoid) Membership(r float64) float64 {
	switch {
	case r <= t.LowerFoot || r >= t.UpperFoot:
		return 0
	case r < t.LowerShoulder:
		return (r - t.LowerFoot) / (t.LowerShoulder - t.LowerFoot)
	case r <= t.UpperShoulder:
		return 1
	default:
		return (t.UpperFoot - r) / (t.UpperFoot - t.UpperShoulder)
	}
}

// MembershipWeigher rewards positions whose residuals consistently fall
// inside the membership region: mean membership over its spread.
type MembershipWeigher struct {
	shape Trapezoid
}

// NewMembershipWeigher creates a membership weigher.
func NewMembershipWeigher(shape Trapezoid) (*MembershipWeigher, error) {
	w := &MembershipWeigher{}
	if err := w.Reconfigure(shape); err != nil {
		return nil, err
	}
	return w, nil
}

// Reconfigure replaces the membership function.
func (w *MembershipWeigher) Reconfigure(shape Trapezoid) error {
	if err := shape.validate(); err != nil {
		return err
	}
	w.shape = shape
	return nil
}

// Weigh returns mean(m) / max(stddev(m), Epsilon) where every membership m
// is clamped to [Epsilon, 1].
func (w *MembershipWeigher) Weigh(position common.Point, anchors []common.Point, ranges []float64) float64 {
	if !scorable(anchors, ranges) {
		return 0
	}
	m := make([]float64, len(anchors))
	for i, a := range anchors {
		v := w.shape.Membership(ranges[i] - position.Distance(a))
		m[i] = math.Max(Epsilon, math.Min(1, v))
	}
	mean, sd := meanStdDev(m)
	return mean / math.Max(sd, Epsilon)
}

// meanStdDev uses gonum's two-pass estimator; a single value has no spread.
func meanStdDev(xs []float64) (mean, sd float64) {
	if len(xs) < 2 {
		return stat.Mean(xs, nil), 0
	}
	mean, sd = stat.MeanStdDev(xs, nil)
	if math.IsNaN(sd) {
		sd = 0
	}
	return mean, sd
}
