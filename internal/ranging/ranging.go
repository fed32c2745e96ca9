// Package ranging conditions per-anchor distance readings before they reach
// the position solver.
package ranging

import (
	"fmt"
	"math"
	"time"

	"multilateration-sim/internal/common"
)

// Failed marks a reading for which the ranging hardware produced no distance.
const Failed = -1.0

// RangeVector holds one reading per anchor, in the session's anchor order.
type RangeVector []float64

// Valid reports whether d is a usable distance: finite and non-negative.
func Valid(d float64) bool {
	return d >= 0 && !math.IsInf(d, 1)
}

// Clone returns a copy of v.
func (v RangeVector) Clone() RangeVector {
	if v == nil {
		return nil
	}
	out := make(RangeVector, len(v))
	copy(out, v)
	return out
}

// ValidCount returns the number of usable readings in v.
func (v RangeVector) ValidCount() int {
	n := 0
	for _, d := range v {
		if Valid(d) {
			n++
		}
	}
	return n
}

// Filter turns the readings of one epoch into filtered readings.
//
// real carries ground-truth distances and is nil in production; only the
// simulation variants read it. A Failed entry in measured is Failed in the
// result for every variant. Filters with per-anchor state size themselves on
// the first call and return an error wrapping common.ErrUsage if a later call
// carries a different number of anchors.
//
// Filters are not safe for concurrent use.
type Filter interface {
	Filter(measured, real RangeVector, ts time.Time) (RangeVector, error)
	// Reset discards all per-anchor state.
	Reset()
}

// realAt returns the ground-truth reading for anchor i, or Failed when real
// is absent or carries no usable distance.
func realAt(real RangeVector, i int) float64 {
	if real == nil || !Valid(real[i]) {
		return Failed
	}
	return real[i]
}

func checkReal(measured, real RangeVector) error {
	if real != nil && len(real) != len(measured) {
		return fmt.Errorf("%w: real vector has %d entries, measured has %d", common.ErrUsage, len(real), len(measured))
	}
	return nil
}
