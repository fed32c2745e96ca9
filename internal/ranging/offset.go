package ranging

import (
	"fmt"
	"math"
	"time"

	"multilateration-sim/internal/common"
)

// minCorrectedRange is the floor applied after subtracting the offset.
const minCorrectedRange = 0.01

// OffsetFilter subtracts a constant hardware bias from every valid reading.
type OffsetFilter struct {
	offset float64
}

// NewOffsetFilter creates a stateless offset-correction filter.
func NewOffsetFilter(offset float64) (*OffsetFilter, error) {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, fmt.Errorf("%w: offset must be finite, got %v", common.ErrConfiguration, offset)
	}
	return &OffsetFilter{offset: offset}, nil
}

// Filter returns max(measured-offset, 0.01) per valid reading.
func (f *OffsetFilter) Filter(measured, real RangeVector, _ time.Time) (RangeVector, error) {
	if err := checkReal(measured, real); err != nil {
		return nil, err
	}
	out := make(RangeVector, len(measured))
	for i, d := range measured {
		if !Valid(d) {
			out[i] = Failed
			continue
		}
		out[i] = math.Max(d-f.offset, minCorrectedRange)
	}
	return out, nil
}

// Reset is a no-op; the filter keeps no state.
func (f *OffsetFilter) Reset() {}
