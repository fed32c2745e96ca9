package ranging

import (
	"fmt"
	"time"

	"multilateration-sim/internal/common"
)

// Chain applies filters in order. Each filter sees the previous output as
// its measured vector; real is passed through unchanged.
type Chain struct {
	filters []Filter
}

// NewChain composes one or more filters.
func NewChain(filters ...Filter) (*Chain, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("%w: chain needs at least one filter", common.ErrConfiguration)
	}
	for i, f := range filters {
		if f == nil {
			return nil, fmt.Errorf("%w: chain filter %d is nil", common.ErrConfiguration, i)
		}
	}
	return &Chain{filters: append([]Filter(nil), filters...)}, nil
}

// Filter runs every stage and returns the last stage's output.
func (c *Chain) Filter(measured, real RangeVector, ts time.Time) (RangeVector, error) {
	out := measured
	for i, f := range c.filters {
		next, err := f.Filter(out, real, ts)
		if err != nil {
			return nil, fmt.Errorf("chain stage %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}

// Reset resets every stage.
func (c *Chain) Reset() {
	for _, f := range c.filters {
		f.Reset()
	}
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.filters)
}
