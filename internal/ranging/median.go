package ranging

import (
	"fmt"
	"time"
)

// Median filter defaults.
const (
	DefaultMedianWindow     = 4
	DefaultMedianFlushLimit = 3
)

// MedianFilter reports, per anchor, the median of the most recent valid
// readings held in a bounded window.
type MedianFilter struct {
	windowSize int
	flushLimit int
	anchors    bank
}

// NewMedianFilter creates a median filter with the given window size and
// flush limit, both of which must be positive.
func NewMedianFilter(windowSize, flushLimit int) (*MedianFilter, error) {
	if err := validateWindow(windowSize, flushLimit); err != nil {
		return nil, fmt.Errorf("median filter: %w", err)
	}
	f := &MedianFilter{windowSize: windowSize, flushLimit: flushLimit}
	f.anchors.alloc = func() *window { return newWindow(windowSize, flushLimit) }
	return f, nil
}

// Filter pushes each valid reading and reports the window median. Failed
// readings count toward the flush limit and are reported as Failed.
func (f *MedianFilter) Filter(measured, real RangeVector, _ time.Time) (RangeVector, error) {
	if err := checkReal(measured, real); err != nil {
		return nil, err
	}
	if err := f.anchors.bind(len(measured)); err != nil {
		return nil, err
	}
	out := make(RangeVector, len(measured))
	for i, d := range measured {
		w := f.anchors.windows[i]
		if !Valid(d) {
			w.fail()
			out[i] = Failed
			continue
		}
		w.push(d)
		out[i] = w.median()
	}
	return out, nil
}

// Reset drops every anchor window; the next call allocates afresh.
func (f *MedianFilter) Reset() {
	f.anchors.reset()
}
