package ranging

import (
	"fmt"
	"time"

	"multilateration-sim/internal/common"
)

// Savitzky-Golay filter defaults.
const (
	DefaultSavGolWindow     = 7
	DefaultSavGolDegree     = 2
	DefaultSavGolFlushLimit = 3
)

// SavGolFilter smooths each anchor's readings with a Savitzky-Golay filter:
// a least-squares polynomial fit over the window, evaluated at the newest
// reading.
type SavGolFilter struct {
	windowSize int
	degree     int
	flushLimit int
	anchors    bank
}

// NewSavGolFilter creates a Savitzky-Golay filter. The window must be larger
// than the polynomial degree and the flush limit at least degree+1.
func NewSavGolFilter(windowSize, degree, flushLimit int) (*SavGolFilter, error) {
	if err := validateWindow(windowSize, flushLimit); err != nil {
		return nil, fmt.Errorf("savitzky-golay filter: %w", err)
	}
	if degree < 0 {
		return nil, fmt.Errorf("%w: savitzky-golay degree must be non-negative, got %d", common.ErrConfiguration, degree)
	}
	if windowSize <= degree {
		return nil, fmt.Errorf("%w: savitzky-golay window %d must exceed degree %d", common.ErrConfiguration, windowSize, degree)
	}
	if flushLimit < degree+1 {
		return nil, fmt.Errorf("%w: savitzky-golay flush limit %d must be at least degree+1 (%d)", common.ErrConfiguration, flushLimit, degree+1)
	}
	f := &SavGolFilter{windowSize: windowSize, degree: degree, flushLimit: flushLimit}
	f.anchors.alloc = func() *window { return newWindow(windowSize, flushLimit) }
	return f, nil
}

// Filter pushes each valid reading and reports the smoothed value. While the
// window fills, the fit degree is capped at one less than the sample count.
func (f *SavGolFilter) Filter(measured, real RangeVector, _ time.Time) (RangeVector, error) {
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
		v := w.polyfit(f.degree)
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out, nil
}

// Reset drops every anchor window; the next call allocates afresh.
func (f *SavGolFilter) Reset() {
	f.anchors.reset()
}
