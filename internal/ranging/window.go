package ranging

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"multilateration-sim/internal/common"
)

// window is the per-anchor history of a smoothing filter: the most recent
// valid readings, bounded by size, and the count of consecutive failures.
type window struct {
	samples    []float64
	size       int
	flushLimit int
	failures   int
}

func newWindow(size, flushLimit int) *window {
	return &window{
		samples:    make([]float64, 0, size),
		size:       size,
		flushLimit: flushLimit,
	}
}

// push stores a valid reading, evicting the oldest when full.
func (w *window) push(d float64) {
	if len(w.samples) == w.size {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.size-1]
	}
	w.samples = append(w.samples, d)
	w.failures = 0
}

// fail records a failed reading. Once failures exceed the flush limit the
// history is dropped so a long outage cannot pin the output to stale data.
func (w *window) fail() {
	w.failures++
	if w.failures > w.flushLimit {
		w.samples = w.samples[:0]
	}
}

func (w *window) empty() bool {
	return len(w.samples) == 0
}

// median returns the median of the held samples.
func (w *window) median() float64 {
	n := len(w.samples)
	if n == 0 {
		return Failed
	}
	sorted := make([]float64, n)
	copy(sorted, w.samples)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// polyfit fits a polynomial of at most the given degree to the held samples
// by least squares and evaluates it at the newest sample. The abscissa is
// the sample index shifted so that the newest sample sits at zero, making
// the constant coefficient the answer.
func (w *window) polyfit(degree int) float64 {
	n := len(w.samples)
	if n == 0 {
		return Failed
	}
	if degree > n-1 {
		degree = n - 1
	}
	newest := w.samples[n-1]
	if degree == 0 && n == 1 {
		return newest
	}

	cols := degree + 1
	aData := make([]float64, n*cols)
	for i := 0; i < n; i++ {
		x := float64(i - (n - 1))
		p := 1.0
		for j := 0; j < cols; j++ {
			aData[i*cols+j] = p
			p *= x
		}
	}
	A := mat.NewDense(n, cols, aData)
	b := mat.NewVecDense(n, append([]float64(nil), w.samples...))

	var qr mat.QR
	qr.Factorize(A)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		return newest
	}
	return coef.AtVec(0)
}

// bank is the lazily sized set of per-anchor windows owned by one filter.
// A nil windows slice is the unallocated state.
type bank struct {
	windows []*window
	alloc   func() *window
}

// bind allocates one window per anchor on first use and rejects any later
// change in the anchor count.
func (b *bank) bind(anchors int) error {
	if b.windows == nil {
		b.windows = make([]*window, anchors)
		for i := range b.windows {
			b.windows[i] = b.alloc()
		}
		return nil
	}
	if len(b.windows) != anchors {
		return fmt.Errorf("%w: filter sized for %d anchors, got %d", common.ErrUsage, len(b.windows), anchors)
	}
	return nil
}

func (b *bank) allocated() bool {
	return b.windows != nil
}

func (b *bank) reset() {
	b.windows = nil
}

func validateWindow(size, flushLimit int) error {
	if size < 1 {
		return fmt.Errorf("%w: window size must be positive, got %d", common.ErrConfiguration, size)
	}
	if flushLimit < 1 {
		return fmt.Errorf("%w: flush limit must be positive, got %d", common.ErrConfiguration, flushLimit)
	}
	return nil
}
