package ranging

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/distribution"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func approx() cmp.Option {
	return cmpopts.EquateApprox(0, 1e-9)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(0))
	assert.True(t, Valid(3.5))
	assert.False(t, Valid(Failed))
	assert.False(t, Valid(-0.5))
}

func TestOffsetFilter(t *testing.T) {
	f, err := NewOffsetFilter(0.5)
	require.NoError(t, err)

	got, err := f.Filter(RangeVector{3, Failed, 0.2, 10}, nil, epoch)
	require.NoError(t, err)
	if diff := cmp.Diff(RangeVector{2.5, Failed, 0.01, 9.5}, got, approx()); diff != "" {
		t.Errorf("offset filter mismatch (-want +got):\n%s", diff)
	}

	_, err = NewOffsetFilter(math.Inf(1))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestOffsetFilterZeroIsIdentity(t *testing.T) {
	f, err := NewOffsetFilter(0)
	require.NoError(t, err)
	in := RangeVector{4.242640687, 7.615773106, 7.615773106}
	got, err := f.Filter(in, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestMedianFilter(t *testing.T) {
	f, err := NewMedianFilter(5, 2)
	require.NoError(t, err)

	var last RangeVector
	for _, d := range []float64{1, 2, 3, 4} {
		last, err = f.Filter(RangeVector{d, 10}, nil, epoch)
		require.NoError(t, err)
	}
	assert.Equal(t, RangeVector{2.5, 10}, last)

	got, err := f.Filter(RangeVector{Failed, 10}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{Failed, 10}, got)
	assert.Equal(t, 1, f.anchors.windows[0].failures)
	assert.Equal(t, []float64{1, 2, 3, 4}, f.anchors.windows[0].samples)

	got, err = f.Filter(RangeVector{5, 10}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{3, 10}, got)
}

func TestMedianFilterWideWindowUsesAllHeldSamples(t *testing.T) {
	f, err := NewMedianFilter(7, 3)
	require.NoError(t, err)

	var last RangeVector
	for _, d := range []float64{1, 2, 3, 4, 5} {
		last, err = f.Filter(RangeVector{d}, nil, epoch)
		require.NoError(t, err)
	}
	assert.Equal(t, RangeVector{3}, last, "median of 1..5, not of the newest four")
}

func TestMedianFilterFlushAfterOutage(t *testing.T) {
	f, err := NewMedianFilter(4, 2)
	require.NoError(t, err)
	for _, d := range []float64{5, 5, 5} {
		_, err = f.Filter(RangeVector{d}, nil, epoch)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err = f.Filter(RangeVector{Failed}, nil, epoch)
		require.NoError(t, err)
	}
	got, err := f.Filter(RangeVector{9}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{9}, got, "stale samples must be gone after the outage")
}

func TestMedianFilterAnchorCountMismatch(t *testing.T) {
	f, err := NewMedianFilter(4, 2)
	require.NoError(t, err)
	_, err = f.Filter(RangeVector{1, 2, 3}, nil, epoch)
	require.NoError(t, err)

	_, err = f.Filter(RangeVector{1, 2}, nil, epoch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUsage))

	f.Reset()
	_, err = f.Filter(RangeVector{1, 2}, nil, epoch)
	require.NoError(t, err)
}

func TestMedianFilterRejectsBadConfig(t *testing.T) {
	_, err := NewMedianFilter(0, 1)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = NewMedianFilter(4, 0)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestSavGolFilterTracksLinearMotion(t *testing.T) {
	f, err := NewSavGolFilter(5, 2, 3)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		d := 1.0 + 0.5*float64(i)
		got, err := f.Filter(RangeVector{d, Failed}, nil, epoch)
		require.NoError(t, err)
		assert.InDelta(t, d, got[0], 1e-9, "step %d", i)
		assert.Equal(t, Failed, got[1])
	}
}

func TestSavGolFilterSmoothsNoise(t *testing.T) {
	f, err := NewSavGolFilter(9, 1, 3)
	require.NoError(t, err)
	s := distribution.NewSampler(3)
	var raw, smoothed []float64
	for i := 0; i < 200; i++ {
		d := 10 + s.Normal(0, 1)
		got, err := f.Filter(RangeVector{d}, nil, epoch)
		require.NoError(t, err)
		if i >= 9 {
			raw = append(raw, d)
			smoothed = append(smoothed, got[0])
		}
	}
	assert.Less(t, stat.StdDev(smoothed, nil), stat.StdDev(raw, nil))
}

func TestSavGolFilterRejectsBadConfig(t *testing.T) {
	_, err := NewSavGolFilter(3, 3, 1)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = NewSavGolFilter(3, -1, 1)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = NewSavGolFilter(5, 2, 0)
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = NewSavGolFilter(5, 2, 2)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewSavGolFilter(5, 2, 3)
	assert.NoError(t, err)
}

func TestSavGolFilterAnchorCountMismatch(t *testing.T) {
	f, err := NewSavGolFilter(5, 2, 3)
	require.NoError(t, err)
	_, err = f.Filter(RangeVector{1}, nil, epoch)
	require.NoError(t, err)
	_, err = f.Filter(RangeVector{1, 2}, nil, epoch)
	assert.ErrorIs(t, err, common.ErrUsage)
}

func TestErrorSimFilterNeedsRealDistances(t *testing.T) {
	f, err := NewErrorSimFilter(DefaultErrorSimConfig(), distribution.NewSampler(1))
	require.NoError(t, err)

	got, err := f.Filter(RangeVector{1, 2}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{Failed, Failed}, got)

	got, err = f.Filter(RangeVector{1, Failed, 3}, RangeVector{1, 2, Failed}, epoch)
	require.NoError(t, err)
	assert.True(t, Valid(got[0]))
	assert.Equal(t, Failed, got[1])
	assert.Equal(t, Failed, got[2])

	_, err = f.Filter(RangeVector{1, 2}, RangeVector{1}, epoch)
	assert.ErrorIs(t, err, common.ErrUsage)
}

func TestErrorSimFilterErrorStatistics(t *testing.T) {
	cfg := DefaultErrorSimConfig()
	cfg.NLOSProbability = 1
	f, err := NewErrorSimFilter(cfg, distribution.NewSampler(5))
	require.NoError(t, err)

	var near, far []float64
	for i := 0; i < 50000; i++ {
		got, err := f.Filter(RangeVector{0, 0}, RangeVector{10, 30}, epoch)
		require.NoError(t, err)
		near = append(near, got[0]-10)
		far = append(far, got[1]-30)
	}
	assert.InDelta(t, 0.90, stat.Mean(near, nil), 0.02)
	assert.InDelta(t, 1.90, stat.Mean(far, nil), 0.03)
}

func TestErrorSimFilterRejectsBadConfig(t *testing.T) {
	s := distribution.NewSampler(1)
	cfg := DefaultErrorSimConfig()
	cfg.LOSStdDev = 0
	_, err := NewErrorSimFilter(cfg, s)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	cfg = DefaultErrorSimConfig()
	cfg.NLOSProbability = 1.5
	_, err = NewErrorSimFilter(cfg, s)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewErrorSimFilter(DefaultErrorSimConfig(), nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

type fixedModel float64

func (m fixedModel) Offset(float64, int) float64 { return float64(m) }

func TestHardwareFilter(t *testing.T) {
	f, err := NewHardwareFilter(fixedModel(-0.3))
	require.NoError(t, err)

	got, err := f.Filter(RangeVector{1, Failed, 1, 1}, RangeVector{5, 5, Failed, 0.1}, epoch)
	require.NoError(t, err)
	if diff := cmp.Diff(RangeVector{4.7, Failed, Failed, 0}, got, approx()); diff != "" {
		t.Errorf("hardware filter mismatch (-want +got):\n%s", diff)
	}

	got, err = f.Filter(RangeVector{1}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{Failed}, got)

	_, err = NewHardwareFilter(nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestProfileErrorModel(t *testing.T) {
	m, err := NewProfileErrorModel(0.4, false, nil, distribution.NewSampler(9))
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		o := m.Offset(10, i)
		require.GreaterOrEqual(t, o, 0.0)
		require.LessOrEqual(t, o, 0.4)
	}

	neg, err := NewProfileErrorModel(0.4, true, []float64{1, 0}, distribution.NewSampler(9))
	require.NoError(t, err)
	sawNegative := false
	for i := 0; i < 1000; i++ {
		o := neg.Offset(10, 0)
		require.GreaterOrEqual(t, o, -0.4)
		require.LessOrEqual(t, o, 0.4)
		if o < 0 {
			sawNegative = true
		}
		assert.Equal(t, 0.0, neg.Offset(10, 1), "channel 1 is scaled to zero")
	}
	assert.True(t, sawNegative)

	_, err = NewProfileErrorModel(0, true, nil, distribution.NewSampler(1))
	assert.ErrorIs(t, err, common.ErrConfiguration)
	_, err = NewProfileErrorModel(1, true, []float64{-1}, distribution.NewSampler(1))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestChain(t *testing.T) {
	offset, err := NewOffsetFilter(1)
	require.NoError(t, err)
	median, err := NewMedianFilter(3, 1)
	require.NoError(t, err)
	c, err := NewChain(offset, median)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.Filter(RangeVector{3, 5}, nil, epoch)
	require.NoError(t, err)
	got, err := c.Filter(RangeVector{5, Failed}, nil, epoch)
	require.NoError(t, err)
	assert.Equal(t, RangeVector{3, Failed}, got)

	_, err = c.Filter(RangeVector{1}, nil, epoch)
	assert.ErrorIs(t, err, common.ErrUsage)

	c.Reset()
	_, err = c.Filter(RangeVector{1}, nil, epoch)
	require.NoError(t, err)

	_, err = NewChain()
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestRegistry(t *testing.T) {
	seed := uint64(0)
	r := NewRegistry(func() *distribution.Sampler {
		seed++
		return distribution.NewSampler(seed)
	})
	assert.Equal(t, []string{KindErrorSim, KindHardware, KindMedian, KindOffset, KindSavGol}, r.Keys())

	for _, k := range r.Keys() {
		f, err := r.Build(k, nil)
		require.NoError(t, err, k)
		require.NotNil(t, f, k)
	}

	f, err := r.Build(KindMedian, map[string]any{"window": 3, "flush_limit": 1})
	require.NoError(t, err)
	m := f.(*MedianFilter)
	assert.Equal(t, 3, m.windowSize)
	assert.Equal(t, 1, m.flushLimit)

	_, err = r.Build(KindSavGol, map[string]any{"window": 2, "degree": 2})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = r.Build("kalman", nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
