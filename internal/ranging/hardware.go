package ranging

import (
	"fmt"
	"math"
	"time"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/distribution"
)

// ErrorModel yields the ranging offset a hardware profile adds to a true
// distance on a given channel.
type ErrorModel interface {
	Offset(trueDistance float64, channel int) float64
}

// ProfileErrorModel draws offsets from a zero-mean normal whose spread is a
// third of the maximum allowed error, clipped to that maximum. Without
// negative offsets the magnitude is used.
type ProfileErrorModel struct {
	maxError      float64
	allowNegative bool
	channelScale  []float64
	sampler       *distribution.Sampler
}

// NewProfileErrorModel creates a hardware error model. channelScale, if not
// empty, multiplies the offset on channel c by channelScale[c%len].
func NewProfileErrorModel(maxError float64, allowNegative bool, channelScale []float64, sampler *distribution.Sampler) (*ProfileErrorModel, error) {
	if !(maxError > 0) || math.IsInf(maxError, 0) {
		return nil, fmt.Errorf("%w: maximum error must be positive, got %v", common.ErrConfiguration, maxError)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: error model needs a sampler", common.ErrConfiguration)
	}
	for i, s := range channelScale {
		if !(s >= 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: channel %d scale must be non-negative, got %v", common.ErrConfiguration, i, s)
		}
	}
	return &ProfileErrorModel{
		maxError:      maxError,
		allowNegative: allowNegative,
		channelScale:  append([]float64(nil), channelScale...),
		sampler:       sampler,
	}, nil
}

// Offset returns a bounded random offset for the given channel.
func (m *ProfileErrorModel) Offset(_ float64, channel int) float64 {
	o := m.sampler.Normal(0, m.maxError/3)
	if n := len(m.channelScale); n > 0 {
		if channel < 0 {
			channel = -channel
		}
		o *= m.channelScale[channel%n]
	}
	o = math.Max(-m.maxError, math.Min(m.maxError, o))
	if !m.allowNegative {
		o = math.Abs(o)
	}
	return o
}

// HardwareFilter adds a hardware-profile offset to each valid true distance.
// The anchor index is used as the channel.
type HardwareFilter struct {
	model ErrorModel
}

// NewHardwareFilter wraps an error model.
func NewHardwareFilter(model ErrorModel) (*HardwareFilter, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: hardware filter needs an error model", common.ErrConfiguration)
	}
	return &HardwareFilter{model: model}, nil
}

// Filter reports max(real+offset, 0) per anchor, or Failed when the reading
// failed or ground truth is missing.
func (f *HardwareFilter) Filter(measured, real RangeVector, _ time.Time) (RangeVector, error) {
	if err := checkReal(measured, real); err != nil {
		return nil, err
	}
	out := make(RangeVector, len(measured))
	for i, d := range measured {
		truth := realAt(real, i)
		if !Valid(d) || truth == Failed {
			out[i] = Failed
			continue
		}
		out[i] = math.Max(truth+f.model.Offset(truth, i), 0)
	}
	return out, nil
}

// Reset is a no-op.
func (f *HardwareFilter) Reset() {}
