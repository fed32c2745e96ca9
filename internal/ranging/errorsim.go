package ranging

import (
	"fmt"
	"math"
	"time"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/distribution"
)

// ErrorSimConfig parameterizes the line-of-sight and non-line-of-sight error
// injected by ErrorSimFilter.
type ErrorSimConfig struct {
	LOSMean         float64 // mean of the normal LOS error
	LOSStdDev       float64 // standard deviation of the normal LOS error
	NLOSMean        float64 // mean of the exponential NLOS error
	NLOSProbability float64 // chance of NLOS beyond HardwareRange
	HardwareRange   float64 // distance beyond which NLOS may occur
}

// DefaultErrorSimConfig returns the error model measured for the reference
// ranging hardware.
func DefaultErrorSimConfig() ErrorSimConfig {
	return ErrorSimConfig{
		LOSMean:         0.90,
		LOSStdDev:       0.56,
		NLOSMean:        1.0,
		NLOSProbability: 0.2,
		HardwareRange:   25,
	}
}

// ErrorSimFilter replaces each valid reading with the true distance plus a
// synthesized ranging error. It needs ground truth and reports Failed for
// anchors without it.
type ErrorSimFilter struct {
	cfg     ErrorSimConfig
	los     *distribution.Normal
	nlos    *distribution.Exponential
	sampler *distribution.Sampler
}

// NewErrorSimFilter creates an error-simulation filter drawing from sampler.
func NewErrorSimFilter(cfg ErrorSimConfig, sampler *distribution.Sampler) (*ErrorSimFilter, error) {
	if sampler == nil {
		return nil, fmt.Errorf("%w: error simulation needs a sampler", common.ErrConfiguration)
	}
	if !(cfg.NLOSProbability >= 0 && cfg.NLOSProbability <= 1) {
		return nil, fmt.Errorf("%w: NLOS probability must be in [0, 1], got %v", common.ErrConfiguration, cfg.NLOSProbability)
	}
	if !(cfg.HardwareRange > 0) || math.IsInf(cfg.HardwareRange, 0) {
		return nil, fmt.Errorf("%w: hardware range must be positive, got %v", common.ErrConfiguration, cfg.HardwareRange)
	}
	los, err := distribution.NewNormal(cfg.LOSMean, cfg.LOSStdDev, sampler)
	if err != nil {
		return nil, fmt.Errorf("LOS error model: %w", err)
	}
	nlos, err := distribution.NewExponential(cfg.NLOSMean, sampler)
	if err != nil {
		return nil, fmt.Errorf("NLOS error model: %w", err)
	}
	return &ErrorSimFilter{cfg: cfg, los: los, nlos: nlos, sampler: sampler}, nil
}

// Filter draws a LOS error for every anchor with a valid reading and ground
// truth, plus an NLOS error on a biased coin flip when the true distance
// exceeds the hardware range.
func (f *ErrorSimFilter) Filter(measured, real RangeVector, _ time.Time) (RangeVector, error) {
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
		v := truth + f.los.Rand()
		if truth > f.cfg.HardwareRange && f.sampler.Bernoulli(f.cfg.NLOSProbability) {
			v += f.nlos.Rand()
		}
		out[i] = math.Max(v, 0)
	}
	return out, nil
}

// Reset is a no-op; the generator stream is not rewound.
func (f *ErrorSimFilter) Reset() {}
