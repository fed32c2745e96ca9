package ranging

import (
	"multilateration-sim/internal/distribution"
	"multilateration-sim/internal/registry"
)

// Registry keys of the ranging filter variants.
const (
	KindOffset   = "offset"
	KindMedian   = "median"
	KindSavGol   = "savgol"
	KindErrorSim = "error-sim"
	KindHardware = "hardware"
)

// DefaultMaxHardwareError bounds the hardware-profile offset when the
// configuration leaves it out.
const DefaultMaxHardwareError = 0.5

// NewRegistry returns a registry holding every filter variant. newSampler is
// called once per constructed filter that draws random numbers, so that
// filters never share a generator.
func NewRegistry(newSampler func() *distribution.Sampler) *registry.Registry[Filter] {
	r := registry.New[Filter]("ranging filter")

	r.MustRegister(KindOffset, func(p registry.Params) (Filter, error) {
		offset, err := p.Float("offset", 0)
		if err != nil {
			return nil, err
		}
		return NewOffsetFilter(offset)
	})

	r.MustRegister(KindMedian, func(p registry.Params) (Filter, error) {
		rd := p.Read()
		window := rd.Int("window", DefaultMedianWindow)
		flush := rd.Int("flush_limit", DefaultMedianFlushLimit)
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewMedianFilter(window, flush)
	})

	r.MustRegister(KindSavGol, func(p registry.Params) (Filter, error) {
		rd := p.Read()
		window := rd.Int("window", DefaultSavGolWindow)
		degree := rd.Int("degree", DefaultSavGolDegree)
		flush := rd.Int("flush_limit", DefaultSavGolFlushLimit)
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewSavGolFilter(window, degree, flush)
	})

	r.MustRegister(KindErrorSim, func(p registry.Params) (Filter, error) {
		def := DefaultErrorSimConfig()
		rd := p.Read()
		cfg := ErrorSimConfig{
			LOSMean:         rd.Float("los_mean", def.LOSMean),
			LOSStdDev:       rd.Float("los_stddev", def.LOSStdDev),
			NLOSMean:        rd.Float("nlos_mean", def.NLOSMean),
			NLOSProbability: rd.Float("nlos_probability", def.NLOSProbability),
			HardwareRange:   rd.Float("hardware_range", def.HardwareRange),
		}
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewErrorSimFilter(cfg, newSampler())
	})

	r.MustRegister(KindHardware, func(p registry.Params) (Filter, error) {
		rd := p.Read()
		maxErr := rd.Float("max_error", DefaultMaxHardwareError)
		allowNeg := rd.Bool("allow_negative", false)
		if err := rd.Err(); err != nil {
			return nil, err
		}
		model, err := NewProfileErrorModel(maxErr, allowNeg, nil, newSampler())
		if err != nil {
			return nil, err
		}
		return NewHardwareFilter(model)
	})

	return r
}
