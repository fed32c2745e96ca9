package weighting

import (
	"multilateration-sim/internal/registry"
)

// Registry keys of the weigher variants.
const (
	KindGamma            = "gamma"
	KindGaussian         = "gaussian"
	KindMembership       = "membership"
	KindRatio            = "ratio"
	KindSquaredDeviation = "squared-deviation"
)

// NewRegistry returns a registry holding every weigher variant.
func NewRegistry() *registry.Registry[Weigher] {
	r := registry.New[Weigher]("weigher")

	r.MustRegister(KindGamma, func(p registry.Params) (Weigher, error) {
		def := DefaultGammaParams()
		rd := p.Read()
		gp := GammaParams{
			Shape:  rd.Float("shape", def.Shape),
			Rate:   rd.Float("rate", def.Rate),
			Offset: rd.Float("offset", def.Offset),
		}
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewGammaWeigher(gp)
	})

	r.MustRegister(KindGaussian, func(p registry.Params) (Weigher, error) {
		rd := p.Read()
		mean := rd.Float("mean", DefaultGaussianMean)
		sdev := rd.Float("stddev", DefaultGaussianStdDev)
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewGaussianWeigher(mean, sdev)
	})

	r.MustRegister(KindMembership, func(p registry.Params) (Weigher, error) {
		def := DefaultTrapezoid()
		rd := p.Read()
		t := Trapezoid{
			LowerFoot:     rd.Float("lower_foot", def.LowerFoot),
			LowerShoulder: rd.Float("lower_shoulder", def.LowerShoulder),
			UpperShoulder: rd.Float("upper_shoulder", def.UpperShoulder),
			UpperFoot:     rd.Float("upper_foot", def.UpperFoot),
		}
		if err := rd.Err(); err != nil {
			return nil, err
		}
		return NewMembershipWeigher(t)
	})

	r.MustRegister(KindRatio, func(registry.Params) (Weigher, error) {
		return NewRatioWeigher(), nil
	})

	r.MustRegister(KindSquaredDeviation, func(registry.Params) (Weigher, error) {
		return NewSquaredDeviationWeigher(), nil
	})

	return r
}
