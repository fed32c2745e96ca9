package distribution

import (
	"fmt"
	"math"

	"multilateration-sim/internal/common"
)

// Distribution is a validated continuous distribution bound to a sampler.
// Its Rand method satisfies gonum's distuv.Rander.
type Distribution interface {
	Rand() float64
	Mean() float64
}

// Normal is a normal distribution with fixed mean and standard deviation.
type Normal struct {
	mean    float64
	sdev    float64
	sampler *Sampler
}

// NewNormal validates the parameters and binds them to sampler.
func NewNormal(mean, sdev float64, sampler *Sampler) (*Normal, error) {
	if !isFinite(mean) {
		return nil, fmt.Errorf("%w: normal mean must be finite, got %v", common.ErrConfiguration, mean)
	}
	if !(sdev > 0) || math.IsInf(sdev, 0) {
		return nil, fmt.Errorf("%w: normal standard deviation must be positive, got %v", common.ErrConfiguration, sdev)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: normal sampler is nil", common.ErrConfiguration)
	}
	return &Normal{mean: mean, sdev: sdev, sampler: sampler}, nil
}

// Rand returns one draw.
func (n *Normal) Rand() float64 { return n.sampler.Normal(n.mean, n.sdev) }

// Mean returns the distribution mean.
func (n *Normal) Mean() float64 { return n.mean }

// StdDev returns the distribution standard deviation.
func (n *Normal) StdDev() float64 { return n.sdev }

// Exponential is an exponential distribution parameterized by its mean.
type Exponential struct {
	mean    float64
	sampler *Sampler
}

// NewExponential validates mean > 0 and binds it to sampler.
func NewExponential(mean float64, sampler *Sampler) (*Exponential, error) {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("%w: exponential mean must be positive, got %v", common.ErrConfiguration, mean)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: exponential sampler is nil", common.ErrConfiguration)
	}
	return &Exponential{mean: mean, sampler: sampler}, nil
}

// Rand returns one draw, always >= 0.
func (e *Exponential) Rand() float64 { return e.sampler.Exponential(e.mean) }

// Mean returns the distribution mean.
func (e *Exponential) Mean() float64 { return e.mean }

// Gamma is a gamma distribution with shape k and scale theta.
type Gamma struct {
	shape   float64
	scale   float64
	sampler *Sampler
}

// NewGamma validates shape > 0 and scale > 0 and binds them to sampler.
func NewGamma(shape, scale float64, sampler *Sampler) (*Gamma, error) {
	if !(shape > 0) || math.IsInf(shape, 0) {
		return nil, fmt.Errorf("%w: gamma shape must be positive, got %v", common.ErrConfiguration, shape)
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: gamma scale must be positive, got %v", common.ErrConfiguration, scale)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: gamma sampler is nil", common.ErrConfiguration)
	}
	return &Gamma{shape: shape, scale: scale, sampler: sampler}, nil
}

// Rand returns one draw.
func (g *Gamma) Rand() float64 { return g.sampler.Gamma(g.shape, g.scale) }

// Mean returns shape*scale.
func (g *Gamma) Mean() float64 { return g.shape * g.scale }

// Shape returns the shape parameter.
func (g *Gamma) Shape() float64 { return g.shape }

// Scale returns the scale parameter.
func (g *Gamma) Scale() float64 { return g.scale }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
