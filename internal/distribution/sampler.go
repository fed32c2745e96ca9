// Package distribution draws pseudorandom samples from the continuous
// distributions used to synthesize ranging noise.
package distribution

import (
	"math"
	"math/rand/v2"
)

// Sampler owns a pseudorandom generator and turns its uniform and Gaussian
// primitives into draws from Normal, Exponential and Gamma distributions.
//
// A Sampler is not safe for concurrent use. Give every consumer its own
// instance instead of sharing one behind a lock.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler creates a sampler backed by a PCG generator seeded with seed.
// Equal seeds produce equal sample sequences.
func NewSampler(seed uint64) *Sampler {
	return NewSamplerFromSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSamplerFromSource creates a sampler reading from an arbitrary source.
func NewSamplerFromSource(src rand.Source) *Sampler {
	return &Sampler{rnd: rand.New(src)}
}

// Rand exposes the underlying generator for callers that need raw draws
// (coin flips, random positions) from the same reproducible stream.
func (s *Sampler) Rand() *rand.Rand {
	return s.rnd
}

// Uniform returns a draw from the open interval (0, 1).
func (s *Sampler) Uniform() float64 {
	u := s.rnd.Float64()
	for u == 0 {
		u = s.rnd.Float64()
	}
	return u
}

// Bernoulli returns true with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	return s.rnd.Float64() < p
}

// Normal returns sdev*z + mean for a standard normal z.
func (s *Sampler) Normal(mean, sdev float64) float64 {
	return sdev*s.rnd.NormFloat64() + mean
}

// expQ holds Q[i] = sum_{j=1..i+1} ln(2)^j / j!, stopping at the first entry
// that reaches 1. Sixteen terms are enough in double precision.
var expQ = func() []float64 {
	q := make([]float64, 0, 16)
	sum := 0.0
	term := 1.0
	for j := 1; sum < 1 && j <= 16; j++ {
		term *= math.Ln2 / float64(j)
		sum += term
		q = append(q, sum)
	}
	return q
}()

// Exponential draws from an exponential distribution with the given mean
// using Ahrens and Dieter's algorithm SA, which needs no logarithm.
func (s *Sampler) Exponential(mean float64) float64 {
	a := 0.0
	u := s.Uniform()

	for u < 0.5 {
		a += expQ[0]
		u *= 2
	}

	u += u - 1

	if u <= expQ[0] {
		return mean * (a + u)
	}

	// u < 1 <= expQ[len-1], so i stays in range.
	i := 0
	umin := s.Uniform()
	for {
		i++
		u2 := s.Uniform()
		if u2 < umin {
			umin = u2
		}
		if u <= expQ[i] {
			break
		}
	}
	return mean * (a + umin*expQ[0])
}

// Gamma draws from a gamma distribution with the given shape and scale.
// Shapes below one use Ahrens and Dieter's algorithm GS, larger shapes use
// the Marsaglia and Tsang squeeze method. Both retry until acceptance.
func (s *Sampler) Gamma(shape, scale float64) float64 {
	if shape < 1 {
		return scale * s.gammaSmallShape(shape)
	}
	return scale * s.gammaLargeShape(shape)
}

func (s *Sampler) gammaSmallShape(shape float64) float64 {
	b := 1 + shape/math.E
	for {
		p := b * s.Uniform()
		if p <= 1 {
			x := math.Pow(p, 1/shape)
			if s.Uniform() > math.Exp(-x) {
				continue
			}
			return x
		}
		x := -math.Log((b - p) / shape)
		if s.Uniform() > math.Pow(x, shape-1) {
			continue
		}
		return x
	}
}

func (s *Sampler) gammaLargeShape(shape float64) float64 {
	d := shape - 1.0/3.0
	c := 1 / (3 * math.Sqrt(d))
	for {
		x := s.rnd.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		x2 := x * x
		u := s.Uniform()

		// squeeze
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
