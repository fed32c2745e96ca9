package weighting

import (
	"fmt"
	"math"

	"multilateration-sim/internal/common"
)

// GammaParams configures GammaWeigher.
type GammaParams struct {
	Shape  float64
	Rate   float64
	Offset float64
}

// DefaultGammaParams returns the parameters fitted to the reference ranging
// hardware's error distribution.
func DefaultGammaParams() GammaParams {
	return GammaParams{Shape: 3.3, Rate: 0.576, Offset: 3.3106}
}

func (p GammaParams) validate() error {
	if !finitePositive(p.Shape) {
		return fmt.Errorf("%w: gamma weigher shape must be positive, got %v", common.ErrConfiguration, p.Shape)
	}
	if !finitePositive(p.Rate) {
		return fmt.Errorf("%w: gamma weigher rate must be positive, got %v", common.ErrConfiguration, p.Rate)
	}
	if !finite(p.Offset) {
		return fmt.Errorf("%w: gamma weigher offset must be finite, got %v", common.ErrConfiguration, p.Offset)
	}
	return nil
}

// GammaWeigher treats range + offset - distance as a gamma distributed
// residual and returns the product of its densities over all anchors.
type GammaWeigher struct {
	params GammaParams
	norm   float64 // rate^shape / Γ(shape)
}

// NewGammaWeigher creates a gamma weigher.
func NewGammaWeigher(p GammaParams) (*GammaWeigher, error) {
	w := &GammaWeigher{}
	if err := w.Reconfigure(p); err != nil {
		return nil, err
	}
	return w, nil
}

// Reconfigure replaces the parameters and recomputes the normalizing
// constant. Invalid parameters leave the weigher unchanged.
func (w *GammaWeigher) Reconfigure(p GammaParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	lg, _ := math.Lgamma(p.Shape)
	w.params = p
	w.norm = math.Exp(p.Shape*math.Log(p.Rate) - lg)
	return nil
}

// Params returns the current parameters.
func (w *GammaWeigher) Params() GammaParams {
	return w.params
}

// Weigh returns 0 as soon as one residual falls outside the gamma support.
func (w *GammaWeigher) Weigh(position common.Point, anchors []common.Point, ranges []float64) float64 {
	if !scorable(anchors, ranges) {
		return 0
	}
	weight := 1.0
	for i, a := range anchors {
		r := ranges[i] + w.params.Offset - position.Distance(a)
		if !(r > 0) {
			return 0
		}
		weight *= w.norm * math.Pow(r, w.params.Shape-1) * math.Exp(-w.params.Rate*r)
	}
	return weight
}
