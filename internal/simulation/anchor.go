package simulation

import (
	"fmt"
	"multilateration-sim/internal/common"
	"multilateration-sim/internal/distribution"
	"multilateration-sim/internal/ranging"

	"github.com/google/uuid"
)

// Anchor represents a fixed ranging node in the simulation.
type Anchor struct {
	id                 string
	position           common.Point
	detectionRadius    float64 // Maximum distance the anchor can range; zero means unlimited
	dropoutProbability float64 // Chance that a reading within range still fails
	sampler            *distribution.Sampler
}

// NewAnchor creates a new anchor at a given position.
func NewAnchor(pos common.Point, radius, dropout float64, sampler *distribution.Sampler) *Anchor {
	return &Anchor{
		id:                 fmt.Sprintf("anchor-%s", uuid.NewString()[:8]),
		position:           pos,
		detectionRadius:    radius,
		dropoutProbability: dropout,
		sampler:            sampler,
	}
}

// GetID returns the unique identifier of the anchor.
func (a *Anchor) GetID() string {
	return a.id
}

// GetPosition returns the position of the anchor.
func (a *Anchor) GetPosition() common.Point {
	return a.position
}

// SetPosition moves the anchor.
func (a *Anchor) SetPosition(pos common.Point) {
	a.position = pos
}

// Update for Anchor is empty as anchors are static.
func (a *Anchor) Update(deltaTime float64, bounds []float64) {}

// MeasureDistance ranges to a target object. It returns the reading the
// hardware reports, ranging.Failed when the target is out of range or the
// reading drops out, and the true distance.
func (a *Anchor) MeasureDistance(target SimulationObject) (measured, trueDist float64) {
	trueDist = a.position.Distance(target.GetPosition())

	if a.detectionRadius > 0 && trueDist > a.detectionRadius {
		return ranging.Failed, trueDist // Target is out of range
	}
	if a.dropoutProbability > 0 && a.sampler != nil && a.sampler.Bernoulli(a.dropoutProbability) {
		return ranging.Failed, trueDist
	}
	return trueDist, trueDist
}

// DetectionRadius returns the ranging limit of the anchor.
func (a *Anchor) DetectionRadius() float64 {
	return a.detectionRadius
}

// String representation for logging
func (a *Anchor) String() string {
	return fmt.Sprintf("Anchor[%s] Pos: %s Radius: %.2f Dropout: %.2f", a.id, a.position, a.detectionRadius, a.dropoutProbability)
}
