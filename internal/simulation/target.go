package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"multilateration-sim/internal/common"

	"github.com/google/uuid" // For unique IDs
)

// Random walk tuning.
const (
	accelerationScale = 5.0  // How much velocity can change per second
	maxSpeed          = 10.0 // Maximum units per second
	bounceDamping     = 0.8  // Velocity kept after hitting a wall
)

// Target represents a mobile node whose position the pipeline estimates.
type Target struct {
	id       string
	position common.Point
	velocity common.Point // Current velocity for movement
	rnd      *rand.Rand
}

// NewTarget creates a new target at a given position. rnd drives the random
// walk; a nil rnd keeps the target still.
func NewTarget(pos common.Point, rnd *rand.Rand) *Target {
	return &Target{
		id:       fmt.Sprintf("target-%s", uuid.NewString()[:8]), // Shorter unique ID
		position: pos,
		rnd:      rnd,
	}
}

// GetID returns the unique identifier of the target.
func (t *Target) GetID() string {
	return t.id
}

// GetPosition returns the current position of the target.
func (t *Target) GetPosition() common.Point {
	return t.position
}

// SetPosition sets the position of the target.
func (t *Target) SetPosition(pos common.Point) {
	t.position = pos
}

// Update implements the random walk movement and boundary checks.
func (t *Target) Update(deltaTime float64, bounds []float64) {
	if t.rnd == nil || len(bounds) != 4 {
		return
	}

	// Adjust velocity slightly randomly
	t.velocity.X += (t.rnd.Float64()*2 - 1) * accelerationScale * deltaTime
	t.velocity.Y += (t.rnd.Float64()*2 - 1) * accelerationScale * deltaTime

	// Limit velocity
	if speedSq := t.velocity.NormSq(); speedSq > maxSpeed*maxSpeed {
		t.velocity = t.velocity.Scale(maxSpeed / math.Sqrt(speedSq))
	}

	newPos := t.position.Add(t.velocity.Scale(deltaTime))

	// --- Boundary Collision Check (Bounce) ---
	newPos.X, t.velocity.X = bounce(newPos.X, t.velocity.X, bounds[0], bounds[1])
	newPos.Y, t.velocity.Y = bounce(newPos.Y, t.velocity.Y, bounds[2], bounds[3])

	t.position = newPos
}

// bounce reflects a coordinate that left [minBound, maxBound] and reverses
// and dampens its velocity component.
func bounce(pos, vel, minBound, maxBound float64) (float64, float64) {
	switch {
	case pos < minBound:
		return math.Min(minBound+(minBound-pos), maxBound), vel * -bounceDamping
	case pos > maxBound:
		return math.Max(maxBound-(pos-maxBound), minBound), vel * -bounceDamping
	}
	return pos, vel
}

// String representation for logging
func (t *Target) String() string {
	return fmt.Sprintf("Target[%s] Pos: %s Vel: %s", t.id, t.position, t.velocity)
}
