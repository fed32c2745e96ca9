package common

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Point represents a position in the 2-D plane.
type Point struct {
	X float64
	Y float64
}

// NewRandomPoint creates a point with random coordinates within given bounds.
// bounds should have 4 elements: [minX, maxX, minY, maxY]
func NewRandomPoint(bounds []float64, rnd *rand.Rand) (Point, error) {
	if len(bounds) != 4 {
		return Point{}, fmt.Errorf("%w: bounds length must be 4, got %d", ErrConfiguration, len(bounds))
	}
	if rnd == nil {
		return Point{}, fmt.Errorf("%w: random generator is nil", ErrConfiguration)
	}
	return Point{
		X: bounds[0] + rnd.Float64()*(bounds[1]-bounds[0]),
		Y: bounds[2] + rnd.Float64()*(bounds[3]-bounds[2]),
	}, nil
}

// Distance calculates the Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Equal reports whether both coordinates are identical.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add returns the component-wise sum.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the component-wise difference p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale multiplies both coordinates by a scalar value.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// NormSq calculates the squared Euclidean norm of the point seen as a vector.
func (p Point) NormSq() float64 {
	return p.X*p.X + p.Y*p.Y
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", p.X, p.Y)
}
