// Package pipeline turns per-epoch range readings into a position estimate:
// ranging filter, solver, outlier rejection, then weighting of the
// surviving candidates.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/logging"
	"multilateration-sim/internal/multilateration"
	"multilateration-sim/internal/ranging"
	"multilateration-sim/internal/robust"
	"multilateration-sim/internal/weighting"
)

// MinAnchors is the number of valid ranges needed for a 2-D estimate.
const MinAnchors = 3

// Estimate is the outcome of one epoch.
type Estimate struct {
	SessionID  string
	Epoch      int
	Timestamp  time.Time
	Filtered   ranging.RangeVector
	Candidates []common.Point
	Survivors  []common.Point
	Weights    []float64 // one per survivor
	Position   common.Point
	// Valid is false when too few anchors had a usable range or no
	// candidate survived; Position is then the zero point.
	Valid bool
}

// Pipeline is one localization session. It owns its ranging filter state
// and must be driven sequentially, once per epoch.
type Pipeline struct {
	id         string
	anchors    []common.Point
	filter     ranging.Filter
	solver     multilateration.Solver
	weigher    weighting.Weigher
	solverOpts multilateration.Options
	robust     bool
	log        *zap.Logger
	epoch      int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = logging.OrNop(l) }
}

// WithRobust enables or disables outlier rejection (enabled by default).
func WithRobust(enabled bool) Option {
	return func(p *Pipeline) { p.robust = enabled }
}

// WithSolverOptions sets the options passed to the solver.
func WithSolverOptions(o multilateration.Options) Option {
	return func(p *Pipeline) { p.solverOpts = o }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(p *Pipeline) { p.id = id }
}

// New creates a pipeline for a fixed, ordered set of anchors.
func New(anchors []common.Point, filter ranging.Filter, solver multilateration.Solver, weigher weighting.Weigher, opts ...Option) (*Pipeline, error) {
	if len(anchors) < MinAnchors {
		return nil, fmt.Errorf("%w: need at least %d anchors, got %d", common.ErrConfiguration, MinAnchors, len(anchors))
	}
	for i, a := range anchors {
		if !a.IsFinite() {
			return nil, fmt.Errorf("%w: anchor %d has non-finite position %s", common.ErrConfiguration, i, a)
		}
	}
	if filter == nil || solver == nil || weigher == nil {
		return nil, fmt.Errorf("%w: pipeline needs a filter, a solver and a weigher", common.ErrConfiguration)
	}
	p := &Pipeline{
		id:         uuid.NewString(),
		anchors:    append([]common.Point(nil), anchors...),
		filter:     filter,
		solver:     solver,
		weigher:    weigher,
		solverOpts: multilateration.DefaultOptions(),
		robust:     true,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(zap.String("session", p.id))
	return p, nil
}

// ID returns the session identifier.
func (p *Pipeline) ID() string {
	return p.id
}

// Anchors returns a copy of the session's anchor positions.
func (p *Pipeline) Anchors() []common.Point {
	return append([]common.Point(nil), p.anchors...)
}

// Process runs one epoch. measured must have one entry per anchor; real is
// the ground truth for simulation filters and nil otherwise. Degenerate
// epochs yield an invalid Estimate rather than an error; errors are
// reserved for misuse and wrap common.ErrUsage or common.ErrConfiguration.
func (p *Pipeline) Process(measured, real ranging.RangeVector, ts time.Time) (Estimate, error) {
	if len(measured) != len(p.anchors) {
		return Estimate{SessionID: p.id, Epoch: p.epoch, Timestamp: ts},
			fmt.Errorf("%w: %d readings for %d anchors", common.ErrUsage, len(measured), len(p.anchors))
	}

	p.epoch++
	est := Estimate{SessionID: p.id, Epoch: p.epoch, Timestamp: ts}

	filtered, err := p.filter.Filter(measured, real, ts)
	if err != nil {
		return est, fmt.Errorf("ranging filter: %w", err)
	}
	est.Filtered = filtered

	anchors, ranges := compactValid(p.anchors, filtered)
	if len(anchors) < MinAnchors {
		p.log.Debug("too few valid ranges", zap.Int("epoch", p.epoch), zap.Int("valid", len(anchors)))
		return est, nil
	}

	candidates, err := p.solver.Solve(anchors, ranges, p.solverOpts)
	if err != nil {
		if errors.Is(err, common.ErrUsage) || errors.Is(err, common.ErrConfiguration) {
			return est, fmt.Errorf("solver: %w", err)
		}
		p.log.Debug("solver found no position", zap.Int("epoch", p.epoch), zap.Error(err))
		return est, nil
	}
	est.Candidates = finiteOnly(candidates)

	est.Survivors = est.Candidates
	if p.robust {
		res := robust.Apply(est.Candidates)
		est.Survivors = res.Survivors
		if len(res.Dropped) > 0 {
			p.log.Debug("rejected outlier candidates",
				zap.Int("epoch", p.epoch),
				zap.Ints("dropped", res.Dropped),
				zap.Float64("medv", res.Threshold))
		}
	}
	if len(est.Survivors) == 0 {
		return est, nil
	}

	est.Weights = make([]float64, len(est.Survivors))
	for i, c := range est.Survivors {
		est.Weights[i] = p.weigher.Weigh(c, anchors, ranges)
	}
	est.Position = weightedCentroid(est.Survivors, est.Weights)
	est.Valid = true
	return est, nil
}

// Reset discards the ranging filter state, as after a session restart.
func (p *Pipeline) Reset() {
	p.filter.Reset()
	p.epoch = 0
}

func compactValid(anchors []common.Point, ranges ranging.RangeVector) ([]common.Point, []float64) {
	outA := make([]common.Point, 0, len(anchors))
	outR := make([]float64, 0, len(anchors))
	for i, d := range ranges {
		if ranging.Valid(d) {
			outA = append(outA, anchors[i])
			outR = append(outR, d)
		}
	}
	return outA, outR
}

func finiteOnly(points []common.Point) []common.Point {
	out := points[:0:0]
	for _, c := range points {
		if c.IsFinite() {
			out = append(out, c)
		}
	}
	return out
}

// weightedCentroid averages points by weight. Weights are scaled by their
// maximum first so that huge sentinel scores cannot overflow the sum; if no
// weight is positive the plain centroid is returned.
func weightedCentroid(points []common.Point, weights []float64) common.Point {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	maxW := 0.0
	for _, w := range weights {
		if w > maxW && !math.IsInf(w, 1) {
			maxW = w
		}
	}
	if maxW == 0 {
		n := float64(len(points))
		return common.Point{X: floats.Sum(xs) / n, Y: floats.Sum(ys) / n}
	}

	norm := make([]float64, len(weights))
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 1) {
			norm[i] = w / maxW
		}
	}
	total := floats.Sum(norm)
	return common.Point{X: floats.Dot(norm, xs) / total, Y: floats.Dot(norm, ys) / total}
}
