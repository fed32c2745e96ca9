package simulation

import (
	"fmt"
	"multilateration-sim/internal/common"
	"multilateration-sim/internal/config"
	"multilateration-sim/internal/distribution"
	"multilateration-sim/internal/logging"
	"multilateration-sim/internal/multilateration"
	"multilateration-sim/internal/pipeline"
	"multilateration-sim/internal/ranging"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Simulation drives localization sessions for moving targets against a
// fixed, ordered set of anchors.
type Simulation struct {
	cfg            config.SimulationConfig
	pipelineCfg    config.PipelineConfig
	components     *pipeline.Components
	sampler        *distribution.Sampler
	log            *zap.Logger
	anchors        []*Anchor // Ordering fixes the range vector layout
	targets        []*Target
	sessions       map[string]*pipeline.Pipeline // Target ID -> localization session
	stats          map[string]*targetStats
	start          time.Time
	simulationTime time.Duration // Total elapsed simulation time
	tickDuration   time.Duration // Simulated time per step
}

// targetStats accumulates the per-target outcome of a run.
type targetStats struct {
	epochs  int
	errors  []float64 // Localization error of every valid estimate
	invalid int
	last    pipeline.Estimate
}

// TargetReport summarizes the localization of one target.
type TargetReport struct {
	ID           string
	SessionID    string
	Epochs       int
	Valid        int
	Invalid      int
	MeanError    float64
	StdDevError  float64
	MaxError     float64
	LastEstimate pipeline.Estimate
	TruePosition common.Point
}

// Report summarizes a run.
type Report struct {
	Steps   int
	Elapsed time.Duration
	Targets []TargetReport
}

// NewSimulation creates a simulation from its configuration. Anchors listed
// in cfg are added in order, followed by cfg.RandomAnchors random ones and
// cfg.Targets random targets.
func NewSimulation(cfg config.SimulationConfig, pipelineCfg config.PipelineConfig, seed uint64, components *pipeline.Components, log *zap.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := pipelineCfg.Validate(); err != nil {
		return nil, err
	}
	if components == nil {
		components = pipeline.NewComponents(seed)
	}

	s := &Simulation{
		cfg:          cfg,
		pipelineCfg:  pipelineCfg,
		components:   components,
		sampler:      distribution.NewSampler(seed),
		log:          logging.OrNop(log),
		sessions:     make(map[string]*pipeline.Pipeline),
		stats:        make(map[string]*targetStats),
		start:        time.Unix(0, 0).UTC(),
		tickDuration: time.Duration(cfg.TickMillis) * time.Millisecond,
	}

	for _, a := range cfg.Anchors {
		if err := s.AddAnchor(common.Point{X: a.X, Y: a.Y}); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.RandomAnchors; i++ {
		if err := s.AddRandomAnchor(); err != nil {
			return nil, fmt.Errorf("failed to add random anchor %d: %w", i, err)
		}
	}
	for i := 0; i < cfg.Targets; i++ {
		if err := s.AddRandomTarget(); err != nil {
			return nil, fmt.Errorf("failed to add random target %d: %w", i, err)
		}
	}
	return s, nil
}

// AddAnchor adds an anchor. Anchors cannot be added once sessions exist,
// since every session's range vector layout is fixed.
func (s *Simulation) AddAnchor(pos common.Point) error {
	if len(s.sessions) > 0 {
		return fmt.Errorf("%w: cannot add anchors after localization has started", common.ErrUsage)
	}
	if !pos.IsFinite() {
		return fmt.Errorf("%w: anchor position %s is not finite", common.ErrConfiguration, pos)
	}
	s.anchors = append(s.anchors, NewAnchor(pos, s.cfg.DetectionRadius, s.cfg.DropoutProbability, s.sampler))
	return nil
}

// AddRandomAnchor adds an anchor at a random position within bounds.
func (s *Simulation) AddRandomAnchor() error {
	pos, err := common.NewRandomPoint(s.cfg.Bounds, s.sampler.Rand())
	if err != nil {
		return fmt.Errorf("failed to generate random position for anchor: %w", err)
	}
	return s.AddAnchor(pos)
}

// AddTarget adds a target at pos.
func (s *Simulation) AddTarget(pos common.Point) *Target {
	t := NewTarget(pos, s.sampler.Rand())
	s.targets = append(s.targets, t)
	s.stats[t.GetID()] = &targetStats{}
	return t
}

// AddRandomTarget adds a target at a random position within bounds.
func (s *Simulation) AddRandomTarget() error {
	pos, err := common.NewRandomPoint(s.cfg.Bounds, s.sampler.Rand())
	if err != nil {
		return fmt.Errorf("failed to generate random position for target: %w", err)
	}
	s.AddTarget(pos)
	return nil
}

// GetAnchors returns the anchors in range-vector order.
func (s *Simulation) GetAnchors() []*Anchor {
	return append([]*Anchor(nil), s.anchors...)
}

// GetTargets returns the targets in insertion order.
func (s *Simulation) GetTargets() []*Target {
	return append([]*Target(nil), s.targets...)
}

// GetLastEstimate returns the last estimate produced for a target.
func (s *Simulation) GetLastEstimate(targetID string) (pipeline.Estimate, bool) {
	st, ok := s.stats[targetID]
	if !ok || st.epochs == 0 {
		return pipeline.Estimate{}, false
	}
	return st.last, true
}

func (s *Simulation) anchorPositions() []common.Point {
	out := make([]common.Point, len(s.anchors))
	for i, a := range s.anchors {
		out[i] = a.GetPosition()
	}
	return out
}

// session returns the target's pipeline, building it on first use.
func (s *Simulation) session(t *Target) (*pipeline.Pipeline, error) {
	if p, ok := s.sessions[t.GetID()]; ok {
		return p, nil
	}
	p, err := s.components.Build(s.pipelineCfg, s.anchorPositions(), s.log.With(zap.String("target", t.GetID())))
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline for %s: %w", t.GetID(), err)
	}
	s.sessions[t.GetID()] = p
	return p, nil
}

// Step advances the simulation by one tick: targets move, every anchor
// ranges every target, and each target's session produces an estimate.
func (s *Simulation) Step() error {
	s.simulationTime += s.tickDuration
	ts := s.start.Add(s.simulationTime)
	deltaTime := s.tickDuration.Seconds()

	for _, t := range s.targets {
		t.Update(deltaTime, s.cfg.Bounds)
	}

	for _, t := range s.targets {
		p, err := s.session(t)
		if err != nil {
			return err
		}

		measured := make(ranging.RangeVector, len(s.anchors))
		truth := make(ranging.RangeVector, len(s.anchors))
		for i, a := range s.anchors {
			measured[i], truth[i] = a.MeasureDistance(t)
		}

		est, err := p.Process(measured, truth, ts)
		if err != nil {
			return fmt.Errorf("localizing %s: %w", t.GetID(), err)
		}

		st := s.stats[t.GetID()]
		st.epochs++
		st.last = est
		if !est.Valid {
			st.invalid++
			s.log.Debug("no estimate",
				zap.String("target", t.GetID()),
				zap.Int("valid_ranges", measured.ValidCount()))
			continue
		}

		locErr, err := multilateration.CalculateLocalizationError(t.GetPosition(), est.Position)
		if err != nil {
			st.invalid++
			continue
		}
		st.errors = append(st.errors, locErr)
		s.log.Debug("estimate",
			zap.String("target", t.GetID()),
			zap.Stringer("true", t.GetPosition()),
			zap.Stringer("estimate", est.Position),
			zap.Float64("error", locErr),
			zap.Int("candidates", len(est.Candidates)),
			zap.Int("survivors", len(est.Survivors)))
	}
	return nil
}

// Run executes numSteps steps and summarizes the outcome.
func (s *Simulation) Run(numSteps int) (Report, error) {
	s.log.Info("starting simulation",
		zap.Int("anchors", len(s.anchors)),
		zap.Int("targets", len(s.targets)),
		zap.Int("steps", numSteps),
		zap.Duration("tick", s.tickDuration))

	for i := 0; i < numSteps; i++ {
		if err := s.Step(); err != nil {
			return Report{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	report := s.Report()
	report.Steps = numSteps
	for _, tr := range report.Targets {
		s.log.Info("target summary",
			zap.String("target", tr.ID),
			zap.Int("valid", tr.Valid),
			zap.Int("invalid", tr.Invalid),
			zap.Float64("mean_error", tr.MeanError),
			zap.Float64("max_error", tr.MaxError))
	}
	return report, nil
}

// Report summarizes the steps run so far.
func (s *Simulation) Report() Report {
	r := Report{Elapsed: s.simulationTime}
	for _, t := range s.targets {
		st := s.stats[t.GetID()]
		tr := TargetReport{
			ID:           t.GetID(),
			Epochs:       st.epochs,
			Valid:        len(st.errors),
			Invalid:      st.invalid,
			LastEstimate: st.last,
			TruePosition: t.GetPosition(),
		}
		if p, ok := s.sessions[t.GetID()]; ok {
			tr.SessionID = p.ID()
		}
		switch len(st.errors) {
		case 0:
		case 1:
			tr.MeanError = st.errors[0]
			tr.MaxError = st.errors[0]
		default:
			tr.MeanError, tr.StdDevError = stat.MeanStdDev(st.errors, nil)
			for _, e := range st.errors {
				if e > tr.MaxError {
					tr.MaxError = e
				}
			}
		}
		r.Targets = append(r.Targets, tr)
	}
	return r
}
