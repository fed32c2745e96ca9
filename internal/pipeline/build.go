package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/config"
	"multilateration-sim/internal/distribution"
	"multilateration-sim/internal/multilateration"
	"multilateration-sim/internal/ranging"
	"multilateration-sim/internal/registry"
	"multilateration-sim/internal/weighting"
)

// Components are the registries and collaborators pipelines are built from.
// They are assembled once at startup and passed to whoever builds sessions.
type Components struct {
	Filters  *registry.Registry[ranging.Filter]
	Weighers *registry.Registry[weighting.Weigher]
	Solver   multilateration.Solver
}

// NewComponents registers every filter and weigher variant. Each filter
// that needs randomness gets a fresh sampler seeded from seed.
func NewComponents(seed uint64) *Components {
	next := seed
	return &Components{
		Filters: ranging.NewRegistry(func() *distribution.Sampler {
			next++
			return distribution.NewSampler(next)
		}),
		Weighers: weighting.NewRegistry(),
		Solver:   multilateration.NewSubsetSolver(),
	}
}

// Build creates a pipeline session for anchors from its configuration.
func (c *Components) Build(cfg config.PipelineConfig, anchors []common.Point, log *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filters := make([]ranging.Filter, 0, len(cfg.Filters))
	for _, fc := range cfg.Filters {
		f, err := c.Filters.Build(fc.Kind, fc.Params)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	var filter ranging.Filter = filters[0]
	if len(filters) > 1 {
		chain, err := ranging.NewChain(filters...)
		if err != nil {
			return nil, err
		}
		filter = chain
	}

	weigher, err := c.Weighers.Build(cfg.Weigher.Kind, cfg.Weigher.Params)
	if err != nil {
		return nil, err
	}

	opts := multilateration.DefaultOptions()
	if cfg.SubsetSize != 0 {
		opts.SubsetSize = cfg.SubsetSize
	}
	opts.MaxCandidates = cfg.MaxCandidates

	p, err := New(anchors, filter, c.Solver, weigher,
		WithLogger(log),
		WithRobust(cfg.Robust),
		WithSolverOptions(opts),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return p, nil
}
