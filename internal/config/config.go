// Package config loads the YAML configuration of the localization pipeline
// and of the simulated scenario that drives it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"multilateration-sim/internal/common"
	"multilateration-sim/internal/registry"
)

// Config is the root configuration.
type Config struct {
	Seed       uint64           `yaml:"seed"`
	Logging    LoggingConfig    `yaml:"logging"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ComponentConfig names a registered component and its parameters.
type ComponentConfig struct {
	Kind   string          `yaml:"kind"`
	Params registry.Params `yaml:"params"`
}

// PipelineConfig describes one localization pipeline session.
type PipelineConfig struct {
	// Filters are chained in order.
	Filters       []ComponentConfig `yaml:"filters"`
	Weigher       ComponentConfig   `yaml:"weigher"`
	Robust        bool              `yaml:"robust"`
	SubsetSize    int               `yaml:"subset_size"`
	MaxCandidates int               `yaml:"max_candidates"`
}

// PointConfig is a fixed anchor position.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SimulationConfig describes the simulated scenario.
type SimulationConfig struct {
	Steps              int           `yaml:"steps"`
	TickMillis         int           `yaml:"tick_ms"`
	Bounds             []float64     `yaml:"bounds"` // [minX, maxX, minY, maxY]
	Anchors            []PointConfig `yaml:"anchors"`
	RandomAnchors      int           `yaml:"random_anchors"` // added at random positions
	Targets            int           `yaml:"targets"`
	DetectionRadius    float64       `yaml:"detection_radius"` // zero means unlimited
	DropoutProbability float64       `yaml:"dropout_probability"`
}

// DefaultConfig returns a complete, valid configuration: a 40x40 room with
// five anchors, LOS/NLOS error injection followed by median smoothing, and
// gamma weighting with outlier rejection.
func DefaultConfig() *Config {
	return &Config{
		Seed: 1,
		Logging: LoggingConfig{
			Level: "info",
		},
		Pipeline: PipelineConfig{
			Filters: []ComponentConfig{
				{Kind: "error-sim"},
				{Kind: "median", Params: registry.Params{"window": 4, "flush_limit": 3}},
			},
			Weigher:    ComponentConfig{Kind: "gamma"},
			Robust:     true,
			SubsetSize: 3,
		},
		Simulation: SimulationConfig{
			Steps:      50,
			TickMillis: 100,
			Bounds:     []float64{0, 40, 0, 40},
			Anchors: []PointConfig{
				{X: 0, Y: 0},
				{X: 40, Y: 0},
				{X: 0, Y: 40},
				{X: 40, Y: 40},
				{X: 20, Y: 0},
			},
			Targets:            2,
			DetectionRadius:    60,
			DropoutProbability: 0.05,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted fields keep their
// default values, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks structural constraints. Component kinds and parameters
// are checked when the registries build them.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Simulation.Validate()
}

// Validate checks the pipeline section.
func (p *PipelineConfig) Validate() error {
	if len(p.Filters) == 0 {
		return fmt.Errorf("%w: pipeline needs at least one ranging filter", common.ErrConfiguration)
	}
	for i, f := range p.Filters {
		if f.Kind == "" {
			return fmt.Errorf("%w: pipeline filter %d has no kind", common.ErrConfiguration, i)
		}
	}
	if p.Weigher.Kind == "" {
		return fmt.Errorf("%w: pipeline weigher has no kind", common.ErrConfiguration)
	}
	if p.SubsetSize != 0 && p.SubsetSize < 3 {
		return fmt.Errorf("%w: subset size must be at least 3, got %d", common.ErrConfiguration, p.SubsetSize)
	}
	if p.MaxCandidates < 0 {
		return fmt.Errorf("%w: max candidates must not be negative, got %d", common.ErrConfiguration, p.MaxCandidates)
	}
	return nil
}

// Validate checks the simulation section.
func (s *SimulationConfig) Validate() error {
	if s.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", common.ErrConfiguration, s.Steps)
	}
	if s.TickMillis <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %dms", common.ErrConfiguration, s.TickMillis)
	}
	if len(s.Bounds) != 4 || s.Bounds[0] >= s.Bounds[1] || s.Bounds[2] >= s.Bounds[3] {
		return fmt.Errorf("%w: bounds must be [minX, maxX, minY, maxY] with min < max, got %v", common.ErrConfiguration, s.Bounds)
	}
	if s.RandomAnchors < 0 || s.Targets < 0 {
		return fmt.Errorf("%w: anchor and target counts must not be negative", common.ErrConfiguration)
	}
	if len(s.Anchors)+s.RandomAnchors < 3 {
		return fmt.Errorf("%w: at least 3 anchors are needed, got %d", common.ErrConfiguration, len(s.Anchors)+s.RandomAnchors)
	}
	if s.DetectionRadius < 0 {
		return fmt.Errorf("%w: detection radius must not be negative, got %v", common.ErrConfiguration, s.DetectionRadius)
	}
	if !(s.DropoutProbability >= 0 && s.DropoutProbability <= 1) {
		return fmt.Errorf("%w: dropout probability must be in [0, 1], got %v", common.ErrConfiguration, s.DropoutProbability)
	}
	return nil
}
