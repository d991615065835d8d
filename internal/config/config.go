// Package config defines the analysis configuration surface and its loading
// hooks. Defaults come from New; Load layers an optional YAML file and
// NBAMETRICS_-prefixed environment variables on top.
package config

import (
	"fmt"
	"runtime"

	"github.com/pable/go-nba-metrics/internal/cluster"
	"github.com/pable/go-nba-metrics/internal/momentum"
)

// Threshold mode names accepted by MomentumThresholdMode.
const (
	ThresholdFixed          = "FIXED"
	ThresholdVarianceScaled = "VARIANCE_SCALED"
)

// Config holds every knob the analytics engine consumes.
type Config struct {
	// ClusterCount is K for the performance clusterer; must be >= 2.
	ClusterCount int `koanf:"cluster_count"`

	// ClusterRestarts is the number of independent k-means initializations.
	ClusterRestarts int `koanf:"cluster_restarts"`

	// ClusterMaxIterations bounds relocation iterations per restart.
	ClusterMaxIterations int `koanf:"cluster_max_iterations"`

	// RandomSeed makes clustering runs reproducible.
	RandomSeed int64 `koanf:"random_seed"`

	// MomentumWindowPossessions is the trailing trend window width; >= 1.
	MomentumWindowPossessions int `koanf:"momentum_window_possessions"`

	// MomentumThresholdMode is FIXED or VARIANCE_SCALED.
	MomentumThresholdMode string `koanf:"momentum_threshold_mode"`

	// MomentumThreshold is the reversal threshold in points (FIXED mode).
	MomentumThreshold float64 `koanf:"momentum_threshold"`

	// MomentumVarianceMultiplier scales the stream stddev (VARIANCE_SCALED mode).
	MomentumVarianceMultiplier float64 `koanf:"momentum_variance_multiplier"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Workers sizes the multi-game analysis pool.
	Workers int `koanf:"workers"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		ClusterCount:               3,
		ClusterRestarts:            10,
		ClusterMaxIterations:       300,
		RandomSeed:                 42,
		MomentumWindowPossessions:  momentum.DefaultWindowPossessions,
		MomentumThresholdMode:      ThresholdVarianceScaled,
		MomentumThreshold:          6.0,
		MomentumVarianceMultiplier: 1.0,
		LogLevel:                   "info",
		Workers:                    runtime.NumCPU(),
	}
}

// Validate checks cross-field constraints. Returned errors wrap
// ErrInvalidConfig for errors.Is.
func (c *Config) Validate() error {
	if c.ClusterCount < 2 {
		return fmt.Errorf("%w: cluster_count must be >= 2, got %d", ErrInvalidConfig, c.ClusterCount)
	}
	if c.ClusterRestarts < 1 {
		return fmt.Errorf("%w: cluster_restarts must be >= 1, got %d", ErrInvalidConfig, c.ClusterRestarts)
	}
	if c.MomentumWindowPossessions < 1 {
		return fmt.Errorf("%w: momentum_window_possessions must be >= 1, got %d", ErrInvalidConfig, c.MomentumWindowPossessions)
	}
	switch c.MomentumThresholdMode {
	case ThresholdFixed, ThresholdVarianceScaled:
	default:
		return fmt.Errorf("%w: unknown momentum_threshold_mode %q", ErrInvalidConfig, c.MomentumThresholdMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// ClusterConfig translates into the clusterer's own config type.
func (c *Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		K:             c.ClusterCount,
		Restarts:      c.ClusterRestarts,
		MaxIterations: c.ClusterMaxIterations,
		Seed:          c.RandomSeed,
	}
}

// MomentumConfig translates into the detector's own config type.
func (c *Config) MomentumConfig() momentum.Config {
	mode := momentum.ModeVarianceScaled
	if c.MomentumThresholdMode == ThresholdFixed {
		mode = momentum.ModeFixed
	}
	return momentum.Config{
		WindowPossessions:  c.MomentumWindowPossessions,
		Mode:               mode,
		FixedThreshold:     c.MomentumThreshold,
		VarianceMultiplier: c.MomentumVarianceMultiplier,
	}
}
