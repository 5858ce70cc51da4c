package ssa

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds tuning values for the simulation engines.
type Config struct {
	// TauLeapEpsilon bounds the relative change of any propensity during a
	// single leap. Default: 0.03.
	TauLeapEpsilon float64 `json:"tau_leap_epsilon"`

	// TauLeapSSAThreshold switches tau-leaping to exact steps when the
	// selected tau is smaller than TauLeapSSAThreshold/a0. Default: 10.
	TauLeapSSAThreshold float64 `json:"tau_leap_ssa_threshold"`

	// TauLeapSSASteps is the number of exact steps taken after such a switch.
	// Default: 100.
	TauLeapSSASteps int `json:"tau_leap_ssa_steps"`

	// MaxSteps aborts a trajectory after this many events. 0 means no limit.
	MaxSteps uint64 `json:"max_steps"`

	// ModelCacheSize is the number of parsed models kept in memory.
	// Default: 8.
	ModelCacheSize int `json:"model_cache_size"`
}

// DefaultConfig returns a Config with the default tuning values.
func DefaultConfig() *Config {
	return &Config{
		TauLeapEpsilon:      0.03,
		TauLeapSSAThreshold: 10,
		TauLeapSSASteps:     100,
		MaxSteps:            0,
		ModelCacheSize:      8,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulator config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulator config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize simulator config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write simulator config file: %w", err)
	}

	return nil
}

// Validate checks that all values are within range.
func (c *Config) Validate() error {
	if c.TauLeapEpsilon <= 0 || c.TauLeapEpsilon >= 1 {
		return fmt.Errorf("tau_leap_epsilon must be in (0, 1)")
	}
	if c.TauLeapSSAThreshold < 0 {
		return fmt.Errorf("tau_leap_ssa_threshold must be >= 0")
	}
	if c.TauLeapSSASteps < 1 {
		return fmt.Errorf("tau_leap_ssa_steps must be > 0")
	}
	if c.ModelCacheSize < 1 {
		return fmt.Errorf("model_cache_size must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
