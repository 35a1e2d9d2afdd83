// Package config provides the optional YAML configuration for the chart
// CLI: engine command and compatibility constraint, ephemeris path, orb
// overrides, chart log storage, and output limits.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for configuration validation
var (
	ErrBlankEngineCommand = errors.New("engine command cannot be blank")
	ErrInvalidMinVersion  = errors.New("engine min_version is not a valid constraint")
	ErrNegativeOrb        = errors.New("orb override cannot be negative")
	ErrNegativeMaxAspects = errors.New("output max_aspects cannot be negative")
)

const defaultEngineTimeout = 30 * time.Second

// DefaultMaxAspects caps the aspect list in text output.
const DefaultMaxAspects = 50

// Config represents the top-level configuration structure. Every
// section is optional; the zero value behaves like running without a
// configuration file.
type Config struct {
	Version   string             `yaml:"version"`
	Engine    EngineConfig       `yaml:"engine"`
	Ephemeris EphemerisConfig    `yaml:"ephemeris"`
	Orbs      map[string]float64 `yaml:"orbs"`
	Storage   StorageConfig      `yaml:"storage"`
	Output    OutputConfig       `yaml:"output"`
}

// EngineConfig selects and gates the external astrology engine.
type EngineConfig struct {
	Command    []string `yaml:"command"`     // argv, e.g. ["python", "-m", "nataly"]
	MinVersion string   `yaml:"min_version"` // semver constraint, e.g. ">= 1.0.0"
	Timeout    string   `yaml:"timeout"`
}

// GetTimeout parses and returns the engine invocation timeout.
func (e *EngineConfig) GetTimeout() time.Duration {
	if e.Timeout == "" {
		return defaultEngineTimeout
	}
	timeout, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return defaultEngineTimeout
	}
	return timeout
}

// EphemerisConfig points the engine at ephemeris data.
type EphemerisConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig configures the opt-in chart log. An empty database path
// disables it.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// OutputConfig bounds the rendered output.
type OutputConfig struct {
	MaxAspects int `yaml:"max_aspects"`
}

// GetMaxAspects returns the text-output aspect cap.
func (o *OutputConfig) GetMaxAspects() int {
	if o.MaxAspects == 0 {
		return DefaultMaxAspects
	}
	return o.MaxAspects
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// LoadConfig reads and validates a configuration file. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	for _, part := range c.Engine.Command {
		if part == "" {
			return ErrBlankEngineCommand
		}
	}

	if c.Engine.MinVersion != "" {
		if _, err := semver.NewConstraint(c.Engine.MinVersion); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidMinVersion, c.Engine.MinVersion, err)
		}
	}

	for aspect, orb := range c.Orbs {
		if orb < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNegativeOrb, aspect, orb)
		}
	}

	if c.Output.MaxAspects < 0 {
		return ErrNegativeMaxAspects
	}
	return nil
}
