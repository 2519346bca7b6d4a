// Package config loads YAML run profiles for the verify command.
//
// A profile fixes everything a verification run needs - detector, range,
// parallelism, persistence - so repeated scans are reproducible without
// retyping flags:
//
//	detector: quartic
//	range:
//	  min: 2
//	  max: 1000
//	workers: 4
//	store: runs.db
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied to omitted profile fields.
const (
	DefaultDetector = "quartic"
	DefaultMin      = 2
	DefaultMax      = 1000
)

// Range delimits the inclusive scan range.
type Range struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// Config is one verification run profile.
type Config struct {
	// Detector names a built-in detector. Ignored when DetectorSpec is set.
	Detector string `yaml:"detector,omitempty"`

	// DetectorSpec points at a CUE detector spec to compile and verify
	// instead of a built-in. Relative paths resolve against the working
	// directory.
	DetectorSpec string `yaml:"detector_spec,omitempty"`

	// Range is the inclusive scan range.
	Range Range `yaml:"range"`

	// MinN optionally raises the validity floor above the detector's own.
	// The scan starts at max(Range.Min, MinN, detector floor).
	MinN int64 `yaml:"min_n,omitempty"`

	// Workers sets scan parallelism; 0 or 1 means sequential.
	Workers int `yaml:"workers,omitempty"`

	// Store is an optional SQLite path to persist the run to.
	Store string `yaml:"store,omitempty"`
}

// Load reads and validates a profile file. Unknown fields are rejected so
// typos fail loudly instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a profile from raw YAML, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Detector == "" && c.DetectorSpec == "" {
		c.Detector = DefaultDetector
	}
	if c.Range.Min == 0 && c.Range.Max == 0 {
		c.Range = Range{Min: DefaultMin, Max: DefaultMax}
	}
}

// Validate checks the profile for contradictions.
func (c *Config) Validate() error {
	if c.Range.Min < 0 {
		return fmt.Errorf("range.min must be non-negative, got %d", c.Range.Min)
	}
	if c.Range.Min > c.Range.Max {
		return fmt.Errorf("range.min %d exceeds range.max %d", c.Range.Min, c.Range.Max)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.MinN < 0 {
		return fmt.Errorf("min_n must be non-negative, got %d", c.MinN)
	}
	if c.Detector != "" && c.DetectorSpec != "" {
		return fmt.Errorf("detector and detector_spec are mutually exclusive")
	}
	return nil
}
