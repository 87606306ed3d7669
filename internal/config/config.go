// Package config loads run configuration for alignments from YAML.
//
// A configuration file looks like:
//
//	mode: global
//	match: 1
//	mismatch: -1
//	gap: -7
//	substitution: blosum62
//	workers: 4
//
// Missing keys keep their defaults.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration.
type Config struct {
	Mode         string `yaml:"mode"`
	Match        int    `yaml:"match"`
	Mismatch     int    `yaml:"mismatch"`
	Gap          int    `yaml:"gap"`
	Substitution string `yaml:"substitution"`
	Workers      int    `yaml:"workers"`
}

// Default returns the progressive alignment defaults: global mode,
// match 1, mismatch -1, gap -7, BLOSUM62 for gap-free columns.
func Default() *Config {
	return &Config{
		Mode:         "global",
		Match:        1,
		Mismatch:     -1,
		Gap:          -7,
		Substitution: "blosum62",
		Workers:      1,
	}
}

// Load reads a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if _, err := c.AlignMode(); err != nil {
		return err
	}
	if _, err := c.Scoring(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// AlignMode returns the configured alignment mode.
func (c *Config) AlignMode() (alignment.Mode, error) {
	return alignment.ParseMode(c.Mode)
}

// Scoring builds the scoring scheme.
func (c *Config) Scoring() (*alignment.Scoring, error) {
	s, err := alignment.NewScoring(c.Match, c.Mismatch, c.Gap)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(c.Substitution)) {
	case "", "none":
		return s, nil
	case "blosum62":
		return s.WithSubstitution(alignment.BLOSUM62), nil
	default:
		return nil, fmt.Errorf("unknown substitution model %q", c.Substitution)
	}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
