// Package config loads decoder settings from YAML.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/classreader/classfile"
	"github.com/wippyai/classreader/errors"
)

// Config is the on-disk decoder configuration.
type Config struct {
	Limits Limits `yaml:"limits"`
	Debug  bool   `yaml:"debug"`
}

// Limits mirrors classfile.Limits with YAML names.
type Limits struct {
	MaxPoolCount    int    `yaml:"max_pool_count"`
	MaxStringLength int    `yaml:"max_string_length"`
	MaxMethods      int    `yaml:"max_methods"`
	MaxAlloc        int64  `yaml:"max_alloc"`
	MinMajorVersion uint16 `yaml:"min_major_version"`
	MaxMajorVersion uint16 `yaml:"max_major_version"`
}

// Default returns the built-in limits with debug off.
func Default() *Config {
	l := classfile.DefaultLimits()
	return &Config{
		Limits: Limits{
			MaxPoolCount:    l.MaxPoolCount,
			MaxStringLength: l.MaxStringLength,
			MaxMethods:      l.MaxMethods,
			MaxAlloc:        l.MaxAlloc,
			MinMajorVersion: l.MinMajorVersion,
			MaxMajorVersion: l.MaxMajorVersion,
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindIO).
			Detail("read %s", path).
			Cause(err).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("parse yaml").
			Cause(err).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects ceilings that would make every decode fail.
func (c *Config) Validate() error {
	l := c.Limits
	switch {
	case l.MaxPoolCount <= 0:
		return invalid("max_pool_count must be positive")
	case l.MaxStringLength <= 0:
		return invalid("max_string_length must be positive")
	case l.MaxMethods < 0:
		return invalid("max_methods must not be negative")
	case l.MaxAlloc <= 0:
		return invalid("max_alloc must be positive")
	case l.MinMajorVersion > l.MaxMajorVersion:
		return invalid(fmt.Sprintf("min_major_version %d above max_major_version %d",
			l.MinMajorVersion, l.MaxMajorVersion))
	}
	return nil
}

func invalid(detail string) error {
	return errors.InvalidInput(errors.PhaseConfig, detail)
}

// DecodeLimits converts the configured limits for the decoder.
func (c *Config) DecodeLimits() classfile.Limits {
	return classfile.Limits{
		MaxPoolCount:    c.Limits.MaxPoolCount,
		MaxStringLength: c.Limits.MaxStringLength,
		MaxMethods:      c.Limits.MaxMethods,
		MaxAlloc:        c.Limits.MaxAlloc,
		MinMajorVersion: c.Limits.MinMajorVersion,
		MaxMajorVersion: c.Limits.MaxMajorVersion,
	}
}

// Options returns decode options carrying the limits and, when set, logger.
func (c *Config) Options(logger *zap.Logger) []classfile.Option {
	opts := []classfile.Option{classfile.WithLimits(c.DecodeLimits())}
	if logger != nil {
		opts = append(opts, classfile.WithLogger(logger))
	}
	return opts
}
