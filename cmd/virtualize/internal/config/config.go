// Package config loads the virtualize YAML configuration file.
//
// Example:
//
//	hrir: /usr/share/hrir/atmos.wav
//	backend: algo-fft
//	block_size: 1024
//	bits: 24
//	quality: very-high
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	surround "github.com/tphakala/go-virtual-surround"
)

// Defaults
const (
	DefaultBits    = 16
	DefaultBackend = "gonum"
	DefaultQuality = "high"
)

// Config holds render settings. Empty fields fall back to flag defaults.
type Config struct {
	// HRIR is the path of the impulse response file.
	HRIR string `yaml:"hrir,omitempty"`

	// Backend names the transform engine ("gonum" or "algo-fft").
	Backend string `yaml:"backend,omitempty"`

	// BlockSize is the convolution block size in frames.
	BlockSize int `yaml:"block_size,omitempty"`

	// Bits is the output PCM bit depth.
	Bits int `yaml:"bits,omitempty"`

	// Quality names the HRIR resampling quality.
	Quality string `yaml:"quality,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend:   DefaultBackend,
		BlockSize: surround.DefaultBlockSize,
		Bits:      DefaultBits,
		Quality:   DefaultQuality,
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the names and numbers in c.
func (c *Config) Validate() error {
	var errs []error
	if _, err := surround.ParseBackend(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := surround.ParseResampleQuality(c.Quality); err != nil {
		errs = append(errs, err)
	}
	switch c.Bits {
	case 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("bits must be 16, 24 or 32, got %d", c.Bits))
	}
	if c.BlockSize < 0 {
		errs = append(errs, fmt.Errorf("block_size must not be negative, got %d", c.BlockSize))
	}
	return errors.Join(errs...)
}

// FilterConfig converts c into library settings.
func (c *Config) FilterConfig() (*surround.Config, error) {
	backend, err := surround.ParseBackend(c.Backend)
	if err != nil {
		return nil, err
	}
	quality, err := surround.ParseResampleQuality(c.Quality)
	if err != nil {
		return nil, err
	}
	return &surround.Config{
		BlockSize:       c.BlockSize,
		Backend:         backend,
		ResampleQuality: quality,
	}, nil
}
