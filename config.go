package surround

import (
	"fmt"
	"log/slog"
)

// Config holds filter construction parameters. The zero value is valid and
// builds a filter at the HRIR's own sample rate with the default block
// size and backend.
type Config struct {
	// SampleRate is the rate the filter runs at in Hz. When non-zero and
	// different from the HRIR rate, the HRIR is resampled first.
	SampleRate int

	// BlockSize is the number of output frames per convolution frame.
	// Must be a power of two. Zero selects DefaultBlockSize.
	BlockSize int

	// Backend selects the built-in transform engine.
	Backend Backend

	// Engine, when set, overrides Backend with a custom engine factory.
	Engine EngineFactory

	// Resampler, when set, replaces the default resampler of this build.
	Resampler ResampleFunc

	// ResampleQuality is passed to the default resampler.
	ResampleQuality ResampleQuality

	// Logger receives construction diagnostics at debug level.
	// Nil discards them. Nothing is logged while processing audio.
	Logger *slog.Logger
}

// Backend enumerates the built-in transform engines.
type Backend int

const (
	// BackendGonum uses gonum's real FFT in float64 precision.
	BackendGonum Backend = iota

	// BackendAlgoFFT uses algo-fft's float32 real FFT plans.
	BackendAlgoFFT
)

func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendAlgoFFT:
		return "algo-fft"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name as printed by Backend.String.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "", "gonum":
		return BackendGonum, nil
	case "algo-fft", "algofft":
		return BackendAlgoFFT, nil
	default:
		return BackendGonum, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, name)
	}
}

// ResampleQuality selects the quality preset of the default resampler.
type ResampleQuality int

const (
	// ResampleHigh is the default.
	ResampleHigh ResampleQuality = iota
	ResampleLow
	ResampleMedium
	ResampleVeryHigh
)

func (q ResampleQuality) String() string {
	switch q {
	case ResampleLow:
		return "low"
	case ResampleMedium:
		return "medium"
	case ResampleHigh:
		return "high"
	case ResampleVeryHigh:
		return "very-high"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// ParseResampleQuality converts a quality name as printed by String.
func ParseResampleQuality(name string) (ResampleQuality, error) {
	switch name {
	case "", "high":
		return ResampleHigh, nil
	case "low":
		return ResampleLow, nil
	case "medium":
		return ResampleMedium, nil
	case "very-high", "veryhigh":
		return ResampleVeryHigh, nil
	default:
		return ResampleHigh, fmt.Errorf("%w: unknown resample quality %q", ErrInvalidConfig, name)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate must not be negative", ErrInvalidConfig)
	}
	if c.BlockSize < 0 {
		return fmt.Errorf("%w: block size must not be negative", ErrInvalidConfig)
	}
	if c.BlockSize != 0 && !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a power of two", ErrInvalidConfig, c.BlockSize)
	}
	if c.Engine == nil && c.Backend != BackendGonum && c.Backend != BackendAlgoFFT {
		return fmt.Errorf("%w: unknown backend %d", ErrInvalidConfig, int(c.Backend))
	}
	if c.ResampleQuality < ResampleHigh || c.ResampleQuality > ResampleVeryHigh {
		return fmt.Errorf("%w: unknown resample quality %d", ErrInvalidConfig, int(c.ResampleQuality))
	}
	return nil
}

// blockSize returns the configured block size or the default.
func (c *Config) blockSize() int {
	if c.BlockSize == 0 {
		return DefaultBlockSize
	}
	return c.BlockSize
}

// logger returns the configured logger or one that discards everything.
func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// engineFactory returns the factory selected by Engine or Backend.
func (c *Config) engineFactory() EngineFactory {
	if c.Engine != nil {
		return c.Engine
	}
	if c.Backend == BackendAlgoFFT {
		return NewAlgoFFTEngine
	}
	return NewGonumEngine
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
