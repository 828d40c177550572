package surround

import (
	"fmt"
)

// ResampleFunc converts interleaved samples of the given channel count
// from srcRate to dstRate and returns the interleaved result.
type ResampleFunc func(samples []float32, srcRate, dstRate, channels int) ([]float32, error)

// DefaultResampler returns the resampler compiled into this build for the
// given quality, or false when the build has none (tag noresample).
func DefaultResampler(quality ResampleQuality) (ResampleFunc, bool) {
	if defaultResampler == nil {
		return nil, false
	}
	return defaultResampler(quality), true
}

// ResampleRecording returns a copy of rec at sampleRate. The resampler is
// cfg.Resampler when set, otherwise the build's default. The result keeps
// rec's positions and sample format.
func ResampleRecording(rec *Recording, sampleRate int, cfg *Config) (*Recording, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: target sample rate must be positive", ErrInvalidConfig)
	}

	out := &Recording{
		SampleRate:    sampleRate,
		Positions:     append([]Position(nil), rec.Positions...),
		Encoding:      rec.Encoding,
		BitsPerSample: rec.BitsPerSample,
	}
	if sampleRate == rec.SampleRate {
		out.Samples = append([]float32(nil), rec.Samples...)
		return out, nil
	}

	resample := cfg.Resampler
	if resample == nil {
		var ok bool
		if resample, ok = DefaultResampler(cfg.ResampleQuality); !ok {
			return nil, fmt.Errorf("%w: HRIR is %d Hz, filter needs %d Hz", ErrResamplingUnavailable, rec.SampleRate, sampleRate)
		}
	}

	samples, err := resample(rec.Samples, rec.SampleRate, sampleRate, rec.Channels())
	if err != nil {
		return nil, fmt.Errorf("resampling HRIR from %d Hz to %d Hz: %w", rec.SampleRate, sampleRate, err)
	}
	if len(samples) == 0 || len(samples)%rec.Channels() != 0 {
		return nil, fmt.Errorf("%w: resampler returned %d samples for %d channels",
			ErrInvalidRecording, len(samples), rec.Channels())
	}
	out.Samples = samples
	return out, nil
}
