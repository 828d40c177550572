//go:build !noresample

package surround

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

var defaultResampler = newChannelResampler

// newChannelResampler returns a ResampleFunc that runs one mono
// go-audio-resampling instance per channel.
func newChannelResampler(quality ResampleQuality) ResampleFunc {
	preset := qualityPreset(quality)
	return func(samples []float32, srcRate, dstRate, channels int) ([]float32, error) {
		if channels <= 0 {
			return nil, fmt.Errorf("%w: resampling needs at least one channel", ErrInvalidConfig)
		}
		frames := len(samples) / channels

		planar := make([][]float64, channels)
		longest := 0
		input := make([]float64, frames)
		for c := range channels {
			for f := range frames {
				input[f] = float64(samples[f*channels+c])
			}
			out, err := resampleChannel(input, srcRate, dstRate, preset)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", c, err)
			}
			planar[c] = out
			longest = max(longest, len(out))
		}

		// Channels may differ by a sample; shorter ones are zero padded.
		out := make([]float32, longest*channels)
		for c, ch := range planar {
			for f, v := range ch {
				out[f*channels+c] = float32(v)
			}
		}
		return out, nil
	}
}

func resampleChannel(input []float64, srcRate, dstRate int, preset resampling.QualityPreset) ([]float64, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: preset},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	processed, err := r.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	// Copy before Flush, which may reuse the resampler's buffers.
	out := append([]float64(nil), processed...)
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush error: %w", err)
	}
	return append(out, tail...), nil
}

func qualityPreset(q ResampleQuality) resampling.QualityPreset {
	switch q {
	case ResampleLow:
		return resampling.QualityLow
	case ResampleMedium:
		return resampling.QualityMedium
	case ResampleVeryHigh:
		return resampling.QualityVeryHigh
	default:
		return resampling.QualityHigh
	}
}
