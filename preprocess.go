package surround

import (
	"errors"
	"fmt"
	"log/slog"
)

// filterPlan is the immutable result of HRIR preprocessing.
type filterPlan struct {
	channels   ChannelMap
	engine     Engine
	fftLen     int
	blockSize  int
	sampleRate int
	hrirFrames int
}

// latency returns the history kept between frames.
func (p *filterPlan) latency() int {
	return p.fftLen - p.blockSize
}

// prepare validates, resamples and normalizes rec, plans the FFT and loads
// every ear impulse into a new engine. rec is not modified.
func prepare(rec *Recording, cfg *Config) (*filterPlan, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recording is nil", ErrInvalidRecording)
	}
	if err := CheckFormat(rec.Encoding, rec.BitsPerSample); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	samples := rec.Samples
	sampleRate := rec.SampleRate
	if cfg.SampleRate != 0 && cfg.SampleRate != rec.SampleRate {
		resampled, err := ResampleRecording(rec, cfg.SampleRate, cfg)
		if err != nil {
			return nil, err
		}
		log.Debug("resampled HRIR",
			slog.Int("from_hz", rec.SampleRate),
			slog.Int("to_hz", cfg.SampleRate),
			slog.Int("frames", resampled.Frames()))
		samples = resampled.Samples
		sampleRate = cfg.SampleRate
	}

	channelCount := rec.Channels()
	normalized, err := normalize(samples, channelCount)
	if err != nil {
		return nil, err
	}

	channels, err := NewChannelMap(rec.Positions)
	if err != nil {
		return nil, err
	}
	mirrors, err := resolveMirrors(channels)
	if err != nil {
		return nil, err
	}

	frames := len(normalized) / channelCount
	blockSize := cfg.blockSize()
	fftLen := planFFTSize(frames, blockSize)

	engine, err := cfg.engineFactory()(channelCount, fftLen)
	if err != nil {
		return nil, wrapBackend(err)
	}

	impulse := make([]float32, fftLen)
	for i := range channelCount {
		for ear, src := range [earsPerChannel]int{i, mirrors[i]} {
			clear(impulse)
			ops.Deinterleave(impulse[:frames], normalized, src, channelCount)
			if err := engine.InitIR(impulse, impulseSlot(i, ear)); err != nil {
				return nil, wrapBackend(err)
			}
		}
	}

	log.Debug("virtual surround filter planned",
		slog.String("channels", channels.String()),
		slog.Int("hrir_frames", frames),
		slog.Int("fft_len", fftLen),
		slog.Int("block_size", blockSize),
		slog.Int("latency", fftLen-blockSize),
		slog.Int("sample_rate", sampleRate))

	return &filterPlan{
		channels:   channels,
		engine:     engine,
		fftLen:     fftLen,
		blockSize:  blockSize,
		sampleRate: sampleRate,
		hrirFrames: frames,
	}, nil
}

// normalize returns a copy of interleaved scaled so that the largest
// per-frame sum of absolute values across channels becomes 1/2.5.
func normalize(interleaved []float32, channels int) ([]float32, error) {
	var peak float64
	abs := make([]float32, channels)
	for f := 0; f+channels <= len(interleaved); f += channels {
		ops.Abs(abs, interleaved[f:f+channels])
		peak = max(peak, float64(ops.Sum(abs)))
	}
	if peak == 0 {
		return nil, ErrSilentRecording
	}

	out := make([]float32, len(interleaved))
	ops.Scale(out, interleaved, float32(1/(peak*normalizationHeadroom)))
	return out, nil
}

// planFFTSize returns the smallest power of two that holds the impulse,
// one block and a guard sample.
func planFFTSize(hrirFrames, blockSize int) int {
	need := hrirFrames + blockSize + guardSamples
	n := 1
	for n < need {
		n <<= 1
	}
	return n
}

// resolveMirrors returns, for every channel, the index of the channel
// carrying its mirrored position. Center positions resolve to themselves.
func resolveMirrors(channels ChannelMap) ([]int, error) {
	mirrors := make([]int, channels.Len())
	for i := range mirrors {
		p := channels.At(i)
		m, ok := channels.FindMirror(p)
		if !ok {
			return nil, &AsymmetricHRIRError{Position: p}
		}
		mirrors[i] = m
	}
	return mirrors, nil
}

func wrapBackend(err error) error {
	if errors.Is(err, ErrTransformBackend) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransformBackend, err)
}
