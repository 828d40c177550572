package surround

import (
	"fmt"
	"time"
)

// RawFilter convolves caller-managed channel windows into one block of
// binaural output per call. The caller keeps the history: every call
// takes SamplesRequired() frames per channel, oldest first, and the window
// of the next call must overlap it by SampleLatency() frames.
//
// RawFilter is not safe for concurrent use.
type RawFilter struct {
	plan *filterPlan

	// Per-call accumulators; copied out only when every channel succeeds.
	accLeft  []float32
	accRight []float32
	scratch  []float32
}

// NewRawFilter preprocesses rec and builds a raw filter. A nil cfg uses
// the defaults.
func NewRawFilter(rec *Recording, cfg *Config) (*RawFilter, error) {
	plan, err := prepare(rec, cfg)
	if err != nil {
		return nil, err
	}
	return &RawFilter{
		plan:     plan,
		accLeft:  make([]float32, plan.blockSize),
		accRight: make([]float32, plan.blockSize),
		scratch:  make([]float32, plan.fftLen),
	}, nil
}

// Transform convolves one window per channel and adds BlockSize() frames
// into left and right. The caller zeroes left and right when it wants the
// block alone. On error neither output is modified.
func (f *RawFilter) Transform(input [][]float32, left, right []float32) error {
	if err := f.checkBuffers(input, left, right); err != nil {
		return err
	}

	clear(f.accLeft)
	clear(f.accRight)
	for c, window := range input {
		if err := f.plan.engine.ProcessChannel(c, window, f.scratch, f.accLeft, f.accRight); err != nil {
			return wrapBackend(fmt.Errorf("channel %d: %w", c, err))
		}
	}

	ops.Accumulate(left, f.accLeft)
	ops.Accumulate(right, f.accRight)
	return nil
}

func (f *RawFilter) checkBuffers(input [][]float32, left, right []float32) error {
	if len(input) != f.plan.channels.Len() {
		return fmt.Errorf("%w: got %d input channels, filter has %d", ErrLengthMismatch, len(input), f.plan.channels.Len())
	}
	for c, window := range input {
		if len(window) != f.plan.fftLen {
			return fmt.Errorf("%w: channel %d window has %d samples, need %d", ErrLengthMismatch, c, len(window), f.plan.fftLen)
		}
	}
	if len(left) != f.plan.blockSize || len(right) != f.plan.blockSize {
		return fmt.Errorf("%w: outputs have %d and %d samples, need %d", ErrLengthMismatch, len(left), len(right), f.plan.blockSize)
	}
	return nil
}

// SamplesRequired returns the window length per channel (the FFT length).
func (f *RawFilter) SamplesRequired() int {
	return f.plan.fftLen
}

// BlockSize returns the frames produced per transform.
func (f *RawFilter) BlockSize() int {
	return f.plan.blockSize
}

// SampleLatency returns the frames of history each window carries over.
func (f *RawFilter) SampleLatency() int {
	return f.plan.latency()
}

// LatencyDuration returns SampleLatency as a duration.
func (f *RawFilter) LatencyDuration() time.Duration {
	return framesDuration(f.plan.latency(), f.plan.sampleRate)
}

// SampleRate returns the rate the filter runs at.
func (f *RawFilter) SampleRate() int {
	return f.plan.sampleRate
}

// Channels returns the number of input channels.
func (f *RawFilter) Channels() int {
	return f.plan.channels.Len()
}

// Positions returns the input channel layout.
func (f *RawFilter) Positions() []Position {
	return f.plan.channels.Positions()
}

// ChannelMap returns the input channel map.
func (f *RawFilter) ChannelMap() ChannelMap {
	return f.plan.channels
}

// ImpulseFrames returns the HRIR length after resampling.
func (f *RawFilter) ImpulseFrames() int {
	return f.plan.hrirFrames
}

func framesDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
