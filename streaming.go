package surround

import (
	"fmt"
	"time"

	"github.com/tphakala/go-virtual-surround/internal/window"
)

// StreamingFilter renders interleaved multichannel chunks of any size into
// interleaved stereo. It keeps the channel history itself and emits one
// block of BlockSize() frames each time SamplesRequired() frames are
// buffered; the output of a stream does not depend on how it is chunked.
//
// StreamingFilter is not safe for concurrent use.
type StreamingFilter struct {
	raw   *RawFilter
	ring  *window.Ring
	views [][]float32

	left  []float32
	right []float32
}

// NewStreamingFilter preprocesses rec and builds a streaming filter.
func NewStreamingFilter(rec *Recording, cfg *Config) (*StreamingFilter, error) {
	raw, err := NewRawFilter(rec, cfg)
	if err != nil {
		return nil, err
	}
	return NewStreamingFilterFromRaw(raw), nil
}

// NewStreamingFilterFromRaw wraps raw. The raw filter must not be used
// elsewhere afterwards.
func NewStreamingFilterFromRaw(raw *RawFilter) *StreamingFilter {
	channels := raw.Channels()
	return &StreamingFilter{
		raw:   raw,
		ring:  window.New(channels, raw.SamplesRequired()),
		views: make([][]float32, 0, channels),
		left:  make([]float32, raw.BlockSize()),
		right: make([]float32, raw.BlockSize()),
	}
}

// Transform appends input, len(input)/Channels() interleaved frames, and
// writes every completed block to output as interleaved stereo clipped to
// [-1, 1]. It returns the number of stereo frames written, which is zero
// until SamplesRequired() frames have been buffered.
//
// output must hold OutputFrames(frames) stereo frames; otherwise
// ErrBufferTooSmall is returned and nothing is consumed. If a transform
// fails, the returned count covers the blocks written before the failure
// and the failed block stays buffered; the next call drops its oldest
// frames to make room.
func (s *StreamingFilter) Transform(input, output []float32) (int, error) {
	channels := s.raw.Channels()
	if len(input)%channels != 0 {
		return 0, fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrLengthMismatch, len(input), channels)
	}
	frames := len(input) / channels
	if need := s.OutputFrames(frames); len(output) < need*stereoChannels {
		return 0, fmt.Errorf("%w: need %d stereo frames, have %d", ErrBufferTooSmall, need, len(output)/stereoChannels)
	}

	written := 0
	for len(input) > 0 {
		n := s.ring.Free()
		if n == 0 {
			// A failed block is still buffered.
			n = s.raw.BlockSize()
		}
		n = min(n, len(input)/channels)
		s.ring.Write(input[:n*channels])
		input = input[n*channels:]

		if !s.ring.Full() {
			continue
		}
		if err := s.emit(output[written*stereoChannels:]); err != nil {
			return written, err
		}
		written += s.raw.BlockSize()
	}
	return written, nil
}

// emit transforms the full window into one clipped stereo block.
func (s *StreamingFilter) emit(output []float32) error {
	clear(s.left)
	clear(s.right)
	s.views = s.ring.Views(s.views)
	if err := s.raw.Transform(s.views, s.left, s.right); err != nil {
		return err
	}
	ops.Clamp(s.left, outputMin, outputMax)
	ops.Clamp(s.right, outputMin, outputMax)
	ops.Interleave2(output[:len(s.left)*stereoChannels], s.left, s.right)
	s.ring.Discard(s.raw.BlockSize())
	return nil
}

// OutputFrames returns the stereo frames the next Transform call writes
// for an input of frames frames.
func (s *StreamingFilter) OutputFrames(frames int) int {
	if frames <= 0 {
		return 0
	}
	required := s.raw.SamplesRequired()
	block := s.raw.BlockSize()
	available := s.ring.Len()

	blocks := 0
	if available == required {
		consumed := min(frames, block)
		frames -= consumed
		blocks++
		available = required - block
	}
	if available+frames >= required {
		blocks += (available+frames-required)/block + 1
	}
	return blocks * block
}

// Available returns the frames currently buffered.
func (s *StreamingFilter) Available() int {
	return s.ring.Len()
}

// Prime clears the history and fills it with SampleLatency() frames of
// silence, so the first block is emitted after BlockSize() input frames
// and output stays aligned one to one with input.
func (s *StreamingFilter) Prime() {
	s.ring.Reset()
	s.ring.WriteSilence(s.raw.SampleLatency())
}

// Reset discards all buffered input.
func (s *StreamingFilter) Reset() {
	s.ring.Reset()
}

// Raw returns the wrapped raw filter.
func (s *StreamingFilter) Raw() *RawFilter {
	return s.raw
}

// SamplesRequired returns the frames buffered before the first block.
func (s *StreamingFilter) SamplesRequired() int {
	return s.raw.SamplesRequired()
}

// BlockSize returns the frames emitted per block.
func (s *StreamingFilter) BlockSize() int {
	return s.raw.BlockSize()
}

// SampleLatency returns the delay between input and output in frames.
func (s *StreamingFilter) SampleLatency() int {
	return s.raw.SampleLatency()
}

// LatencyDuration returns SampleLatency as a duration.
func (s *StreamingFilter) LatencyDuration() time.Duration {
	return s.raw.LatencyDuration()
}

// SampleRate returns the rate the filter runs at.
func (s *StreamingFilter) SampleRate() int {
	return s.raw.SampleRate()
}

// Channels returns the number of input channels.
func (s *StreamingFilter) Channels() int {
	return s.raw.Channels()
}

// Positions returns the input channel layout.
func (s *StreamingFilter) Positions() []Position {
	return s.raw.Positions()
}

// ChannelMap returns the input channel map.
func (s *StreamingFilter) ChannelMap() ChannelMap {
	return s.raw.ChannelMap()
}
