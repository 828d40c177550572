package audioio

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	stereoChannels = 2
	wavFormatPCM   = 1
)

// StereoWriter writes interleaved float32 stereo as integer PCM WAV.
type StereoWriter struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	maxVal float64
	frames int64
}

// NewStereoWriter starts a stereo PCM WAV file of the given bit depth
// (16, 24 or 32) on w. Close must be called to finalize the header.
func NewStereoWriter(w io.WriteSeeker, sampleRate, bitDepth int) (*StereoWriter, error) {
	maxVal, err := pcmMax(bitDepth)
	if err != nil {
		return nil, err
	}
	return &StereoWriter{
		enc:    wav.NewEncoder(w, sampleRate, bitDepth, stereoChannels, wavFormatPCM),
		maxVal: maxVal,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: stereoChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func pcmMax(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return maxInt16 - 1, nil
	case 24:
		return maxInt24 - 1, nil
	case 32:
		return maxInt32 - 1, nil
	default:
		return 0, fmt.Errorf("unsupported output bit depth %d (want 16, 24 or 32)", bitDepth)
	}
}

// Write appends interleaved stereo samples, clipping to [-1, 1].
func (w *StereoWriter) Write(samples []float32) error {
	if len(samples)%stereoChannels != 0 {
		return fmt.Errorf("odd sample count %d for stereo output", len(samples))
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, v := range samples {
		w.buf.Data[i] = int(math.Round(clamp(float64(v)) * w.maxVal))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	w.frames += int64(len(samples) / stereoChannels)
	return nil
}

// Frames returns the stereo frames written so far.
func (w *StereoWriter) Frames() int64 {
	return w.frames
}

// Close finalizes the WAV header. It does not close the underlying writer.
func (w *StereoWriter) Close() error {
	return w.enc.Close()
}

func clamp(v float64) float64 {
	return min(max(v, -1), 1)
}
