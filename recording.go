package surround

import "fmt"

// SampleEncoding is the WAVE format code of a recording's samples.
type SampleEncoding uint16

const (
	EncodingUnknown    SampleEncoding = 0
	EncodingPCM        SampleEncoding = waveFormatPCM
	EncodingIEEEFloat  SampleEncoding = waveFormatIEEEFloat
	EncodingExtensible SampleEncoding = waveFormatExtensible
)

func (e SampleEncoding) String() string {
	switch e {
	case EncodingPCM:
		return "PCM"
	case EncodingIEEEFloat:
		return "IEEE float"
	case EncodingExtensible:
		return "extensible"
	default:
		return fmt.Sprintf("format 0x%04x", uint16(e))
	}
}

// Recording is a decoded multichannel impulse recording. Samples are
// interleaved: frame f of channel c is Samples[f*len(Positions)+c].
type Recording struct {
	// SampleRate of the recording in Hz.
	SampleRate int

	// Positions is the speaker position of each channel in file order.
	Positions []Position

	// Encoding and BitsPerSample describe the source sample format.
	Encoding      SampleEncoding
	BitsPerSample int

	// Samples holds the interleaved impulse data.
	Samples []float32
}

// Channels returns the number of channels.
func (r *Recording) Channels() int {
	return len(r.Positions)
}

// Frames returns the number of samples per channel.
func (r *Recording) Frames() int {
	if len(r.Positions) == 0 {
		return 0
	}
	return len(r.Samples) / len(r.Positions)
}

// Channel copies channel c into a new slice.
func (r *Recording) Channel(c int) []float32 {
	channels := r.Channels()
	out := make([]float32, r.Frames())
	for f := range out {
		out[f] = r.Samples[f*channels+c]
	}
	return out
}

// Validate checks the recording for structural errors. It does not check
// the sample format; see CheckFormat.
func (r *Recording) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: recording is nil", ErrInvalidRecording)
	}
	channels := r.Channels()
	if channels == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidRecording)
	}
	if channels > MaxChannels {
		return fmt.Errorf("%w: HRIR has %d channels, max %d", ErrTooManyChannels, channels, MaxChannels)
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidRecording)
	}
	if len(r.Samples) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidRecording)
	}
	if len(r.Samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrInvalidRecording, len(r.Samples), channels)
	}
	for _, p := range r.Positions {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown position %d", ErrInvalidRecording, uint8(p))
		}
	}
	return nil
}
