package audioio

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/hrir"
)

// PCM scaling
const (
	maxInt8Unsigned = 128.0
	maxInt16        = 32768.0
	maxInt24        = 8388608.0
	maxInt32        = 2147483648.0
)

// WAVDecoder decodes PCM WAV through go-audio/wav and 32-bit float WAV
// through the HRIR reader. Channel positions come from the channel mask.
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.ReadSeeker) (Source, error) {
	rd, err := hrir.NewReader(r)
	if err != nil {
		return nil, err
	}
	hdr := rd.Header()
	switch hdr.Encoding {
	case surround.EncodingIEEEFloat:
		if err := surround.CheckFormat(hdr.Encoding, hdr.BitsPerSample); err != nil {
			return nil, err
		}
		return &floatWAVSource{reader: rd, header: hdr}, nil
	case surround.EncodingPCM:
	default:
		return nil, &surround.UnsupportedFormatError{Encoding: hdr.Encoding, Bits: hdr.BitsPerSample}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind WAV file: %w", err)
	}
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	scale, err := pcmScale(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}
	return &pcmWAVSource{
		dec:      dec,
		header:   hdr,
		scale:    scale,
		unsigned: dec.BitDepth == 8,
		buf: &audio.IntBuffer{
			Format: dec.Format(),
			Data:   make([]int, 0),
		},
	}, nil
}

func pcmScale(bits int) (float32, error) {
	switch bits {
	case 8:
		return 1 / maxInt8Unsigned, nil
	case 16:
		return 1 / maxInt16, nil
	case 24:
		return 1 / maxInt24, nil
	case 32:
		return 1 / maxInt32, nil
	default:
		return 0, &surround.UnsupportedFormatError{Encoding: surround.EncodingPCM, Bits: bits}
	}
}

type floatWAVSource struct {
	reader *hrir.Reader
	header hrir.Header
}

func (s *floatWAVSource) SampleRate() int                       { return s.header.SampleRate }
func (s *floatWAVSource) Channels() int                         { return s.header.Channels }
func (s *floatWAVSource) Positions() []surround.Position        { return s.header.Positions }
func (s *floatWAVSource) Close() error                          { return nil }
func (s *floatWAVSource) ReadSamples(dst []float32) (int, error) { return s.reader.ReadSamples(dst) }

type pcmWAVSource struct {
	dec      *wav.Decoder
	header   hrir.Header
	buf      *audio.IntBuffer
	scale    float32
	unsigned bool
}

func (s *pcmWAVSource) SampleRate() int                { return s.header.SampleRate }
func (s *pcmWAVSource) Channels() int                  { return s.header.Channels }
func (s *pcmWAVSource) Positions() []surround.Position { return s.header.Positions }
func (s *pcmWAVSource) Close() error                   { return nil }

func (s *pcmWAVSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	for i, v := range s.buf.Data[:n] {
		if s.unsigned {
			v -= int(maxInt8Unsigned)
		}
		dst[i] = float32(v) * s.scale
	}
	return n, nil
}
