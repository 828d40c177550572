// Package hrir reads and writes HRIR recordings stored as WAV files.
//
// HRIR files are multichannel WAVE_FORMAT_EXTENSIBLE files with 32-bit
// IEEE float samples; the channel mask tells which speaker position each
// channel was measured at. Plain IEEE float files are accepted too and
// take the default WAVE layout for their channel count.
package hrir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"

	surround "github.com/tphakala/go-virtual-surround"
)

// fmt chunk layout
const (
	fmtBaseSize       = 16 // PCM fmt chunk
	fmtExtensionSize  = 22 // WAVE_FORMAT_EXTENSIBLE extension
	fmtExtensibleSize = fmtBaseSize + 2 + fmtExtensionSize
	subFormatSize     = 16
	bytesPerFloat     = 4
	bitsPerByte       = 8
)

// Header describes the format of an HRIR file.
type Header struct {
	// Encoding is the effective sample format. For extensible files it is
	// taken from the subformat GUID.
	Encoding surround.SampleEncoding

	// Extensible reports whether the fmt chunk used WAVE_FORMAT_EXTENSIBLE.
	Extensible bool

	Channels      int
	SampleRate    int
	BitsPerSample int

	// ChannelMask is the WAVE speaker mask, zero when absent.
	ChannelMask uint32

	// Positions holds the speaker position of each channel.
	Positions []surround.Position

	// Frames is the number of frames in the data chunk.
	Frames int
}

// Reader decodes the header of a WAV file and streams its float samples.
type Reader struct {
	header Header
	data   *riff.Chunk
	buf    []byte
	remain int // bytes left in the data chunk
}

// NewReader parses the RIFF headers of r up to the start of the data
// chunk. Unknown chunks before the data chunk are skipped.
func NewReader(r io.Reader) (*Reader, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return nil, fmt.Errorf("%w: %w", surround.ErrInvalidRecording, err)
	}
	if p.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: RIFF form %q is not WAVE", surround.ErrInvalidRecording, p.Format[:])
	}

	var (
		hdr     Header
		haveFmt bool
	)
	for {
		chunk, err := p.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: no data chunk", surround.ErrInvalidRecording)
			}
			return nil, fmt.Errorf("%w: %w", surround.ErrInvalidRecording, err)
		}

		switch chunk.ID {
		case riff.FmtID:
			if hdr, err = decodeFmt(chunk); err != nil {
				return nil, err
			}
			haveFmt = true
		case riff.DataFormatID:
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", surround.ErrInvalidRecording)
			}
			frameSize := hdr.Channels * hdr.BitsPerSample / bitsPerByte
			if frameSize > 0 {
				hdr.Frames = chunk.Size / frameSize
			}
			return &Reader{header: hdr, data: chunk, remain: hdr.Frames * frameSize}, nil
		default:
			chunk.Drain()
		}
	}
}

func decodeFmt(chunk *riff.Chunk) (Header, error) {
	if chunk.Size < fmtBaseSize {
		return Header{}, fmt.Errorf("%w: fmt chunk of %d bytes", surround.ErrInvalidRecording, chunk.Size)
	}
	var base struct {
		FormatTag     uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}
	if err := chunk.ReadLE(&base); err != nil {
		return Header{}, fmt.Errorf("%w: reading fmt chunk: %w", surround.ErrInvalidRecording, err)
	}

	hdr := Header{
		Encoding:      surround.SampleEncoding(base.FormatTag),
		Channels:      int(base.Channels),
		SampleRate:    int(base.SampleRate),
		BitsPerSample: int(base.BitsPerSample),
	}
	if hdr.Encoding == surround.EncodingExtensible && chunk.Size >= fmtExtensibleSize {
		var ext struct {
			CbSize      uint16
			ValidBits   uint16
			ChannelMask uint32
			SubFormat   [subFormatSize]byte
		}
		if err := chunk.ReadLE(&ext); err != nil {
			return Header{}, fmt.Errorf("%w: reading fmt extension: %w", surround.ErrInvalidRecording, err)
		}
		hdr.Extensible = true
		hdr.ChannelMask = ext.ChannelMask
		// The first two bytes of the subformat GUID are the format code.
		hdr.Encoding = surround.SampleEncoding(binary.LittleEndian.Uint16(ext.SubFormat[:2]))
	}
	chunk.Drain()

	if hdr.Channels == 0 || hdr.SampleRate == 0 || hdr.BitsPerSample == 0 {
		return Header{}, fmt.Errorf("%w: fmt chunk declares %d channels, %d Hz, %d bits",
			surround.ErrInvalidRecording, hdr.Channels, hdr.SampleRate, hdr.BitsPerSample)
	}
	hdr.Positions = surround.PositionsFromMask(hdr.ChannelMask, hdr.Channels)
	return hdr, nil
}

// Header returns the parsed format.
func (r *Reader) Header() Header {
	return r.header
}

// ReadSamples reads interleaved float32 samples into dst and returns the
// number of samples read. It returns io.EOF after the last sample and an
// *surround.UnsupportedFormatError unless the file holds 32-bit IEEE
// float data.
func (r *Reader) ReadSamples(dst []float32) (int, error) {
	if err := surround.CheckFormat(r.header.Encoding, r.header.BitsPerSample); err != nil {
		return 0, err
	}
	if r.remain == 0 {
		return 0, io.EOF
	}

	want := min(len(dst)*bytesPerFloat, r.remain)
	if cap(r.buf) < want {
		r.buf = make([]byte, want)
	}
	buf := r.buf[:want]
	n, err := io.ReadFull(r.data, buf)
	r.remain -= n
	n -= n % bytesPerFloat
	for i := range n / bytesPerFloat {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*bytesPerFloat:]))
	}
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			r.remain = 0
			return n / bytesPerFloat, fmt.Errorf("%w: data chunk truncated", surround.ErrInvalidRecording)
		}
		return n / bytesPerFloat, err
	}
	return n / bytesPerFloat, nil
}
