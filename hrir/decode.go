package hrir

import (
	"errors"
	"fmt"
	"io"
	"os"

	surround "github.com/tphakala/go-virtual-surround"
)

// Decode reads a complete HRIR recording from r.
func Decode(r io.Reader) (*surround.Recording, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	hdr := rd.Header()
	if err := surround.CheckFormat(hdr.Encoding, hdr.BitsPerSample); err != nil {
		return nil, err
	}
	if hdr.Channels > surround.MaxChannels {
		return nil, fmt.Errorf("%w: HRIR has %d channels, max %d", surround.ErrTooManyChannels, hdr.Channels, surround.MaxChannels)
	}
	if hdr.Frames == 0 {
		return nil, fmt.Errorf("%w: data chunk is empty", surround.ErrInvalidRecording)
	}

	samples := make([]float32, hdr.Frames*hdr.Channels)
	read := 0
	for read < len(samples) {
		n, err := rd.ReadSamples(samples[read:])
		read += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return &surround.Recording{
		SampleRate:    hdr.SampleRate,
		Positions:     hdr.Positions,
		Encoding:      hdr.Encoding,
		BitsPerSample: hdr.BitsPerSample,
		Samples:       samples[:read-read%hdr.Channels],
	}, nil
}

// Open decodes the HRIR file at path.
func Open(path string) (*surround.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HRIR file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
