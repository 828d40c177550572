package audioio

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	surround "github.com/tphakala/go-virtual-surround"
)

// VorbisDecoder decodes Ogg Vorbis. Channels follow the Vorbis I order.
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.ReadSeeker) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ogg vorbis: %w", err)
	}
	return &vorbisSource{
		dec:       dec,
		positions: surround.VorbisPositions(dec.Channels()),
	}, nil
}

type vorbisSource struct {
	dec       *oggvorbis.Reader
	positions []surround.Position
}

func (s *vorbisSource) SampleRate() int                { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int                  { return s.dec.Channels() }
func (s *vorbisSource) Positions() []surround.Position { return s.positions }
func (s *vorbisSource) Close() error                   { return nil }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	// Whole frames only, so a read never splits a frame.
	frames := len(dst) / s.dec.Channels()
	if frames == 0 {
		return 0, nil
	}
	return s.dec.Read(dst[:frames*s.dec.Channels()])
}
