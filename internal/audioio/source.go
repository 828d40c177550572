// Package audioio decodes content files for rendering and writes the
// binaural result.
package audioio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	surround "github.com/tphakala/go-virtual-surround"
)

// ErrUnknownFormat indicates a file extension with no registered decoder.
var ErrUnknownFormat = errors.New("unknown audio format")

// Source is a decoded audio stream.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int

	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int

	// Positions returns the speaker position of each channel.
	Positions() []surround.Position

	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0
	// with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.ReadSeeker) (Source, error)
}

// Registry maps file extensions to decoders.
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// Register binds a decoder to an extension such as ".wav".
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[strings.ToLower(ext)] = d
}

// Get returns the decoder for ext.
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

// Extensions lists the registered extensions.
func (r *Registry) Extensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		out = append(out, ext)
	}
	return out
}

// Open decodes the file at path with the decoder registered for its
// extension. Closing the source closes the file.
func (r *Registry) Open(path string) (Source, error) {
	ext := filepath.Ext(path)
	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	src, err := d.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileSource{Source: src, file: f}, nil
}

type fileSource struct {
	Source
	file *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}

// DefaultRegistry knows WAV, Ogg Vorbis and MP3.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".wav", WAVDecoder{})
	r.Register(".wave", WAVDecoder{})
	r.Register(".ogg", VorbisDecoder{})
	r.Register(".oga", VorbisDecoder{})
	r.Register(".mp3", MP3Decoder{})
	return r
}

// Open decodes path with DefaultRegistry.
func Open(path string) (Source, error) {
	return DefaultRegistry.Open(path)
}

// ReadAll drains src into one interleaved buffer.
func ReadAll(src Source) ([]float32, error) {
	chunk := make([]float32, 4096*max(src.Channels(), 1))
	var out []float32
	for {
		n, err := src.ReadSamples(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
