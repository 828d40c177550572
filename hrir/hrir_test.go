package hrir

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/internal/testutil"
)

func testRecording(positions []surround.Position, frames int) *surround.Recording {
	return &surround.Recording{
		SampleRate:    44100,
		Positions:     positions,
		Encoding:      surround.EncodingIEEEFloat,
		BitsPerSample: 32,
		Samples:       testutil.Noise(frames*len(positions), 3, 0.8),
	}
}

// buildWAV assembles a RIFF/WAVE file from raw chunks.
func buildWAV(chunks ...[]byte) []byte {
	var body bytes.Buffer
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.Write(c)
	}
	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func chunk(id string, payload []byte) []byte {
	var b bytes.Buffer
	b.WriteString(id)
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(payload)))
	b.Write(payload)
	if len(payload)%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

func plainFmt(tag uint16, channels, rate, bits int) []byte {
	var b bytes.Buffer
	blockAlign := channels * bits / 8
	for _, v := range []any{
		tag, uint16(channels), uint32(rate), uint32(rate * blockAlign), uint16(blockAlign), uint16(bits),
	} {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	return chunk("fmt ", b.Bytes())
}

func floatData(samples ...float32) []byte {
	var b bytes.Buffer
	for _, v := range samples {
		_ = binary.Write(&b, binary.LittleEndian, math.Float32bits(v))
	}
	return chunk("data", b.Bytes())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		positions []surround.Position
	}{
		{"stereo", surround.DefaultPositions(2)},
		{"5.1", surround.DefaultPositions(6)},
		{"7.1", surround.DefaultPositions(8)},
		{"direct out tail", []surround.Position{surround.PositionFrontLeft, surround.PositionFrontRight, surround.PositionDirectOut}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecording(tt.positions, 100)
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, rec))

			got, err := Decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, rec.SampleRate, got.SampleRate)
			assert.Equal(t, rec.Positions, got.Positions)
			assert.Equal(t, surround.EncodingIEEEFloat, got.Encoding)
			assert.Equal(t, 32, got.BitsPerSample)
			assert.Equal(t, rec.Samples, got.Samples)
		})
	}
}

func TestReaderHeader(t *testing.T) {
	rec := testRecording(surround.DefaultPositions(6), 10)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))

	r, err := NewReader(&buf)
	require.NoError(t, err)
	hdr := r.Header()
	assert.True(t, hdr.Extensible)
	assert.Equal(t, uint32(0x3F), hdr.ChannelMask)
	assert.Equal(t, 6, hdr.Channels)
	assert.Equal(t, 10, hdr.Frames)

	// Small reads stream through the data chunk.
	dst := make([]float32, 7)
	var all []float32
	for {
		n, err := r.ReadSamples(dst)
		all = append(all, dst[:n]...)
		if err != nil {
			break
		}
	}
	assert.Equal(t, rec.Samples, all)
}

func TestDecodePlainFloat(t *testing.T) {
	data := buildWAV(
		plainFmt(uint16(surround.EncodingIEEEFloat), 2, 48000, 32),
		chunk("LIST", []byte("INFOjunk!")),
		floatData(0.5, -0.5, 0.25, -0.25),
	)
	rec, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, surround.DefaultPositions(2), rec.Positions)
	assert.Equal(t, []float32{0.5, -0.5, 0.25, -0.25}, rec.Samples)
	assert.Equal(t, 48000, rec.SampleRate)
}

func TestDecodeRejectsPCM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcm.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 48000, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           []int{100, -100, 200, -200},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	_, err = Open(path)
	var formatErr *surround.UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, surround.EncodingPCM, formatErr.Encoding)
	assert.Equal(t, 16, formatErr.Bits)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"not riff", []byte("this is not a wav file at all"), surround.ErrInvalidRecording},
		{"empty", nil, surround.ErrInvalidRecording},
		{"no data chunk", buildWAV(plainFmt(3, 2, 48000, 32)), surround.ErrInvalidRecording},
		{"data before fmt", buildWAV(floatData(1, 1), plainFmt(3, 2, 48000, 32)), surround.ErrInvalidRecording},
		{"empty data", buildWAV(plainFmt(3, 2, 48000, 32), chunk("data", nil)), surround.ErrInvalidRecording},
		{"float64", buildWAV(plainFmt(3, 1, 48000, 64), chunk("data", make([]byte, 16))), surround.ErrUnsupportedFormat},
		{"too many channels", buildWAV(plainFmt(3, 25, 48000, 32), chunk("data", make([]byte, 4*25))), surround.ErrTooManyChannels},
		{"zero channels", buildWAV(plainFmt(3, 0, 48000, 32), chunk("data", make([]byte, 8))), surround.ErrInvalidRecording},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeTruncatedData(t *testing.T) {
	rec := testRecording(surround.DefaultPositions(2), 50)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rec))

	_, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()-10]))
	assert.ErrorIs(t, err, surround.ErrInvalidRecording)
}

func TestEncodeRejectsUnmaskableLayout(t *testing.T) {
	rec := testRecording(surround.VorbisPositions(3), 4)
	err := Encode(&bytes.Buffer{}, rec)
	assert.ErrorIs(t, err, surround.ErrInvalidRecording)
}

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hrir.wav")
	rec := testRecording(surround.DefaultPositions(8), 32)
	require.NoError(t, Create(path, rec))

	got, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Samples, got.Samples)

	_, err = Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
