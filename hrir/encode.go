package hrir

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	surround "github.com/tphakala/go-virtual-surround"
)

// RIFF sizes
const (
	riffFormSize    = 4 // "WAVE"
	chunkHeaderSize = 8 // ID + size
	maxDataBytes    = math.MaxUint32 - riffFormSize - 2*chunkHeaderSize - fmtExtensibleSize

	writerBufferSize = 64 * 1024
)

// ksDataFormatSubtypeTail is the fixed part of KSDATAFORMAT_SUBTYPE GUIDs
// after the two-byte format code.
var ksDataFormatSubtypeTail = [subFormatSize - 2]byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// Encode writes rec as a WAVE_FORMAT_EXTENSIBLE file with 32-bit IEEE
// float samples. The channel mask is derived from rec.Positions, which
// must therefore be in mask order with PositionDirectOut channels last.
func Encode(w io.Writer, rec *surround.Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	mask := surround.MaskFromPositions(rec.Positions)
	if !slices.Equal(surround.PositionsFromMask(mask, rec.Channels()), rec.Positions) {
		return fmt.Errorf("%w: positions %v cannot be expressed as a channel mask",
			surround.ErrInvalidRecording, rec.Positions)
	}
	dataBytes := len(rec.Samples) * bytesPerFloat
	if uint64(dataBytes) > maxDataBytes {
		return fmt.Errorf("%w: %d bytes of samples exceed the WAV size limit", surround.ErrInvalidRecording, dataBytes)
	}

	channels := rec.Channels()
	blockAlign := channels * bytesPerFloat
	bw := bufio.NewWriterSize(w, writerBufferSize)

	header := struct {
		RiffID   [4]byte
		RiffSize uint32
		WaveID   [4]byte

		FmtID         [4]byte
		FmtSize       uint32
		FormatTag     uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		CbSize        uint16
		ValidBits     uint16
		ChannelMask   uint32
		SubFormatCode uint16
		SubFormatTail [subFormatSize - 2]byte

		DataID   [4]byte
		DataSize uint32
	}{
		RiffID:        [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      uint32(riffFormSize + 2*chunkHeaderSize + fmtExtensibleSize + dataBytes),
		WaveID:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       fmtExtensibleSize,
		FormatTag:     uint16(surround.EncodingExtensible),
		Channels:      uint16(channels),
		SampleRate:    uint32(rec.SampleRate),
		ByteRate:      uint32(rec.SampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bytesPerFloat * bitsPerByte,
		CbSize:        fmtExtensionSize,
		ValidBits:     bytesPerFloat * bitsPerByte,
		ChannelMask:   mask,
		SubFormatCode: uint16(surround.EncodingIEEEFloat),
		SubFormatTail: ksDataFormatSubtypeTail,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataBytes),
	}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	var sample [bytesPerFloat]byte
	for _, v := range rec.Samples {
		binary.LittleEndian.PutUint32(sample[:], math.Float32bits(v))
		if _, err := bw.Write(sample[:]); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush WAV data: %w", err)
	}
	return nil
}

// Create writes rec to a new file at path.
func Create(path string, rec *surround.Recording) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HRIR file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return Encode(f, rec)
}
