package surround

import (
	"errors"
	"fmt"
)

// Common errors returned by the filters. Construction errors are fatal to
// the instance being built; runtime errors are returned from Transform and
// leave previously written output untouched.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid virtual surround configuration")

	// ErrUnsupportedFormat indicates the HRIR is not 32-bit IEEE float.
	// Use errors.As with *UnsupportedFormatError for the details.
	ErrUnsupportedFormat = errors.New("unsupported HRIR sample format")

	// ErrTooManyChannels indicates more than MaxChannels positions.
	ErrTooManyChannels = errors.New("too many channels")

	// ErrAsymmetricHRIR indicates a channel has no mirrored counterpart.
	// Use errors.As with *AsymmetricHRIRError for the position.
	ErrAsymmetricHRIR = errors.New("HRIR is not symmetrical")

	// ErrResamplingUnavailable indicates a target sample rate was
	// requested but no resampler is available.
	ErrResamplingUnavailable = errors.New("resampling unavailable")

	// ErrTransformBackend indicates the transform backend failed while
	// planning, storing an impulse or processing a frame.
	ErrTransformBackend = errors.New("transform backend failure")

	// ErrInvalidRecording indicates a malformed HRIR recording.
	ErrInvalidRecording = errors.New("invalid HRIR recording")

	// ErrSilentRecording indicates an HRIR with no non-zero sample, which
	// cannot be normalized.
	ErrSilentRecording = errors.New("HRIR recording is silent")

	// ErrLengthMismatch indicates a buffer of the wrong length or count.
	ErrLengthMismatch = errors.New("buffer length mismatch")

	// ErrBufferTooSmall indicates the output buffer is too small.
	ErrBufferTooSmall = errors.New("output buffer too small")
)

// UnsupportedFormatError reports the encoding and bit depth of a rejected
// HRIR recording.
type UnsupportedFormatError struct {
	Encoding SampleEncoding
	Bits     int
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%v: %v at %d bits (only 32-bit IEEE float is supported)", ErrUnsupportedFormat, e.Encoding, e.Bits)
}

// Is reports whether target is ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// AsymmetricHRIRError reports the position whose mirror is missing.
type AsymmetricHRIRError struct {
	Position Position
}

func (e *AsymmetricHRIRError) Error() string {
	return fmt.Sprintf("%v: can't find the mirrored side of %v (%v)", ErrAsymmetricHRIR, e.Position, e.Position.Mirror())
}

// Is reports whether target is ErrAsymmetricHRIR.
func (e *AsymmetricHRIRError) Is(target error) bool {
	return target == ErrAsymmetricHRIR
}

// CheckFormat returns an *UnsupportedFormatError unless the encoding is
// 32-bit IEEE float.
func CheckFormat(encoding SampleEncoding, bits int) error {
	if encoding == EncodingIEEEFloat && bits == float32Bits {
		return nil
	}
	return &UnsupportedFormatError{Encoding: encoding, Bits: bits}
}
