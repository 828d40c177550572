package surround

import (
	"fmt"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
)

// fftHermitianDivisor gives the unique bins of a real FFT: N/2 + 1.
const fftHermitianDivisor = 2

// gonumEngine convolves in float64 with gonum's real FFT.
type gonumEngine struct {
	fft    *fourier.FFT
	fftLen int
	scale  float64 // 1/fftLen; gonum doesn't normalize the inverse

	// Impulse spectra by slot
	spectra [][]complex128

	// Working buffers
	signal   []float64
	spectrum []complex128
	product  []complex128
	result   []float64
}

// NewGonumEngine builds the float64 gonum engine.
func NewGonumEngine(channels, fftLen int) (Engine, error) {
	if channels <= 0 || !isPowerOfTwo(fftLen) {
		return nil, fmt.Errorf("%w: gonum engine needs channels > 0 and a power-of-two FFT length, got %d and %d",
			ErrTransformBackend, channels, fftLen)
	}
	bins := fftLen/fftHermitianDivisor + 1
	spectra := make([][]complex128, channels*earsPerChannel)
	for i := range spectra {
		spectra[i] = make([]complex128, bins)
	}
	return &gonumEngine{
		fft:      fourier.NewFFT(fftLen),
		fftLen:   fftLen,
		scale:    1.0 / float64(fftLen),
		spectra:  spectra,
		signal:   make([]float64, fftLen),
		spectrum: make([]complex128, bins),
		product:  make([]complex128, bins),
		result:   make([]float64, fftLen),
	}, nil
}

func (e *gonumEngine) InitIR(impulse []float32, index int) error {
	if index < 0 || index >= len(e.spectra) {
		return fmt.Errorf("%w: impulse slot %d out of range [0, %d)", ErrTransformBackend, index, len(e.spectra))
	}
	if len(impulse) > e.fftLen {
		return fmt.Errorf("%w: impulse of %d samples exceeds FFT length %d", ErrTransformBackend, len(impulse), e.fftLen)
	}
	clear(e.signal)
	for i, v := range impulse {
		e.signal[i] = float64(v)
	}
	e.fft.Coefficients(e.spectra[index], e.signal)
	return nil
}

func (e *gonumEngine) ProcessChannel(channel int, window, scratch, left, right []float32) error {
	if channel < 0 || impulseSlot(channel, earRight) >= len(e.spectra) {
		return fmt.Errorf("%w: channel %d out of range", ErrTransformBackend, channel)
	}
	if len(window) != e.fftLen || len(scratch) != e.fftLen {
		return fmt.Errorf("%w: window and scratch must hold %d samples", ErrTransformBackend, e.fftLen)
	}
	if len(left) != len(right) || len(left) > e.fftLen {
		return fmt.Errorf("%w: ear outputs of %d and %d samples", ErrTransformBackend, len(left), len(right))
	}

	for i, v := range window {
		e.signal[i] = float64(v)
	}
	e.fft.Coefficients(e.spectrum, e.signal)

	e.convolveEar(impulseSlot(channel, earLeft), scratch, left)
	e.convolveEar(impulseSlot(channel, earRight), scratch, right)
	return nil
}

// convolveEar multiplies the window spectrum with one impulse spectrum and
// adds the tail of the inverse transform into out.
func (e *gonumEngine) convolveEar(slot int, scratch, out []float32) {
	c128.Mul(e.product, e.spectrum, e.spectra[slot])
	e.fft.Sequence(e.result, e.product)
	ops64.Scale(e.result, e.result, e.scale)

	for i, v := range e.result {
		scratch[i] = float32(v)
	}
	ops.Accumulate(out, scratch[e.fftLen-len(out):])
}
