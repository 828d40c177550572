package surround

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// algoFFTEngine convolves in float32 with an algo-fft real plan.
type algoFFTEngine struct {
	plan   *algofft.PlanRealT[float32, complex64]
	fftLen int

	// gain undoes whatever scaling the plan applies over a forward and
	// inverse round trip. Measured once at construction.
	gain float32

	spectra  [][]complex64
	spectrum []complex64
	product  []complex64
	padded   []float32
}

// NewAlgoFFTEngine builds the float32 algo-fft engine.
func NewAlgoFFTEngine(channels, fftLen int) (Engine, error) {
	if channels <= 0 || !isPowerOfTwo(fftLen) {
		return nil, fmt.Errorf("%w: algo-fft engine needs channels > 0 and a power-of-two FFT length, got %d and %d",
			ErrTransformBackend, channels, fftLen)
	}
	plan, err := algofft.NewPlanReal32(fftLen)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create FFT plan for size %d: %w", ErrTransformBackend, fftLen, err)
	}

	bins := fftLen/fftHermitianDivisor + 1
	spectra := make([][]complex64, channels*earsPerChannel)
	for i := range spectra {
		spectra[i] = make([]complex64, bins)
	}
	e := &algoFFTEngine{
		plan:     plan,
		fftLen:   fftLen,
		spectra:  spectra,
		spectrum: make([]complex64, bins),
		product:  make([]complex64, bins),
		padded:   make([]float32, fftLen),
	}
	if err := e.calibrate(); err != nil {
		return nil, err
	}
	return e, nil
}

// calibrate runs a unit impulse through both directions and derives the
// gain that restores it.
func (e *algoFFTEngine) calibrate() error {
	delta := make([]float32, e.fftLen)
	delta[0] = 1
	if err := e.plan.Forward(e.spectrum, delta); err != nil {
		return fmt.Errorf("%w: calibration forward transform: %w", ErrTransformBackend, err)
	}
	out := make([]float32, e.fftLen)
	if err := e.plan.Inverse(out, e.spectrum); err != nil {
		return fmt.Errorf("%w: calibration inverse transform: %w", ErrTransformBackend, err)
	}
	if out[0] == 0 {
		return fmt.Errorf("%w: inverse transform lost the calibration impulse", ErrTransformBackend)
	}
	e.gain = 1 / out[0]
	return nil
}

func (e *algoFFTEngine) InitIR(impulse []float32, index int) error {
	if index < 0 || index >= len(e.spectra) {
		return fmt.Errorf("%w: impulse slot %d out of range [0, %d)", ErrTransformBackend, index, len(e.spectra))
	}
	if len(impulse) > e.fftLen {
		return fmt.Errorf("%w: impulse of %d samples exceeds FFT length %d", ErrTransformBackend, len(impulse), e.fftLen)
	}
	clear(e.padded)
	copy(e.padded, impulse)
	if err := e.plan.Forward(e.spectra[index], e.padded); err != nil {
		return fmt.Errorf("%w: impulse slot %d: %w", ErrTransformBackend, index, err)
	}
	return nil
}

func (e *algoFFTEngine) ProcessChannel(channel int, window, scratch, left, right []float32) error {
	if channel < 0 || impulseSlot(channel, earRight) >= len(e.spectra) {
		return fmt.Errorf("%w: channel %d out of range", ErrTransformBackend, channel)
	}
	if len(window) != e.fftLen || len(scratch) != e.fftLen {
		return fmt.Errorf("%w: window and scratch must hold %d samples", ErrTransformBackend, e.fftLen)
	}
	if len(left) != len(right) || len(left) > e.fftLen {
		return fmt.Errorf("%w: ear outputs of %d and %d samples", ErrTransformBackend, len(left), len(right))
	}

	if err := e.plan.Forward(e.spectrum, window); err != nil {
		return fmt.Errorf("%w: forward transform of channel %d: %w", ErrTransformBackend, channel, err)
	}
	if err := e.convolveEar(impulseSlot(channel, earLeft), scratch, left); err != nil {
		return err
	}
	return e.convolveEar(impulseSlot(channel, earRight), scratch, right)
}

func (e *algoFFTEngine) convolveEar(slot int, scratch, out []float32) error {
	for i, s := range e.spectrum {
		e.product[i] = s * e.spectra[slot][i]
	}
	if err := e.plan.Inverse(scratch, e.product); err != nil {
		return fmt.Errorf("%w: inverse transform of slot %d: %w", ErrTransformBackend, slot, err)
	}
	ops.AccumulateScaled(out, scratch[e.fftLen-len(out):], e.gain)
	return nil
}
