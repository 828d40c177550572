package surround

import "github.com/tphakala/go-virtual-surround/internal/simdops"

// Engine stores impulse spectra and convolves one channel window at a
// time. Implementations allocate only in their factory.
//
// Impulse slots are indexed channel*2+ear, with ear 0 for the left ear
// and 1 for the right.
type Engine interface {
	// InitIR transforms impulse (zero padded to the FFT length) and
	// stores its spectrum at slot index.
	InitIR(impulse []float32, index int) error

	// ProcessChannel convolves window, the FFT-length history of one
	// channel, with both ear spectra of that channel. The last len(left)
	// samples of each result are added into left and right. scratch is
	// an FFT-length buffer the engine may overwrite.
	ProcessChannel(channel int, window, scratch, left, right []float32) error
}

// EngineFactory builds an Engine for a channel count and FFT length.
type EngineFactory func(channels, fftLen int) (Engine, error)

// Ear indices of an impulse slot.
const (
	earLeft  = 0
	earRight = 1
)

func impulseSlot(channel, ear int) int {
	return channel*earsPerChannel + ear
}

var (
	ops   = simdops.Float32Ops()
	ops64 = simdops.Float64Ops()
)
