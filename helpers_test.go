package surround

import (
	"errors"

	"github.com/tphakala/go-virtual-surround/internal/testutil"
)

var backends = []Backend{BackendGonum, BackendAlgoFFT}

// testRecording builds a float HRIR of noise for positions.
func testRecording(positions []Position, frames int, seed uint32) *Recording {
	return &Recording{
		SampleRate:    48000,
		Positions:     positions,
		Encoding:      EncodingIEEEFloat,
		BitsPerSample: 32,
		Samples:       testutil.Noise(frames*len(positions), seed, 0.5),
	}
}

func stereoPositions() []Position {
	return []Position{PositionFrontLeft, PositionFrontRight}
}

func surround51() []Position {
	return DefaultPositions(6)
}

// withDefaultResampler swaps the build's default resampler until the
// returned func is called.
func withDefaultResampler(f func(ResampleQuality) ResampleFunc) (restore func()) {
	saved := defaultResampler
	defaultResampler = f
	return func() { defaultResampler = saved }
}

var errEngineFailed = errors.New("engine failed")

// failingEngine adds ones to both ears and fails on channel failOn while
// fail is set.
type failingEngine struct {
	failOn int
	fail   bool
}

func (e *failingEngine) InitIR([]float32, int) error { return nil }

func (e *failingEngine) ProcessChannel(channel int, _, _, left, right []float32) error {
	for i := range left {
		left[i]++
		right[i]++
	}
	if e.fail && channel == e.failOn {
		return errEngineFailed
	}
	return nil
}

func failingFactory(e *failingEngine) EngineFactory {
	return func(int, int) (Engine, error) { return e, nil }
}

// expectedEars returns the normalized left and right ear impulses of
// channel c.
func expectedEars(rec *Recording, c int) (left, right []float32) {
	normalized, err := normalize(rec.Samples, rec.Channels())
	if err != nil {
		panic(err)
	}
	norm := &Recording{Positions: rec.Positions, Samples: normalized}
	m, _ := mustMap(rec.Positions).FindMirror(rec.Positions[c])
	return norm.Channel(c), norm.Channel(m)
}

func mustMap(positions []Position) ChannelMap {
	m, err := NewChannelMap(positions)
	if err != nil {
		panic(err)
	}
	return m
}

// directRender convolves planar content with each channel's ear impulses
// and sums the results, unclipped, in float64.
func directRender(rec *Recording, content [][]float32, frames int) (left, right []float64) {
	left = make([]float64, frames)
	right = make([]float64, frames)
	for c, x := range content {
		hl, hr := expectedEars(rec, c)
		cl := testutil.ConvolveDirect(x, hl)
		cr := testutil.ConvolveDirect(x, hr)
		for i := range frames {
			left[i] += cl[i]
			right[i] += cr[i]
		}
	}
	return left, right
}
