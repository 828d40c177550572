package surround

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-virtual-surround/internal/testutil"
)

func TestRawFilterGeometry(t *testing.T) {
	f, err := NewRawFilter(testRecording(stereoPositions(), 8, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 1024, f.SamplesRequired())
	assert.Equal(t, 512, f.BlockSize())
	assert.Equal(t, 512, f.SampleLatency())
	assert.Equal(t, 48000, f.SampleRate())
	assert.Equal(t, 2, f.Channels())
	assert.Equal(t, stereoPositions(), f.Positions())
	assert.Equal(t, 2, f.ChannelMap().Len())
	assert.Equal(t, 512*time.Second/48000, f.LatencyDuration())
}

func TestRawFilterBlockSize(t *testing.T) {
	f, err := NewRawFilter(testRecording(stereoPositions(), 100, 1), &Config{BlockSize: 128})
	require.NoError(t, err)
	assert.Equal(t, 256, f.SamplesRequired())
	assert.Equal(t, 128, f.BlockSize())
	assert.Equal(t, 128, f.SampleLatency())
}

func TestRawFilterImpulseRecovery(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			rec := testRecording(surround51(), 64, 21)
			f, err := NewRawFilter(rec, &Config{Backend: backend, BlockSize: 128})
			require.NoError(t, err)

			for c := range rec.Channels() {
				input := make([][]float32, f.Channels())
				for i := range input {
					input[i] = make([]float32, f.SamplesRequired())
				}
				input[c][f.SamplesRequired()-f.BlockSize()] = 1

				left := make([]float32, f.BlockSize())
				right := make([]float32, f.BlockSize())
				require.NoError(t, f.Transform(input, left, right))

				wantL, wantR := expectedEars(rec, c)
				testutil.AssertSamplesInDelta(t, wantL, left[:64], testutil.Float32Tolerance, "channel %d left", c)
				testutil.AssertSamplesInDelta(t, wantR, right[:64], testutil.Float32Tolerance, "channel %d right", c)
				for j := 64; j < f.BlockSize(); j++ {
					assert.InDelta(t, 0, left[j], testutil.Float32Tolerance)
					assert.InDelta(t, 0, right[j], testutil.Float32Tolerance)
				}
			}
		})
	}
}

func TestRawFilterLinearity(t *testing.T) {
	rec := testRecording(surround51(), 40, 2)
	f, err := NewRawFilter(rec, &Config{BlockSize: 64})
	require.NoError(t, err)

	windows := func(seed uint32) [][]float32 {
		w := make([][]float32, f.Channels())
		for c := range w {
			w[c] = testutil.Noise(f.SamplesRequired(), seed+uint32(c), 0.3)
		}
		return w
	}
	a, b := windows(100), windows(200)
	sum := make([][]float32, len(a))
	for c := range a {
		sum[c] = make([]float32, len(a[c]))
		for i := range a[c] {
			sum[c][i] = a[c][i] + b[c][i]
		}
	}

	// Transform adds, so running a and b into the same buffers is a + b.
	left := make([]float32, f.BlockSize())
	right := make([]float32, f.BlockSize())
	require.NoError(t, f.Transform(a, left, right))
	require.NoError(t, f.Transform(b, left, right))

	sumLeft := make([]float32, f.BlockSize())
	sumRight := make([]float32, f.BlockSize())
	require.NoError(t, f.Transform(sum, sumLeft, sumRight))

	testutil.AssertSamplesInDelta(t, sumLeft, left, testutil.Float64Tolerance)
	testutil.AssertSamplesInDelta(t, sumRight, right, testutil.Float64Tolerance)
}

func TestRawFilterHomogeneity(t *testing.T) {
	const k = -3
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			f, err := NewRawFilter(testRecording(surround51(), 40, 6), &Config{Backend: backend, BlockSize: 64})
			require.NoError(t, err)

			x := make([][]float32, f.Channels())
			kx := make([][]float32, f.Channels())
			for c := range x {
				x[c] = testutil.Noise(f.SamplesRequired(), 300+uint32(c), 0.2)
				kx[c] = make([]float32, len(x[c]))
				for i, v := range x[c] {
					kx[c][i] = k * v
				}
			}

			left := make([]float32, f.BlockSize())
			right := make([]float32, f.BlockSize())
			require.NoError(t, f.Transform(x, left, right))
			for i := range left {
				left[i] *= k
				right[i] *= k
			}

			scaledLeft := make([]float32, f.BlockSize())
			scaledRight := make([]float32, f.BlockSize())
			require.NoError(t, f.Transform(kx, scaledLeft, scaledRight))

			testutil.AssertSamplesInDelta(t, left, scaledLeft, 1e-5, "left ear")
			testutil.AssertSamplesInDelta(t, right, scaledRight, 1e-5, "right ear")
		})
	}
}

func TestRawFilterZeroInZeroOut(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.String(), func(t *testing.T) {
			f, err := NewRawFilter(testRecording(surround51(), 32, 4), &Config{Backend: backend})
			require.NoError(t, err)

			input := make([][]float32, f.Channels())
			for c := range input {
				input[c] = make([]float32, f.SamplesRequired())
			}
			left := make([]float32, f.BlockSize())
			right := make([]float32, f.BlockSize())
			require.NoError(t, f.Transform(input, left, right))
			testutil.AssertSilent(t, left)
			testutil.AssertSilent(t, right)
		})
	}
}

func TestRawFilterBackendsAgree(t *testing.T) {
	rec := testRecording(surround51(), 200, 9)
	input := make([][]float32, 6)
	outputs := make([][2][]float32, len(backends))
	for i, backend := range backends {
		f, err := NewRawFilter(rec, &Config{Backend: backend})
		require.NoError(t, err)
		for c := range input {
			input[c] = testutil.Noise(f.SamplesRequired(), uint32(c+1), 0.5)
		}
		outputs[i][0] = make([]float32, f.BlockSize())
		outputs[i][1] = make([]float32, f.BlockSize())
		require.NoError(t, f.Transform(input, outputs[i][0], outputs[i][1]))
	}
	testutil.AssertSamplesInDelta(t, outputs[0][0], outputs[1][0], testutil.Float32Tolerance)
	testutil.AssertSamplesInDelta(t, outputs[0][1], outputs[1][1], testutil.Float32Tolerance)
}

func TestRawFilterFailureLeavesOutput(t *testing.T) {
	engine := &failingEngine{failOn: 1, fail: true}
	f, err := NewRawFilter(testRecording(stereoPositions(), 8, 1), &Config{Engine: failingFactory(engine)})
	require.NoError(t, err)

	input := [][]float32{make([]float32, 1024), make([]float32, 1024)}
	left := make([]float32, 512)
	right := make([]float32, 512)
	left[3] = 0.25

	err = f.Transform(input, left, right)
	require.ErrorIs(t, err, ErrTransformBackend)
	require.ErrorIs(t, err, errEngineFailed)
	assert.Equal(t, float32(0.25), left[3])
	testutil.AssertSilent(t, right)

	engine.fail = false
	require.NoError(t, f.Transform(input, left, right))
	assert.Equal(t, float32(2.25), left[3])
	assert.Equal(t, float32(2), right[0])
}

func TestRawFilterLengthErrors(t *testing.T) {
	f, err := NewRawFilter(testRecording(stereoPositions(), 8, 1), nil)
	require.NoError(t, err)

	good := func() [][]float32 { return [][]float32{make([]float32, 1024), make([]float32, 1024)} }
	out := make([]float32, 512)
	tests := []struct {
		name        string
		input       [][]float32
		left, right []float32
	}{
		{"missing channel", good()[:1], out, out},
		{"extra channel", append(good(), make([]float32, 1024)), out, out},
		{"short window", [][]float32{make([]float32, 1024), make([]float32, 1000)}, out, out},
		{"short left", good(), out[:10], out},
		{"long right", good(), out, make([]float32, 513)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.Transform(tt.input, tt.left, tt.right), ErrLengthMismatch)
		})
	}
}

func BenchmarkRawFilter51(b *testing.B) {
	rec := testRecording(surround51(), 1024, 1)
	f, err := NewRawFilter(rec, nil)
	require.NoError(b, err)

	input := make([][]float32, f.Channels())
	for c := range input {
		input[c] = testutil.Noise(f.SamplesRequired(), uint32(c), 0.5)
	}
	left := make([]float32, f.BlockSize())
	right := make([]float32, f.BlockSize())

	b.ReportAllocs()
	for b.Loop() {
		_ = f.Transform(input, left, right)
	}
}
