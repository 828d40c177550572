package surround

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBlockSize, cfg.blockSize())
	assert.NotNil(t, cfg.logger())

	e, err := cfg.engineFactory()(1, 64)
	require.NoError(t, err)
	assert.IsType(t, &gonumEngine{}, e)

	cfg.Backend = BackendAlgoFFT
	e, err = cfg.engineFactory()(1, 64)
	require.NoError(t, err)
	assert.IsType(t, &algoFFTEngine{}, e)

	custom := &failingEngine{}
	cfg.Engine = failingFactory(custom)
	e, err = cfg.engineFactory()(1, 64)
	require.NoError(t, err)
	assert.Same(t, custom, e)
}

func TestParseBackend(t *testing.T) {
	for _, b := range backends {
		got, err := ParseBackend(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	got, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, got)

	_, err = ParseBackend("fftw")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseResampleQuality(t *testing.T) {
	for _, q := range []ResampleQuality{ResampleLow, ResampleMedium, ResampleHigh, ResampleVeryHigh} {
		got, err := ParseResampleQuality(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
	_, err := ParseResampleQuality("ultra")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSampleEncodingString(t *testing.T) {
	assert.Equal(t, "PCM", EncodingPCM.String())
	assert.Equal(t, "IEEE float", EncodingIEEEFloat.String())
	assert.Equal(t, "format 0x0055", SampleEncoding(0x55).String())
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat(EncodingIEEEFloat, 32))
	assert.ErrorIs(t, CheckFormat(EncodingIEEEFloat, 64), ErrUnsupportedFormat)
	assert.ErrorIs(t, CheckFormat(EncodingPCM, 32), ErrUnsupportedFormat)
	assert.ErrorIs(t, CheckFormat(EncodingExtensible, 32), ErrUnsupportedFormat)
}
