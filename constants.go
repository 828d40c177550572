package surround

// Channel constants
const (
	// MaxChannels is the largest HRIR layout accepted. The biggest common
	// speaker layout is 22.2, so 24 leaves headroom.
	MaxChannels = 24

	stereoChannels = 2 // Left and right ear outputs
	earsPerChannel = 2 // Left and right impulse per input channel
)

// Frame constants
const (
	// DefaultBlockSize is the number of valid output samples produced per
	// convolution frame when Config.BlockSize is zero.
	DefaultBlockSize = 512

	// guardSamples is added on top of impulse length + block size when
	// planning the FFT so the linear convolution never wraps into the
	// block that is read back.
	guardSamples = 1
)

// Normalization constants
const (
	// normalizationHeadroom divides the peak cross-channel absolute sum of
	// the HRIR. The value matches PulseAudio's virtual-surround-sink.
	normalizationHeadroom = 2.5
)

// Output range
const (
	outputMin = -1.0
	outputMax = 1.0
)

// WAVE format codes used for SampleEncoding.
const (
	waveFormatPCM        = 0x0001
	waveFormatIEEEFloat  = 0x0003
	waveFormatExtensible = 0xFFFE

	float32Bits = 32
)
