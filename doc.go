// Package surround renders multichannel audio into binaural stereo in pure Go.
//
// Every input channel is convolved with the head-related impulse response
// (HRIR) measured for its speaker position, once per ear, and the results
// are summed into a left and a right output. The convolution runs in the
// frequency domain with overlap-save framing, the same approach as
// PulseAudio's virtual-surround-sink and HeSuVi-style HRIR files.
//
// # Features
//
//   - HRIR preprocessing: symmetry resolution, normalization and FFT planning
//   - Layouts up to 24 channels (5.1, 7.1, 7.1.4, ...)
//   - Pluggable transform engines: gonum (float64) and algo-fft (float32)
//   - SIMD spectral multiply and interleaving via github.com/tphakala/simd
//   - Optional HRIR resampling via github.com/tphakala/go-audio-resampling
//   - Raw API for host-managed windows and a streaming API for chunks of any size
//   - No allocation, locking or logging while processing audio
//
// # Quick Start
//
// Load an HRIR, build a streaming filter and push interleaved audio through
// it:
//
//	rec, err := hrir.Open("hrir.wav")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := surround.NewStreamingFilter(rec, &surround.Config{SampleRate: 48000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out := make([]float32, 2*f.OutputFrames(len(chunk)/f.Channels()))
//	n, err := f.Transform(chunk, out)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	play(out[:2*n])
//
// The filter emits nothing until [StreamingFilter.SamplesRequired] frames are
// buffered; call [StreamingFilter.Prime] first to get output aligned with
// input from the first block.
//
// # Architecture
//
//	HRIR WAV -> Recording -> preprocessing -> Engine (ear spectra)
//	                                              |
//	chunks -> StreamingFilter (window) -> RawFilter -> clip -> stereo
//
// Each channel keeps a window of fft_len frames, the smallest power of two
// that holds the impulse plus one block plus one guard sample. A transform
// multiplies the window spectrum with the left and right ear spectra and
// keeps the last block of each inverse transform. The rest of the window,
// fft_len - block frames, is carried over and is the filter's latency.
//
// The left ear of a channel uses the channel's own impulse; the right ear
// uses the impulse recorded at the mirrored position, so every HRIR must be
// left/right symmetric.
//
// # Thread Safety
//
// Filters are single-threaded. Use one instance per goroutine; calls to
// Transform on the same instance must be serialized.
package surround
