// Package testutil provides reusable test helpers for float32 audio buffers.
package testutil

import (
	"fmt"
	"math"

	"github.com/stretchr/testify/assert"
)

// TestingT is the subset of *testing.T the assertions use.
type TestingT interface {
	assert.TestingT
	Helper()
}

// Default tolerances for various test scenarios.
const (
	// Float64Tolerance fits results computed in float64 and stored as float32.
	Float64Tolerance = 1e-6

	// Float32Tolerance fits results computed entirely in float32.
	Float32Tolerance = 1e-4
)

// AssertSamplesInDelta verifies two buffers have the same length and agree
// sample by sample within tolerance. Only the first mismatch is reported.
func AssertSamplesInDelta(t TestingT, expected, actual []float32, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if math.Abs(float64(expected[i])-float64(actual[i])) > tolerance {
			return assert.Fail(t, fmt.Sprintf("sample %d: expected %g, got %g (tolerance %g)",
				i, expected[i], actual[i], tolerance), msgAndArgs...)
		}
	}
	return true
}

// AssertSilent verifies every sample is exactly zero.
func AssertSilent(t TestingT, s []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, fmt.Sprintf("expected silence, s[%d]=%g", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t TestingT, s []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, fmt.Sprintf("s[%d] is NaN", i), msgAndArgs...)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, fmt.Sprintf("s[%d] is Inf", i), msgAndArgs...)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t TestingT, s []float32, minVal, maxVal float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, fmt.Sprintf("s[%d]=%f is outside range [%f, %f]",
				i, v, minVal, maxVal), msgAndArgs...)
		}
	}
	return true
}

// Interleave combines planar channels into one interleaved buffer.
func Interleave(planar ...[]float32) []float32 {
	if len(planar) == 0 {
		return nil
	}
	frames := len(planar[0])
	out := make([]float32, frames*len(planar))
	for c, ch := range planar {
		for f, v := range ch[:frames] {
			out[f*len(planar)+c] = v
		}
	}
	return out
}

// Deinterleave splits an interleaved buffer into channels planar slices.
func Deinterleave(interleaved []float32, channels int) [][]float32 {
	frames := len(interleaved) / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
		for f := range frames {
			out[c][f] = interleaved[f*channels+c]
		}
	}
	return out
}

// Noise returns n deterministic pseudo-random samples in [-amp, amp].
func Noise(n int, seed uint32, amp float32) []float32 {
	out := make([]float32, n)
	state := seed | 1
	for i := range out {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		out[i] = amp * (float32(state)/float32(math.MaxUint32)*2 - 1)
	}
	return out
}

// ConvolveDirect returns the full linear convolution of signal and kernel
// computed in float64.
func ConvolveDirect(signal, kernel []float32) []float64 {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil
	}
	out := make([]float64, len(signal)+len(kernel)-1)
	for i, s := range signal {
		for j, k := range kernel {
			out[i+j] += float64(s) * float64(k)
		}
	}
	return out
}
