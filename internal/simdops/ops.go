// Package simdops provides the vector kernels of the convolution path for
// float32 and float64 samples, backed by github.com/tphakala/simd.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides the vector operations for type F.
type Ops[F Float] struct {
	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Abs computes dst[i] = |a[i]|.
	Abs func(dst, a []F)

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)

	// Accumulate adds src into dst element-wise.
	Accumulate func(dst, src []F)

	// AccumulateScaled adds src*s into dst element-wise.
	AccumulateScaled func(dst, src []F, s F)

	// Clamp limits every element of a to [lo, hi] in place.
	Clamp func(a []F, lo, hi F)

	// Deinterleave copies channel c of an interleaved buffer into dst.
	Deinterleave func(dst, interleaved []F, channel, channels int)
}

var (
	ops32 = Ops[float32]{
		Interleave2: f32.Interleave2,
		Sum:         f32.Sum,
		Abs:         f32.Abs,
		Scale:       f32.Scale,
		Accumulate: func(dst, src []float32) {
			f32.Add(dst, dst, src[:len(dst)])
		},
		AccumulateScaled: func(dst, src []float32, s float32) {
			f32.AddScaled(dst, s, src[:len(dst)])
		},
		Clamp: func(a []float32, lo, hi float32) {
			f32.Clamp(a, a, lo, hi)
		},
		Deinterleave: deinterleave[float32],
	}
	ops64 = Ops[float64]{
		Interleave2: f64.Interleave2,
		Sum:         f64.Sum,
		Abs:         f64.Abs,
		Scale:       f64.Scale,
		Accumulate: func(dst, src []float64) {
			f64.Add(dst, dst, src[:len(dst)])
		},
		AccumulateScaled: func(dst, src []float64, s float64) {
			f64.AddScaled(dst, s, src[:len(dst)])
		},
		Clamp: func(a []float64, lo, hi float64) {
			f64.Clamp(a, a, lo, hi)
		},
		Deinterleave: deinterleave[float64],
	}
)

// Float32Ops returns the float32 operations.
func Float32Ops() *Ops[float32] {
	return &ops32
}

// Float64Ops returns the float64 operations.
func Float64Ops() *Ops[float64] {
	return &ops64
}

// deinterleave gathers one channel of any channel count; simd only
// provides the two channel case.
func deinterleave[F Float](dst, interleaved []F, channel, channels int) {
	for i := range dst {
		dst[i] = interleaved[i*channels+channel]
	}
}
