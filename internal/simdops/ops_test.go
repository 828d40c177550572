package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/simd/f32"
)

func TestAccumulate(t *testing.T) {
	dst := []float32{1, 2, 3}
	Float32Ops().Accumulate(dst, []float32{0.5, -2, 1, 99})
	assert.Equal(t, []float32{1.5, 0, 4}, dst, "extra source samples are ignored")

	dst64 := []float64{1, 1}
	Float64Ops().Accumulate(dst64, []float64{0.25, -3, 7})
	assert.Equal(t, []float64{1.25, -2}, dst64)
}

func TestAccumulateScaled(t *testing.T) {
	dst := []float32{1, 1, 1}
	Float32Ops().AccumulateScaled(dst, []float32{2, -4, 8, 100}, 0.5)
	assert.Equal(t, []float32{2, -1, 5}, dst)

	dst64 := []float64{1, 1}
	Float64Ops().AccumulateScaled(dst64, []float64{2, 4}, 0.5)
	assert.Equal(t, []float64{2, 3}, dst64)
}

// Odd lengths exercise the scalar tails after the vector loops.
func TestAccumulateMatchesScalar(t *testing.T) {
	const n = 1031
	src := make([]float32, n)
	dst := make([]float32, n)
	for i := range src {
		src[i] = float32(i%17) * 0.125
		dst[i] = float32(i%5) - 2
	}

	want := make([]float32, n)
	for i := range want {
		want[i] = dst[i] + src[i]*-3
	}
	Float32Ops().AccumulateScaled(dst, src, -3)
	assert.InDeltaSlice(t, want, dst, 1e-5)

	for i := range want {
		want[i] = dst[i] + src[i]
	}
	Float32Ops().Accumulate(dst, src)
	assert.InDeltaSlice(t, want, dst, 1e-5)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{"in range", []float32{-0.5, 0, 0.5}, []float32{-0.5, 0, 0.5}},
		{"above", []float32{1.5, 3}, []float32{1, 1}},
		{"below", []float32{-1.0001, -8}, []float32{-1, -1}},
		{"edges", []float32{-1, 1}, []float32{-1, 1}},
		{"long", []float32{2, -2, 0.5, 9, -9, 0, 1, -1, 3, 0.25}, []float32{1, -1, 0.5, 1, -1, 0, 1, -1, 1, 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Float32Ops().Clamp(tt.in, -1, 1)
			assert.Equal(t, tt.want, tt.in)
		})
	}

	a := []float64{-5, 0.5, 5}
	Float64Ops().Clamp(a, -1, 1)
	assert.Equal(t, []float64{-1, 0.5, 1}, a)
}

func TestAbsSum(t *testing.T) {
	ops := Float32Ops()
	abs := make([]float32, 4)
	ops.Abs(abs, []float32{-0.5, 0.25, -1, 0})
	assert.Equal(t, []float32{0.5, 0.25, 1, 0}, abs)
	assert.InDelta(t, 1.75, ops.Sum(abs), 1e-6)
}

func TestScale64(t *testing.T) {
	a := []float64{1, -2, 4}
	Float64Ops().Scale(a, a, 0.25)
	assert.Equal(t, []float64{0.25, -0.5, 1}, a)
}

func TestDeinterleave(t *testing.T) {
	interleaved := []float32{0, 10, 20, 1, 11, 21, 2, 12, 22}
	dst := make([]float32, 3)
	Float32Ops().Deinterleave(dst, interleaved, 1, 3)
	assert.Equal(t, []float32{10, 11, 12}, dst)
}

func TestInterleave2(t *testing.T) {
	dst := make([]float32, 6)
	Float32Ops().Interleave2(dst, []float32{1, 2, 3}, []float32{-1, -2, -3})
	assert.Equal(t, []float32{1, -1, 2, -2, 3, -3}, dst)
}

// BenchmarkDirectF32Interleave2 measures direct SIMD call overhead.
func BenchmarkDirectF32Interleave2(b *testing.B) {
	left := make([]float32, 512)
	right := make([]float32, 512)
	dst := make([]float32, 1024)

	b.ReportAllocs()
	for b.Loop() {
		f32.Interleave2(dst, left, right)
	}
}

// BenchmarkIndirectF32Interleave2 measures indirect call through Ops struct.
func BenchmarkIndirectF32Interleave2(b *testing.B) {
	ops := Float32Ops()
	left := make([]float32, 512)
	right := make([]float32, 512)
	dst := make([]float32, 1024)

	b.ReportAllocs()
	for b.Loop() {
		ops.Interleave2(dst, left, right)
	}
}

func BenchmarkAccumulateScaled(b *testing.B) {
	ops := Float32Ops()
	dst := make([]float32, 512)
	src := make([]float32, 512)
	for i := range src {
		src[i] = float32(i) * 0.001
	}

	b.ReportAllocs()
	for b.Loop() {
		ops.AccumulateScaled(dst, src, 0.5)
	}
}
