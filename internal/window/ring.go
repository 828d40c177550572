// Package window implements the per-channel sample history of the
// streaming filters.
package window

// Ring is a lockstep multichannel ring buffer of fixed capacity. All
// channels share one head and fill count.
//
// Storage is mirrored: every sample is written at index i and i+capacity
// of a 2*capacity slice, so the buffered frames of a channel are always
// available as one contiguous oldest-to-newest slice without copying.
//
// Ring is not safe for concurrent use.
type Ring struct {
	data     [][]float32
	capacity int
	head     int // index of the oldest frame
	size     int // buffered frames
}

// New creates a ring for channels channels of capacity frames each.
func New(channels, capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, 2*capacity)
	}
	return &Ring{data: data, capacity: capacity}
}

// Channels returns the channel count.
func (r *Ring) Channels() int {
	return len(r.data)
}

// Cap returns the capacity in frames.
func (r *Ring) Cap() int {
	return r.capacity
}

// Len returns the number of buffered frames.
func (r *Ring) Len() int {
	return r.size
}

// Free returns the number of frames that can be written without dropping.
func (r *Ring) Free() int {
	return r.capacity - r.size
}

// Full reports whether the ring holds Cap frames.
func (r *Ring) Full() bool {
	return r.size == r.capacity
}

// MakeRoom drops the oldest frames so that frames more can be written.
// It returns the number of frames dropped.
func (r *Ring) MakeRoom(frames int) int {
	excess := r.size + frames - r.capacity
	if excess <= 0 {
		return 0
	}
	excess = min(excess, r.size)
	r.Discard(excess)
	return excess
}

// Write appends interleaved frames, one sample per channel per frame,
// dropping the oldest frames on overflow. A trailing partial frame is
// ignored. It returns the number of frames dropped.
func (r *Ring) Write(interleaved []float32) int {
	channels := len(r.data)
	if channels == 0 {
		return 0
	}
	frames := len(interleaved) / channels
	if frames > r.capacity {
		interleaved = interleaved[(frames-r.capacity)*channels:]
		frames = r.capacity
	}
	dropped := r.MakeRoom(frames)

	w := (r.head + r.size) % r.capacity
	for f := range frames {
		frame := interleaved[f*channels : (f+1)*channels]
		for c, v := range frame {
			r.data[c][w] = v
			r.data[c][w+r.capacity] = v
		}
		w++
		if w == r.capacity {
			w = 0
		}
	}
	r.size += frames
	return dropped
}

// WritePlanar appends one slice per channel; all slices must have the
// same length. It returns the number of frames dropped.
func (r *Ring) WritePlanar(planar [][]float32) int {
	if len(planar) == 0 || len(r.data) == 0 {
		return 0
	}
	frames := len(planar[0])
	skip := 0
	if frames > r.capacity {
		skip = frames - r.capacity
		frames = r.capacity
	}
	dropped := r.MakeRoom(frames)

	w := (r.head + r.size) % r.capacity
	for c, src := range planar[:len(r.data)] {
		src = src[skip : skip+frames]
		dst := r.data[c]
		// Two copies per half: up to the wrap point and after it.
		n := copy(dst[w:r.capacity], src)
		copy(dst[w+r.capacity:], src[:n])
		copy(dst, src[n:])
		copy(dst[r.capacity:], src[n:])
	}
	r.size += frames
	return dropped
}

// WriteSilence appends frames of zeros. It returns the number of frames
// dropped.
func (r *Ring) WriteSilence(frames int) int {
	frames = min(max(frames, 0), r.capacity)
	dropped := r.MakeRoom(frames)

	w := (r.head + r.size) % r.capacity
	for _, dst := range r.data {
		n := min(frames, r.capacity-w)
		clear(dst[w : w+n])
		clear(dst[w+r.capacity : w+r.capacity+n])
		clear(dst[:frames-n])
		clear(dst[r.capacity : r.capacity+frames-n])
	}
	r.size += frames
	return dropped
}

// Discard drops up to frames of the oldest frames.
func (r *Ring) Discard(frames int) {
	frames = min(max(frames, 0), r.size)
	r.head = (r.head + frames) % r.capacity
	r.size -= frames
}

// Views sets dst[c] to the buffered frames of channel c, oldest first, and
// returns dst. The slices alias the ring and are valid until the next
// write.
func (r *Ring) Views(dst [][]float32) [][]float32 {
	dst = dst[:0]
	for _, data := range r.data {
		dst = append(dst, data[r.head:r.head+r.size])
	}
	return dst
}

// Reset empties the ring without releasing memory.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
}
