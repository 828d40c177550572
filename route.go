package surround

import "fmt"

// Routing maps the channels of a content stream onto the channel layout
// of a filter by position. Filter channels without a matching content
// channel receive silence; content channels without a filter channel are
// dropped and reported by Unrouted.
type Routing struct {
	source   []int // content channel per filter channel, -1 for silence
	srcCount int
	unrouted []Position
}

// NewRouting builds the routing from content positions src to dst. When a
// position repeats, occurrences are paired in order.
func NewRouting(src []Position, dst ChannelMap) (*Routing, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: content has no channels", ErrInvalidConfig)
	}
	used := make([]bool, len(src))
	source := make([]int, dst.Len())
	for i := range source {
		source[i] = -1
		for j, p := range src {
			if !used[j] && p == dst.At(i) {
				used[j] = true
				source[i] = j
				break
			}
		}
	}

	var unrouted []Position
	for j, ok := range used {
		if !ok {
			unrouted = append(unrouted, src[j])
		}
	}
	return &Routing{source: source, srcCount: len(src), unrouted: unrouted}, nil
}

// Apply copies frames interleaved frames from src (content layout) to dst
// (filter layout).
func (r *Routing) Apply(dst, src []float32, frames int) error {
	dstCount := len(r.source)
	if len(src) < frames*r.srcCount || len(dst) < frames*dstCount {
		return fmt.Errorf("%w: %d frames need %d source and %d destination samples, have %d and %d",
			ErrLengthMismatch, frames, frames*r.srcCount, frames*dstCount, len(src), len(dst))
	}
	for f := range frames {
		in := src[f*r.srcCount : (f+1)*r.srcCount]
		out := dst[f*dstCount : (f+1)*dstCount]
		for i, j := range r.source {
			if j < 0 {
				out[i] = 0
			} else {
				out[i] = in[j]
			}
		}
	}
	return nil
}

// Identity reports whether Apply is a plain copy.
func (r *Routing) Identity() bool {
	if len(r.source) != r.srcCount {
		return false
	}
	for i, j := range r.source {
		if i != j {
			return false
		}
	}
	return true
}

// Unrouted returns the content positions that have no filter channel.
func (r *Routing) Unrouted() []Position {
	return append([]Position(nil), r.unrouted...)
}

// SourceChannels returns the content channel count.
func (r *Routing) SourceChannels() int {
	return r.srcCount
}

// Channels returns the filter channel count.
func (r *Routing) Channels() int {
	return len(r.source)
}
