// Package host adapts a raw filter to audio hosts that call back with a
// fixed period shorter than the filter's block, such as JACK or PipeWire
// clients.
package host

import (
	"errors"
	"fmt"

	surround "github.com/tphakala/go-virtual-surround"
	"github.com/tphakala/go-virtual-surround/internal/simdops"
	"github.com/tphakala/go-virtual-surround/internal/window"
)

// ErrInvalidPeriod indicates a host period that does not divide the
// filter's block size.
var ErrInvalidPeriod = errors.New("invalid host period")

var ops = simdops.Float32Ops()

// Adapter buffers host periods into filter windows. Each Process call
// takes one period per input channel and writes one period of stereo
// output. The filter runs once every BlockSize()/period calls and its
// block is handed out over that call and the following ones, so output
// lags input by BlockSize()-period frames. The first SampleLatency()
// frames after a reset only fill the window and are never heard.
//
// Adapter does not allocate after construction and is not safe for
// concurrent use.
type Adapter struct {
	filter *surround.RawFilter
	period int

	ring  *window.Ring
	views [][]float32

	// Most recent block and the read position in it.
	left, right []float32
	pos         int
}

// NewAdapter wraps filter for a host period of period frames.
func NewAdapter(filter *surround.RawFilter, period int) (*Adapter, error) {
	a := &Adapter{
		filter: filter,
		ring:   window.New(filter.Channels(), filter.SamplesRequired()),
		views:  make([][]float32, 0, filter.Channels()),
		left:   make([]float32, filter.BlockSize()),
		right:  make([]float32, filter.BlockSize()),
	}
	if err := a.SetPeriod(period); err != nil {
		return nil, err
	}
	return a, nil
}

// SetPeriod changes the host period and discards all buffered audio.
func (a *Adapter) SetPeriod(period int) error {
	block := a.filter.BlockSize()
	if period <= 0 || period > block || block%period != 0 {
		return fmt.Errorf("%w: period %d must divide the block size %d", ErrInvalidPeriod, period, block)
	}
	a.period = period
	a.Reset()
	return nil
}

// Period returns the host period in frames.
func (a *Adapter) Period() int {
	return a.period
}

// Latency returns the delay between input and output in frames.
func (a *Adapter) Latency() int {
	return a.filter.BlockSize() - a.period
}

// InputNames returns one port name per filter channel, "input_" followed
// by the channel's short position name.
func (a *Adapter) InputNames() []string {
	positions := a.filter.Positions()
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = "input_" + p.ShortName()
	}
	return names
}

// OutputNames returns the port names of the left and right outputs.
func (a *Adapter) OutputNames() [2]string {
	return [2]string{"output_FL", "output_FR"}
}

// Reset discards buffered input and pending output.
func (a *Adapter) Reset() {
	a.ring.Reset()
	clear(a.left)
	clear(a.right)
	a.pos = len(a.left)
}

// Process consumes one period per input channel and overwrites left and
// right with one period of output clipped to [-1, 1]. Until the first
// window is complete the output is silence.
func (a *Adapter) Process(inputs [][]float32, left, right []float32) error {
	if len(inputs) != a.filter.Channels() {
		return fmt.Errorf("%w: got %d input channels, filter has %d",
			surround.ErrLengthMismatch, len(inputs), a.filter.Channels())
	}
	for c, in := range inputs {
		if len(in) != a.period {
			return fmt.Errorf("%w: input %d has %d frames, period is %d",
				surround.ErrLengthMismatch, c, len(in), a.period)
		}
	}
	if len(left) != a.period || len(right) != a.period {
		return fmt.Errorf("%w: outputs have %d and %d frames, period is %d",
			surround.ErrLengthMismatch, len(left), len(right), a.period)
	}

	a.ring.WritePlanar(inputs)
	if a.ring.Full() {
		if err := a.transform(); err != nil {
			return err
		}
	}

	if a.pos >= len(a.left) {
		clear(left)
		clear(right)
		return nil
	}
	copy(left, a.left[a.pos:a.pos+a.period])
	copy(right, a.right[a.pos:a.pos+a.period])
	a.pos += a.period
	return nil
}

func (a *Adapter) transform() error {
	clear(a.left)
	clear(a.right)
	a.views = a.ring.Views(a.views)
	if err := a.filter.Transform(a.views, a.left, a.right); err != nil {
		// Drop the block so the window keeps moving.
		a.ring.Discard(a.filter.BlockSize())
		a.pos = len(a.left)
		return err
	}
	ops.Clamp(a.left, -1, 1)
	ops.Clamp(a.right, -1, 1)
	a.ring.Discard(a.filter.BlockSize())
	a.pos = 0
	return nil
}
