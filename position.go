package surround

import (
	"fmt"
	"strings"
)

// Position is a physical speaker position. The values follow the bit order
// of the WAVE_FORMAT_EXTENSIBLE channel mask, so Position(n) corresponds
// to mask bit 1<<n.
type Position uint8

const (
	PositionFrontLeft Position = iota
	PositionFrontRight
	PositionFrontCenter
	PositionLowFrequency
	PositionBackLeft
	PositionBackRight
	PositionFrontLeftOfCenter
	PositionFrontRightOfCenter
	PositionBackCenter
	PositionSideLeft
	PositionSideRight
	PositionTopCenter
	PositionTopFrontLeft
	PositionTopFrontCenter
	PositionTopFrontRight
	PositionTopBackLeft
	PositionTopBackCenter
	PositionTopBackRight

	// PositionDirectOut marks a channel that is not bound to a speaker.
	PositionDirectOut

	numPositions = int(PositionDirectOut) + 1
)

// positionInfo holds the names and mirror of one position.
type positionInfo struct {
	short  string
	long   string
	mirror Position
}

var positionTable = [numPositions]positionInfo{
	PositionFrontLeft:          {"FL", "front-left", PositionFrontRight},
	PositionFrontRight:         {"FR", "front-right", PositionFrontLeft},
	PositionFrontCenter:        {"FC", "front-center", PositionFrontCenter},
	PositionLowFrequency:       {"LFE", "low-frequency", PositionLowFrequency},
	PositionBackLeft:           {"RL", "back-left", PositionBackRight},
	PositionBackRight:          {"RR", "back-right", PositionBackLeft},
	PositionFrontLeftOfCenter:  {"FLC", "front-left-of-center", PositionFrontRightOfCenter},
	PositionFrontRightOfCenter: {"FRC", "front-right-of-center", PositionFrontLeftOfCenter},
	PositionBackCenter:         {"RC", "back-center", PositionBackCenter},
	PositionSideLeft:           {"SL", "side-left", PositionSideRight},
	PositionSideRight:          {"SR", "side-right", PositionSideLeft},
	PositionTopCenter:          {"TC", "top-center", PositionTopCenter},
	PositionTopFrontLeft:       {"TFL", "top-front-left", PositionTopFrontRight},
	PositionTopFrontCenter:     {"TFC", "top-front-center", PositionTopFrontCenter},
	PositionTopFrontRight:      {"TFR", "top-front-right", PositionTopFrontLeft},
	PositionTopBackLeft:        {"TRL", "top-back-left", PositionTopBackRight},
	PositionTopBackCenter:      {"TRC", "top-back-center", PositionTopBackCenter},
	PositionTopBackRight:       {"TRR", "top-back-right", PositionTopBackLeft},
	PositionDirectOut:          {"NA", "direct-out", PositionDirectOut},
}

// Positions returns every speaker position in mask order, excluding
// PositionDirectOut.
func Positions() []Position {
	out := make([]Position, 0, numPositions-1)
	for p := range Position(numPositions - 1) {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	return int(p) < numPositions
}

// Mirror returns the left/right reflection of p. Center-line positions
// return themselves, and Mirror(Mirror(p)) == p for every position.
func (p Position) Mirror() Position {
	if !p.Valid() {
		return p
	}
	return positionTable[p].mirror
}

// IsCenter reports whether p lies on the center line.
func (p Position) IsCenter() bool {
	return p.Mirror() == p
}

// ShortName returns the abbreviation used for port and channel names
// (FL, FR, FC, LFE, ...).
func (p Position) ShortName() string {
	if !p.Valid() {
		return "NA"
	}
	return positionTable[p].short
}

// String returns the long name of p, for example "front-left".
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("position(%d)", uint8(p))
	}
	return positionTable[p].long
}

// Mask returns the WAVE channel mask bit of p, or 0 for PositionDirectOut.
func (p Position) Mask() uint32 {
	if p >= PositionDirectOut {
		return 0
	}
	return 1 << p
}

// ParsePosition accepts a short name ("FL") or a long name ("front-left"),
// case-insensitively.
func ParsePosition(name string) (Position, error) {
	n := strings.TrimSpace(name)
	for i, info := range positionTable {
		if strings.EqualFold(n, info.short) || strings.EqualFold(n, info.long) {
			return Position(i), nil
		}
	}
	return PositionDirectOut, fmt.Errorf("%w: unknown channel position %q", ErrInvalidConfig, name)
}

// PositionsFromMask expands a WAVE channel mask into the positions of
// channels in file order. Channels beyond the set mask bits are
// PositionDirectOut. A zero mask yields DefaultPositions(channels).
func PositionsFromMask(mask uint32, channels int) []Position {
	if mask == 0 {
		return DefaultPositions(channels)
	}
	out := make([]Position, 0, channels)
	for p := PositionFrontLeft; p < PositionDirectOut && len(out) < channels; p++ {
		if mask&p.Mask() != 0 {
			out = append(out, p)
		}
	}
	for len(out) < channels {
		out = append(out, PositionDirectOut)
	}
	return out
}

// MaskFromPositions is the inverse of PositionsFromMask for layouts in
// mask order.
func MaskFromPositions(positions []Position) uint32 {
	var mask uint32
	for _, p := range positions {
		mask |= p.Mask()
	}
	return mask
}

// defaultLayouts follow the WAVE default channel ordering.
var defaultLayouts = map[int][]Position{
	1: {PositionFrontCenter},
	2: {PositionFrontLeft, PositionFrontRight},
	3: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter},
	4: {PositionFrontLeft, PositionFrontRight, PositionBackLeft, PositionBackRight},
	5: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionBackLeft, PositionBackRight},
	6: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLowFrequency, PositionBackLeft, PositionBackRight},
	7: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLowFrequency, PositionBackCenter, PositionSideLeft, PositionSideRight},
	8: {PositionFrontLeft, PositionFrontRight, PositionFrontCenter, PositionLowFrequency, PositionBackLeft, PositionBackRight, PositionSideLeft, PositionSideRight},
}

// vorbisLayouts follow the Vorbis I channel ordering.
var vorbisLayouts = map[int][]Position{
	1: {PositionFrontCenter},
	2: {PositionFrontLeft, PositionFrontRight},
	3: {PositionFrontLeft, PositionFrontCenter, PositionFrontRight},
	4: {PositionFrontLeft, PositionFrontRight, PositionBackLeft, PositionBackRight},
	5: {PositionFrontLeft, PositionFrontCenter, PositionFrontRight, PositionBackLeft, PositionBackRight},
	6: {PositionFrontLeft, PositionFrontCenter, PositionFrontRight, PositionBackLeft, PositionBackRight, PositionLowFrequency},
	7: {PositionFrontLeft, PositionFrontCenter, PositionFrontRight, PositionSideLeft, PositionSideRight, PositionBackCenter, PositionLowFrequency},
	8: {PositionFrontLeft, PositionFrontCenter, PositionFrontRight, PositionSideLeft, PositionSideRight, PositionBackLeft, PositionBackRight, PositionLowFrequency},
}

// DefaultPositions returns the WAVE default layout for a channel count.
// Counts without a default layout take positions in mask order.
func DefaultPositions(channels int) []Position {
	return layoutFor(defaultLayouts, channels)
}

// VorbisPositions returns the Vorbis I layout for a channel count.
func VorbisPositions(channels int) []Position {
	return layoutFor(vorbisLayouts, channels)
}

func layoutFor(layouts map[int][]Position, channels int) []Position {
	if channels <= 0 {
		return nil
	}
	if layout, ok := layouts[channels]; ok {
		return append([]Position(nil), layout...)
	}
	out := make([]Position, channels)
	for i := range out {
		if i < numPositions-1 {
			out[i] = Position(i)
		} else {
			out[i] = PositionDirectOut
		}
	}
	return out
}
