package surround

import (
	"fmt"
	"strings"
)

// ChannelMap is the ordered channel layout of a filter. The index of a
// position is its place in the map; duplicates are kept and Find returns
// the first match. A ChannelMap is immutable once built.
type ChannelMap struct {
	positions []Position
}

// NewChannelMap builds a ChannelMap from positions in channel order.
func NewChannelMap(positions []Position) (ChannelMap, error) {
	if len(positions) > MaxChannels {
		return ChannelMap{}, fmt.Errorf("%w: %d channels, max %d", ErrTooManyChannels, len(positions), MaxChannels)
	}
	return ChannelMap{positions: append([]Position(nil), positions...)}, nil
}

// Len returns the number of channels.
func (m ChannelMap) Len() int {
	return len(m.positions)
}

// At returns the position of channel i.
func (m ChannelMap) At(i int) Position {
	return m.positions[i]
}

// Positions returns a copy of the layout.
func (m ChannelMap) Positions() []Position {
	return append([]Position(nil), m.positions...)
}

// Find returns the index of the first channel at position p.
func (m ChannelMap) Find(p Position) (int, bool) {
	for i, q := range m.positions {
		if q == p {
			return i, true
		}
	}
	return -1, false
}

// FindMirror returns the index of the first channel at p's mirror.
func (m ChannelMap) FindMirror(p Position) (int, bool) {
	return m.Find(p.Mirror())
}

func (m ChannelMap) String() string {
	names := make([]string, len(m.positions))
	for i, p := range m.positions {
		names[i] = p.ShortName()
	}
	return fmt.Sprintf("ChannelMap{channels: %d, map: [%s]}", len(m.positions), strings.Join(names, " "))
}
