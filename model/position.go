package model

import (
	"errors"
	"fmt"
	"math"
)

// RoomSize is the edge length of a room. Valid coordinates are 0..RoomSize-1.
const RoomSize = 50

// Unreachable is the range reported between positions in different rooms.
const Unreachable = math.MaxInt32

// ErrInvalidPosition is returned by ParsePosition for records that cannot
// be turned into a canonical Position.
var ErrInvalidPosition = errors.New("invalid position")

// Position is the canonical map coordinate used everywhere inside the core.
type Position struct {
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	Room string `json:"room" yaml:"room"`
}

// RawPosition is a position as it arrives from the mod or a scenario file.
// Coordinates are floats so malformed values (NaN, fractions) can be detected.
type RawPosition struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Room string  `json:"room" yaml:"room"`
}

// ParsePosition is the single conversion from external records to Position.
func ParsePosition(raw RawPosition) (Position, error) {
	if raw.Room == "" {
		return Position{}, fmt.Errorf("%w: missing room", ErrInvalidPosition)
	}
	for _, v := range []float64{raw.X, raw.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Position{}, fmt.Errorf("%w: non-finite coordinate in %s", ErrInvalidPosition, raw.Room)
		}
		if v != math.Trunc(v) || v < 0 || v >= RoomSize {
			return Position{}, fmt.Errorf("%w: coordinate %v out of room %s", ErrInvalidPosition, v, raw.Room)
		}
	}
	return Position{X: int(raw.X), Y: int(raw.Y), Room: raw.Room}, nil
}

// Raw converts back to the wire form.
func (p Position) Raw() RawPosition {
	return RawPosition{X: float64(p.X), Y: float64(p.Y), Room: p.Room}
}

// RangeTo returns the Chebyshev distance to q, or Unreachable when the
// positions are in different rooms.
func (p Position) RangeTo(q Position) int {
	if p.Room != q.Room {
		return Unreachable
	}
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// InRangeTo reports whether q is within r of p in the same room.
func (p Position) InRangeTo(q Position, r int) bool {
	return p.Room == q.Room && p.RangeTo(q) <= r
}

// Equal is true for identical coordinates in the same room.
func (p Position) Equal(q Position) bool {
	return p.Room == q.Room && p.X == q.X && p.Y == q.Y
}

func (p Position) String() string {
	return fmt.Sprintf("[%s %d,%d]", p.Room, p.X, p.Y)
}

// RoomCenter is the default reference point for a room with no explicit center.
func RoomCenter(room string) Position {
	return Position{X: RoomSize / 2, Y: RoomSize / 2, Room: room}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
