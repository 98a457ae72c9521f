package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Coord represents a tile coordinate on the grid.
// X grows to the south-east and Y to the south-west once projected.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Key returns the canonical "x,y" form of the coordinate.
func (c Coord) Key() Key {
	return Key(strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y))
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Adjacent reports whether other is one of the 4 cardinal neighbours of c.
func (c Coord) Adjacent(other Coord) bool {
	return c.Manhattan(other) == 1
}

// Neighbors returns the 4 cardinal neighbours in N, E, S, W order.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{c.Add(0, -1), c.Add(1, 0), c.Add(0, 1), c.Add(-1, 0)}
}

// Key is the canonical "x,y" string identity of a tile.
type Key string

// ErrBadKey is returned when a key is not of the form "x,y".
var ErrBadKey = errors.New("malformed tile key")

// ParseKey converts a "x,y" key back into a coordinate.
func ParseKey(k Key) (Coord, error) {
	xs, ys, ok := strings.Cut(string(k), ",")
	if !ok {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, k)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, k)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadKey, k)
	}
	return C(x, y), nil
}

// CoordSet is an unordered set of coordinates.
type CoordSet map[Coord]struct{}

// Add inserts c into the set.
func (s CoordSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Has reports whether c is in the set.
func (s CoordSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of coordinates in the set.
func (s CoordSet) Len() int {
	return len(s)
}
