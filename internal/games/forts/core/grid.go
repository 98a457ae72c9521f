package core

import (
	"errors"
	"fmt"
)

// Grid is the square fort map.
// Tiles are stored in row-major order: index = y*Size + x, so every
// coordinate in [0,Size)² exists exactly once.
type Grid struct {
	Size  int
	Tiles []Tile
}

// ErrGridCoverage is returned when a tile set does not cover the grid exactly.
var ErrGridCoverage = errors.New("grid coverage mismatch")

// NewGrid creates a size×size grass grid with a square start block of
// startBlock tiles per side centred on the map.
func NewGrid(size, startBlock int) *Grid {
	if size < 1 {
		size = 1
	}
	g := &Grid{
		Size:  size,
		Tiles: make([]Tile, size*size),
	}
	for i := range g.Tiles {
		g.Tiles[i] = GrassTile()
	}

	if startBlock > size {
		startBlock = size
	}
	if startBlock > 0 {
		origin := (size - startBlock) / 2
		for y := origin; y < origin+startBlock; y++ {
			for x := origin; x < origin+startBlock; x++ {
				g.Tiles[g.index(C(x, y))].Zone = ZoneStart
			}
		}
	}
	return g
}

// NewGridFromTiles builds a grid from an explicit tile map.
// The map must contain exactly the coordinates of a size×size grid.
func NewGridFromTiles(size int, tiles map[Coord]Tile) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrGridCoverage, size)
	}
	if len(tiles) != size*size {
		return nil, fmt.Errorf("%w: have %d tiles, want %d", ErrGridCoverage, len(tiles), size*size)
	}
	g := &Grid{Size: size, Tiles: make([]Tile, size*size)}
	for c, t := range tiles {
		if !g.InBounds(c) {
			return nil, fmt.Errorf("%w: %v outside %dx%d", ErrGridCoverage, c, size, size)
		}
		g.Tiles[g.index(c)] = t
	}
	return g, nil
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.Size + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Size && c.Y >= 0 && c.Y < g.Size
}

// Get returns the tile at c. ok is false for out-of-bounds coordinates.
func (g *Grid) Get(c Coord) (Tile, bool) {
	if !g.InBounds(c) {
		return Tile{}, false
	}
	return g.Tiles[g.index(c)], true
}

// GetKey looks a tile up by its "x,y" key.
func (g *Grid) GetKey(k Key) (Tile, bool) {
	c, err := ParseKey(k)
	if err != nil {
		return Tile{}, false
	}
	return g.Get(c)
}

// set replaces the tile at c in place. Callers must own the grid.
func (g *Grid) set(c Coord, t Tile) {
	if g.InBounds(c) {
		g.Tiles[g.index(c)] = t
	}
}

// With returns a copy of the grid with the tile at c replaced.
// The receiver is left untouched.
func (g *Grid) With(c Coord, t Tile) *Grid {
	next := g.Clone()
	next.set(c, t)
	return next
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	tiles := make([]Tile, len(g.Tiles))
	copy(tiles, g.Tiles)
	return &Grid{
		Size:  g.Size,
		Tiles: tiles,
	}
}

// Equal returns true if two grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Size != other.Size {
		return false
	}
	for i, t := range g.Tiles {
		if t != other.Tiles[i] {
			return false
		}
	}
	return true
}

// AllCoords returns every coordinate, ordered by row then column.
func (g *Grid) AllCoords() []Coord {
	coords := make([]Coord, 0, g.Size*g.Size)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			coords = append(coords, C(x, y))
		}
	}
	return coords
}

// StartCoords returns the coordinates of the start block.
func (g *Grid) StartCoords() []Coord {
	var coords []Coord
	for i, t := range g.Tiles {
		if t.IsStart() {
			coords = append(coords, C(i%g.Size, i/g.Size))
		}
	}
	return coords
}

// HasZone reports whether any tile carries zone z.
func (g *Grid) HasZone(z Zone) bool {
	for _, t := range g.Tiles {
		if t.Zone == z {
			return true
		}
	}
	return false
}

// Stats recomputes the aggregate statistics of the grid.
func (g *Grid) Stats() Stats {
	var s Stats
	for _, t := range g.Tiles {
		if t.Zone == ZoneWall {
			s.Defense++
		}
		if t.Building.Type == BuildingTower || t.Building.Type == BuildingGatehouse {
			s.Towers++
		}
		if t.Building.Type.IsStructure() {
			s.Structures++
		}
		if t.Building.Damaged {
			s.Damaged++
		}
		if t.Underground.Type.IsResource() {
			s.Underground++
		}
	}
	return s
}
