package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

func TestNewGridCoverage(t *testing.T) {
	g := core.NewGrid(10, 2)

	if len(g.Tiles) != 100 {
		t.Fatalf("expected 100 tiles, got %d", len(g.Tiles))
	}

	starts := g.StartCoords()
	expected := []core.Coord{core.C(4, 4), core.C(5, 4), core.C(4, 5), core.C(5, 5)}
	if len(starts) != len(expected) {
		t.Fatalf("expected %d start tiles, got %d", len(expected), len(starts))
	}
	for i, c := range expected {
		if starts[i] != c {
			t.Errorf("start[%d] = %v, expected %v", i, starts[i], c)
		}
	}

	tile, ok := g.Get(core.C(0, 0))
	if !ok {
		t.Fatal("expected (0,0) to exist")
	}
	if tile.Building.Type != core.BuildingGrass || tile.Zone != core.ZoneNone {
		t.Errorf("fresh tile = %+v, expected grass/none", tile)
	}
}

func TestGridGetOutOfBounds(t *testing.T) {
	g := core.NewGrid(5, 1)

	tests := []struct {
		coord    core.Coord
		expected bool
	}{
		{core.C(0, 0), true},
		{core.C(4, 4), true},
		{core.C(-1, 0), false},
		{core.C(0, -1), false},
		{core.C(5, 0), false},
		{core.C(0, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.coord.String(), func(t *testing.T) {
			_, ok := g.Get(tt.coord)
			if ok != tt.expected {
				t.Errorf("Get(%v) ok = %v, expected %v", tt.coord, ok, tt.expected)
			}
		})
	}
}

func TestGridWithCopyOnWrite(t *testing.T) {
	g := core.NewGrid(4, 0)
	wall := core.GrassTile()
	wall.Zone = core.ZoneWall

	next := g.With(core.C(1, 2), wall)

	if old, _ := g.Get(core.C(1, 2)); old.Zone != core.ZoneNone {
		t.Errorf("original grid was modified: %+v", old)
	}
	if got, _ := next.Get(core.C(1, 2)); got.Zone != core.ZoneWall {
		t.Errorf("new grid zone = %v, expected wall", got.Zone)
	}
	if g.Equal(next) {
		t.Error("expected grids to differ")
	}
}

func TestNewGridFromTiles(t *testing.T) {
	full := map[core.Coord]core.Tile{}
	for y := range 3 {
		for x := range 3 {
			full[core.C(x, y)] = core.GrassTile()
		}
	}

	if _, err := core.NewGridFromTiles(3, full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := map[core.Coord]core.Tile{}
	for c, tile := range full {
		missing[c] = tile
	}
	delete(missing, core.C(2, 2))
	if _, err := core.NewGridFromTiles(3, missing); !errors.Is(err, core.ErrGridCoverage) {
		t.Errorf("missing tile: err = %v, expected ErrGridCoverage", err)
	}

	outside := map[core.Coord]core.Tile{}
	for c, tile := range missing {
		outside[c] = tile
	}
	outside[core.C(3, 0)] = core.GrassTile()
	if _, err := core.NewGridFromTiles(3, outside); !errors.Is(err, core.ErrGridCoverage) {
		t.Errorf("outside tile: err = %v, expected ErrGridCoverage", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key      core.Key
		expected core.Coord
		wantErr  bool
	}{
		{"3,4", core.C(3, 4), false},
		{"0,0", core.C(0, 0), false},
		{"12,7", core.C(12, 7), false},
		{"34", core.Coord{}, true},
		{"a,b", core.Coord{}, true},
		{"", core.Coord{}, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			c, err := core.ParseKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, core.ErrBadKey) {
					t.Errorf("ParseKey(%q) err = %v, expected ErrBadKey", tt.key, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) unexpected error: %v", tt.key, err)
			}
			if c != tt.expected {
				t.Errorf("ParseKey(%q) = %v, expected %v", tt.key, c, tt.expected)
			}
			if c.Key() != tt.key {
				t.Errorf("Key() = %q, expected %q", c.Key(), tt.key)
			}
		})
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     core.Coord
		expected []core.Coord
	}{
		{"single", core.C(2, 2), core.C(2, 2), []core.Coord{core.C(2, 2)}},
		{"horizontal", core.C(0, 0), core.C(3, 0), []core.Coord{core.C(0, 0), core.C(1, 0), core.C(2, 0), core.C(3, 0)}},
		{"vertical up", core.C(1, 3), core.C(1, 1), []core.Coord{core.C(1, 3), core.C(1, 2), core.C(1, 1)}},
		{"diagonal", core.C(0, 0), core.C(2, 2), []core.Coord{core.C(0, 0), core.C(1, 1), core.C(2, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Line(tt.a, tt.b)
			if len(got) != len(tt.expected) {
				t.Fatalf("Line() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Line()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
