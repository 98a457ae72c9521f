// Package formats provides pluggable blueprint file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// YAMLBlueprint represents the YAML structure for a blueprint file.
type YAMLBlueprint struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Size       int               `yaml:"size"`
	StartBlock int               `yaml:"start_block,omitempty"`
	Runs       []YAMLRun         `yaml:"runs,omitempty"`
	Tiles      []YAMLTile        `yaml:"tiles,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// YAMLRun is a straight or diagonal stretch of one zone, drawn with the
// same line algorithm as a drag in the game.
type YAMLRun struct {
	From [2]int `yaml:"from"`
	To   [2]int `yaml:"to"`
	Zone string `yaml:"zone"`
	Wall string `yaml:"wall,omitempty"` // wall material, palisade by default
}

// YAMLTile overrides a single tile.
type YAMLTile struct {
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Zone        string `yaml:"zone,omitempty"`
	Wall        string `yaml:"wall,omitempty"`
	Building    string `yaml:"building,omitempty"`
	Underground string `yaml:"underground,omitempty"`
}

// Run is a parsed zone run.
type Run struct {
	From, To fort.Coord
	Zone     fort.Zone
	Wall     fort.WallType
}

// Tile is a parsed single-tile override. Empty fields keep the tile's
// current value.
type Tile struct {
	At          fort.Coord
	Zone        fort.Zone
	Wall        fort.WallType
	Building    fort.BuildingType
	Underground fort.BuildingType
}

// Blueprint represents a parsed blueprint ready for use.
type Blueprint struct {
	ID         string
	Name       string
	Size       int
	StartBlock int
	Runs       []Run
	Tiles      []Tile
	Metadata   map[string]string
}

// ParseYAML parses a YAML blueprint file.
func ParseYAML(data []byte) (Blueprint, error) {
	var yb YAMLBlueprint
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return Blueprint{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yb.ID == "" {
		return Blueprint{}, fmt.Errorf("missing id")
	}
	if yb.Size <= 0 {
		return Blueprint{}, fmt.Errorf("size must be positive, got %d", yb.Size)
	}

	startBlock := yb.StartBlock
	if startBlock <= 0 {
		startBlock = 2 // Default start block
	}

	bp := Blueprint{
		ID:         yb.ID,
		Name:       yb.Name,
		Size:       yb.Size,
		StartBlock: startBlock,
		Metadata:   yb.Metadata,
	}
	if bp.Name == "" {
		bp.Name = bp.ID
	}

	for i, r := range yb.Runs {
		zone := fort.Zone(r.Zone)
		switch zone {
		case fort.ZoneWall, fort.ZoneMoat, fort.ZoneLand:
		default:
			return Blueprint{}, fmt.Errorf("run %d: unsupported zone %q", i, r.Zone)
		}
		wall, err := parseWall(r.Wall)
		if err != nil {
			return Blueprint{}, fmt.Errorf("run %d: %w", i, err)
		}
		bp.Runs = append(bp.Runs, Run{
			From: fort.C(r.From[0], r.From[1]),
			To:   fort.C(r.To[0], r.To[1]),
			Zone: zone,
			Wall: wall,
		})
	}

	for i, t := range yb.Tiles {
		tile, err := parseTile(t)
		if err != nil {
			return Blueprint{}, fmt.Errorf("tile %d (%d,%d): %w", i, t.X, t.Y, err)
		}
		bp.Tiles = append(bp.Tiles, tile)
	}

	return bp, nil
}

func parseTile(t YAMLTile) (Tile, error) {
	tile := Tile{
		At:          fort.C(t.X, t.Y),
		Zone:        fort.Zone(t.Zone),
		Building:    fort.BuildingType(t.Building),
		Underground: fort.BuildingType(t.Underground),
	}
	if tile.Zone != "" && (!tile.Zone.Valid() || tile.Zone == fort.ZoneStart) {
		return Tile{}, fmt.Errorf("unsupported zone %q", t.Zone)
	}
	if tile.Building != "" && !tile.Building.Valid() {
		return Tile{}, fmt.Errorf("unknown building %q", t.Building)
	}
	if tile.Underground != "" && !tile.Underground.IsResource() {
		return Tile{}, fmt.Errorf("%q cannot be built underground", t.Underground)
	}
	wall, err := parseWall(t.Wall)
	if err != nil {
		return Tile{}, err
	}
	tile.Wall = wall
	return tile, nil
}

func parseWall(s string) (fort.WallType, error) {
	switch fort.WallType(s) {
	case fort.WallNone:
		return fort.WallNone, nil
	case fort.WallPalisade, fort.WallStone:
		return fort.WallType(s), nil
	}
	return fort.WallNone, fmt.Errorf("unknown wall type %q", s)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
