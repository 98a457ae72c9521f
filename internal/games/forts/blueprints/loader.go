// Package blueprints loads pre-built fort layouts.
// This package depends on the forts core but core does not depend on blueprints.
package blueprints

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-forts/internal/games/forts/blueprints/formats"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Blueprint represents a complete fort layout.
type Blueprint struct {
	ID         string
	Name       string
	Size       int
	StartBlock int
	Metadata   map[string]string
	FilePath   string

	runs  []formats.Run
	tiles []formats.Tile
}

// Grid builds the layout on a fresh grid. Runs are applied first, then
// single tiles in file order. Start tiles are never overwritten.
func (b *Blueprint) Grid() (*fort.Grid, error) {
	base := fort.NewGrid(b.Size, b.StartBlock)
	tiles := make(map[fort.Coord]fort.Tile, b.Size*b.Size)
	for _, c := range base.AllCoords() {
		tiles[c], _ = base.Get(c)
	}

	for _, r := range b.runs {
		for _, c := range fort.Line(r.From, r.To) {
			t, ok := tiles[c]
			if !ok {
				return nil, fmt.Errorf("blueprint %s: run leaves the %dx%d grid at %v", b.ID, b.Size, b.Size, c)
			}
			if t.IsStart() {
				continue
			}
			tiles[c] = zoned(t, r.Zone, r.Wall)
		}
	}

	for _, p := range b.tiles {
		t, ok := tiles[p.At]
		if !ok {
			return nil, fmt.Errorf("blueprint %s: tile %v outside the %dx%d grid", b.ID, p.At, b.Size, b.Size)
		}
		if t.IsStart() {
			return nil, fmt.Errorf("blueprint %s: tile %v is in the start block", b.ID, p.At)
		}
		if p.Zone != "" {
			t = zoned(t, p.Zone, p.Wall)
		} else if p.Wall != fort.WallNone && t.Zone == fort.ZoneWall {
			t.WallType = p.Wall
		}
		if p.Building != "" {
			t.Building = fort.NewBuilding(p.Building)
		}
		if p.Underground != "" {
			t.Underground = fort.NewBuilding(p.Underground)
		}
		tiles[p.At] = t
	}

	return fort.NewGridFromTiles(b.Size, tiles)
}

// zoned rezones t the way the matching build tool would.
func zoned(t fort.Tile, z fort.Zone, wall fort.WallType) fort.Tile {
	t.Zone = z
	t.WallType = fort.WallNone
	switch z {
	case fort.ZoneWall:
		if wall == fort.WallNone {
			wall = fort.WallPalisade
		}
		t.WallType = wall
	case fort.ZoneMoat:
		t.Building = fort.NewBuilding(fort.BuildingMoat)
	case fort.ZoneLand:
		t.Building = fort.NewBuilding(fort.BuildingGrass)
	}
	return t
}

// Loader handles loading blueprints from a file system.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a loader reading blueprints under root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// Builtin returns a loader over the blueprints shipped with the binary.
func Builtin() *Loader {
	sub, _ := fs.Sub(builtinFS, "builtin")
	return &Loader{Root: "builtin", fsys: sub}
}

// LoadAll recursively scans and loads all blueprint files.
// Returns blueprints sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Blueprint, error) {
	var blueprints []Blueprint

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		bp, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}

		blueprints = append(blueprints, bp)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(blueprints, func(i, j int) bool {
		return blueprints[i].ID < blueprints[j].ID
	})

	return blueprints, nil
}

// LoadFile loads a single blueprint file, relative to the loader root.
func (l *Loader) LoadFile(p string) (Blueprint, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Blueprint{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Blueprint{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Blueprint{
		ID:         parsed.ID,
		Name:       parsed.Name,
		Size:       parsed.Size,
		StartBlock: parsed.StartBlock,
		Metadata:   parsed.Metadata,
		FilePath:   path.Join(l.Root, p),
		runs:       parsed.Runs,
		tiles:      parsed.Tiles,
	}, nil
}

// LoadByID loads a specific blueprint by ID.
func (l *Loader) LoadByID(id string) (Blueprint, error) {
	blueprints, err := l.LoadAll()
	if err != nil {
		return Blueprint{}, err
	}

	for _, bp := range blueprints {
		if bp.ID == id {
			return bp, nil
		}
	}

	return Blueprint{}, fmt.Errorf("blueprint not found: %s", id)
}

// ListIDs returns all blueprint IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	blueprints, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(blueprints))
	for i, bp := range blueprints {
		ids[i] = bp.ID
	}
	return ids, nil
}

// Find resolves name as a blueprint file path first and a built-in
// blueprint ID second.
func Find(name string) (Blueprint, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return NewLoader(filepath.Dir(name)).LoadFile(filepath.Base(name))
	}
	return Builtin().LoadByID(name)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Blueprint, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Blueprint{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
