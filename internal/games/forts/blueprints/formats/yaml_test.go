package formats

import (
	"testing"

	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

func TestParseYAML(t *testing.T) {
	data := []byte(`
id: demo
size: 12
runs:
  - {from: [0, 0], to: [3, 0], zone: wall, wall: stone}
tiles:
  - {x: 1, y: 0, building: tower}
  - {x: 5, y: 5, zone: moat}
`)
	bp, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if bp.Name != "demo" || bp.Size != 12 || bp.StartBlock != 2 {
		t.Errorf("blueprint = %+v", bp)
	}
	if len(bp.Runs) != 1 || bp.Runs[0].To != fort.C(3, 0) || bp.Runs[0].Wall != fort.WallStone {
		t.Errorf("Runs = %+v", bp.Runs)
	}
	if len(bp.Tiles) != 2 || bp.Tiles[0].Building != fort.BuildingTower || bp.Tiles[1].Zone != fort.ZoneMoat {
		t.Errorf("Tiles = %+v", bp.Tiles)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "id: [unclosed"},
		{"missing id", "size: 10"},
		{"zero size", "id: x\nsize: 0"},
		{"start run", "id: x\nsize: 10\nruns:\n  - {from: [0, 0], to: [1, 0], zone: start}"},
		{"bad wall", "id: x\nsize: 10\nruns:\n  - {from: [0, 0], to: [1, 0], zone: wall, wall: brick}"},
		{"unknown building", "id: x\nsize: 10\ntiles:\n  - {x: 1, y: 1, building: castle}"},
		{"start tile zone", "id: x\nsize: 10\ntiles:\n  - {x: 1, y: 1, zone: start}"},
		{"tower underground", "id: x\nsize: 10\ntiles:\n  - {x: 1, y: 1, underground: tower}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tt.data)); err == nil {
				t.Errorf("ParseYAML(%q) expected error", tt.data)
			}
		})
	}
}
