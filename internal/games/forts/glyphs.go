package forts

import (
	"strings"

	"github.com/vovakirdan/tui-forts/internal/core"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// Glyph is how one tile looks on a terminal: a fill rune repeated across
// the tile, an optional two-letter building code, and colors.
type Glyph struct {
	Fill      rune
	Code      string
	Color     core.Color
	CodeColor core.Color
}

var buildingCodes = map[fort.BuildingType]string{
	fort.BuildingTower:          "TW",
	fort.BuildingBarbican:       "BB",
	fort.BuildingGate:           "GT",
	fort.BuildingGatehouse:      "GH",
	fort.BuildingBridge:         "==",
	fort.BuildingMachicolations: "MC",
	fort.BuildingBalistraria:    "BL",
	fort.BuildingCrossbowSlit:   "XB",
	fort.BuildingLongbowSlit:    "LB",
	fort.BuildingStoneMason:     "SM",
	fort.BuildingCarpenter:      "CP",
	fort.BuildingMessHall:       "MH",
}

// SurfaceGlyph returns the surface look of a tile.
func SurfaceGlyph(t fort.Tile) Glyph {
	g := Glyph{Fill: '·', Color: core.ColorGrass, CodeColor: core.ColorBrightWhite}

	switch {
	case t.Zone == fort.ZoneStart:
		g.Fill, g.Color = '▒', core.ColorStartBlock
	case t.Zone == fort.ZoneWall && t.WallType == fort.WallStone:
		g.Fill, g.Color = '▓', core.ColorStone
	case t.Zone == fort.ZoneWall:
		g.Fill, g.Color = '#', core.ColorTimber
	case t.Zone == fort.ZoneMoat || t.Building.Type == fort.BuildingMoat:
		g.Fill, g.Color = '≈', core.ColorWater
	case t.Zone == fort.ZoneLand:
		g.Fill, g.Color = '░', core.ColorLand
	case t.Building.Type == fort.BuildingEmpty:
		g.Fill = ' '
	}

	g.Code = buildingCodes[t.Building.Type]
	if t.Building.Type == fort.BuildingBridge {
		g.CodeColor = core.ColorTimber
	}
	if t.Building.Damaged {
		g.Color = core.ColorDamaged
		g.CodeColor = core.ColorDamaged
	}
	return g
}

// UndergroundGlyph returns the underground look of a tile. Eligible tiles
// are those inside the fort boundary.
func UndergroundGlyph(t fort.Tile, eligible bool) Glyph {
	g := Glyph{Fill: ' ', Color: core.ColorDefault, CodeColor: core.ColorBrightMagenta}
	switch {
	case t.Zone == fort.ZoneStart:
		g.Fill, g.Color = '▒', core.ColorStartBlock
	case eligible:
		g.Fill, g.Color = '·', core.ColorBoundary
	case t.Zone == fort.ZoneWall:
		g.Fill, g.Color = '#', core.ColorStone
	}
	g.Code = buildingCodes[t.Underground.Type]
	return g
}

// PlainMap renders the grid top-down, two characters per tile, for text
// export. Surface buildings show their code, bare tiles their fill.
func PlainMap(g *fort.Grid, underground bool) string {
	var eligible fort.CoordSet
	if underground {
		eligible = fort.Eligible(g)
	}

	var sb strings.Builder
	for y := 0; y < g.Size; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.Size; x++ {
			c := fort.C(x, y)
			t, _ := g.Get(c)
			var gl Glyph
			if underground {
				gl = UndergroundGlyph(t, eligible.Has(c))
			} else {
				gl = SurfaceGlyph(t)
			}
			if gl.Code != "" {
				sb.WriteString(gl.Code)
				continue
			}
			sb.WriteRune(gl.Fill)
			sb.WriteRune(gl.Fill)
		}
	}
	return sb.String()
}
