// Package core provides the simulation engine for IsoForts.
// This package is UI-agnostic and deterministic: randomness comes from an
// injected *rand.Rand and time from an injected Clock.
package core

// BuildingType identifies what occupies a tile.
type BuildingType string

const (
	BuildingEmpty          BuildingType = "empty"
	BuildingGrass          BuildingType = "grass"
	BuildingMoat           BuildingType = "moat"
	BuildingTower          BuildingType = "tower"
	BuildingBarbican       BuildingType = "barbican"
	BuildingGate           BuildingType = "gate"
	BuildingGatehouse      BuildingType = "gatehouse"
	BuildingBridge         BuildingType = "bridge"
	BuildingMachicolations BuildingType = "machicolations"
	BuildingBalistraria    BuildingType = "balistraria"
	BuildingCrossbowSlit   BuildingType = "crossbow_slit"
	BuildingLongbowSlit    BuildingType = "longbow_slit"
	BuildingStoneMason     BuildingType = "stone_mason"
	BuildingCarpenter      BuildingType = "carpenter"
	BuildingMessHall       BuildingType = "mess_hall"
)

// AllBuildingTypes lists every building type in declaration order.
var AllBuildingTypes = []BuildingType{
	BuildingEmpty, BuildingGrass, BuildingMoat, BuildingTower, BuildingBarbican,
	BuildingGate, BuildingGatehouse, BuildingBridge, BuildingMachicolations,
	BuildingBalistraria, BuildingCrossbowSlit, BuildingLongbowSlit,
	BuildingStoneMason, BuildingCarpenter, BuildingMessHall,
}

// Valid reports whether b is a known building type.
func (b BuildingType) Valid() bool {
	for _, t := range AllBuildingTypes {
		if t == b {
			return true
		}
	}
	return false
}

// IsBuildable reports whether a structure may be placed on top of b.
func (b BuildingType) IsBuildable() bool {
	return b == BuildingGrass || b == BuildingEmpty
}

// IsEmbrasure reports whether b is one of the wall-mounted firing positions.
func (b BuildingType) IsEmbrasure() bool {
	switch b {
	case BuildingMachicolations, BuildingBalistraria, BuildingCrossbowSlit, BuildingLongbowSlit:
		return true
	}
	return false
}

// IsResource reports whether b is a resource-producing building.
// Resource buildings are the only ones allowed underground.
func (b BuildingType) IsResource() bool {
	switch b {
	case BuildingStoneMason, BuildingCarpenter, BuildingMessHall:
		return true
	}
	return false
}

// IsDamageable reports whether a siege can damage a structure of type b.
func (b BuildingType) IsDamageable() bool {
	switch b {
	case BuildingTower, BuildingBarbican, BuildingGate, BuildingGatehouse:
		return true
	}
	return b.IsEmbrasure()
}

// IsStructure reports whether b is anything other than bare terrain.
func (b BuildingType) IsStructure() bool {
	switch b {
	case BuildingEmpty, BuildingGrass, BuildingMoat:
		return false
	}
	return true
}

// Zone is the zoning designation of a tile.
type Zone string

const (
	ZoneNone  Zone = "none"
	ZoneMoat  Zone = "moat"
	ZoneLand  Zone = "land"
	ZoneWall  Zone = "wall"
	ZoneStart Zone = "start"
)

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	switch z {
	case ZoneNone, ZoneMoat, ZoneLand, ZoneWall, ZoneStart:
		return true
	}
	return false
}

// WallType is the material used for wall-zoned tiles.
type WallType string

const (
	WallNone     WallType = ""
	WallPalisade WallType = "palisade"
	WallStone    WallType = "stone"
)

// Building is the structure layer of a tile.
type Building struct {
	Type                 BuildingType `json:"type"`
	ConstructionProgress int          `json:"constructionProgress"` // 0..100
	Damaged              bool         `json:"damaged,omitempty"`
}

// NewBuilding returns a fully constructed, undamaged building of type t.
func NewBuilding(t BuildingType) Building {
	return Building{Type: t, ConstructionProgress: 100}
}

// Tile is a single grid cell.
type Tile struct {
	Building    Building `json:"building"`
	Zone        Zone     `json:"zone"`
	WallType    WallType `json:"wallType,omitempty"`
	Underground Building `json:"underground"`
}

// GrassTile returns the pristine tile every grid starts with.
func GrassTile() Tile {
	return Tile{
		Building:    NewBuilding(BuildingGrass),
		Zone:        ZoneNone,
		Underground: NewBuilding(BuildingEmpty),
	}
}

// IsStart reports whether the tile belongs to the seeded start block.
func (t Tile) IsStart() bool {
	return t.Zone == ZoneStart
}

// IsDamageable reports whether a siege may damage this tile.
func (t Tile) IsDamageable() bool {
	if t.IsStart() {
		return false
	}
	return t.Zone == ZoneWall || t.Building.Type.IsDamageable()
}

// Stats holds aggregate numbers derived from the grid.
type Stats struct {
	Defense     int `json:"defense"` // number of wall-zoned tiles
	Towers      int `json:"towers"`
	Structures  int `json:"structures"`
	Damaged     int `json:"damaged"`
	Underground int `json:"underground"`
}
