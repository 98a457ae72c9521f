package core

// Tool is the active build tool.
type Tool string

const (
	ToolSelect              Tool = "select"
	ToolBulldoze            Tool = "bulldoze"
	ToolBulldozeAll         Tool = "bulldoze_all"
	ToolZoneMoat            Tool = "zone_moat"
	ToolZoneLand            Tool = "zone_land"
	ToolZoneWall            Tool = "zone_wall"
	ToolBuildTower          Tool = "build_tower"
	ToolBuildBarbican       Tool = "build_barbican"
	ToolBuildGate           Tool = "build_gate"
	ToolBuildBridge         Tool = "build_bridge"
	ToolBuildMachicolations Tool = "build_machicolations"
	ToolBuildBalistraria    Tool = "build_balistraria"
	ToolBuildCrossbowSlit   Tool = "build_crossbow_slit"
	ToolBuildLongbowSlit    Tool = "build_longbow_slit"
	ToolBuildStoneMason     Tool = "build_stone_mason"
	ToolBuildCarpenter      Tool = "build_carpenter"
	ToolBuildMessHall       Tool = "build_mess_hall"
)

// ToolInfo describes a tool for menus and help text.
type ToolInfo struct {
	Tool        Tool
	Name        string
	Description string
	Building    BuildingType // structure the tool places, empty for zoning tools
}

// Tools lists every tool in toolbar order.
var Tools = []ToolInfo{
	{ToolSelect, "Select", "Inspect tiles", ""},
	{ToolBulldoze, "Bulldoze", "Clear a tile back to grass", ""},
	{ToolZoneMoat, "Moat", "Dig moat (drag)", BuildingMoat},
	{ToolZoneLand, "Land", "Zone land (drag)", ""},
	{ToolZoneWall, "Wall", "Raise wall (drag)", ""},
	{ToolBuildTower, "Tower", "Tower on a wall, not next to another tower", BuildingTower},
	{ToolBuildGate, "Gate", "Gate on a wall, merges with a tower", BuildingGate},
	{ToolBuildBarbican, "Barbican", "Fortified outwork", BuildingBarbican},
	{ToolBuildBridge, "Bridge", "Bridge over a moat", BuildingBridge},
	{ToolBuildMachicolations, "Machicolations", "Wall embrasure", BuildingMachicolations},
	{ToolBuildBalistraria, "Balistraria", "Wall embrasure", BuildingBalistraria},
	{ToolBuildCrossbowSlit, "Crossbow slit", "Wall embrasure", BuildingCrossbowSlit},
	{ToolBuildLongbowSlit, "Longbow slit", "Wall embrasure", BuildingLongbowSlit},
	{ToolBuildStoneMason, "Stone mason", "Resource building", BuildingStoneMason},
	{ToolBuildCarpenter, "Carpenter", "Resource building", BuildingCarpenter},
	{ToolBuildMessHall, "Mess hall", "Resource building", BuildingMessHall},
	{ToolBulldozeAll, "Bulldoze all", "Free builder only: clear the map", ""},
}

// Info returns the toolbar entry for t.
func (t Tool) Info() (ToolInfo, bool) {
	for _, info := range Tools {
		if info.Tool == t {
			return info, true
		}
	}
	return ToolInfo{}, false
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	_, ok := t.Info()
	return ok
}

// IsDragBuild reports whether the tool paints along a dragged path.
func (t Tool) IsDragBuild() bool {
	switch t {
	case ToolZoneMoat, ToolZoneLand, ToolZoneWall:
		return true
	}
	return false
}

// Building returns the structure the tool places, if any.
func (t Tool) Building() BuildingType {
	info, _ := t.Info()
	return info.Building
}
