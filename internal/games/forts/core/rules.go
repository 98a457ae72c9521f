package core

import "errors"

// Placement rejections. A rejected placement leaves the board untouched.
var (
	ErrOutOfBounds         = errors.New("tile out of bounds")
	ErrStartZone           = errors.New("start tiles cannot be changed")
	ErrNotBuildable        = errors.New("tile is not grass or empty")
	ErrRequiresWall        = errors.New("tile is not wall-zoned")
	ErrRequiresMoat        = errors.New("tile is not a moat")
	ErrAdjacentTower       = errors.New("tower next to another tower")
	ErrWallPoolEmpty       = errors.New("no wall blocks left")
	ErrCardBudgetSpent     = errors.New("card build budget spent")
	ErrNotEligible         = errors.New("tile is outside the fort")
	ErrUndergroundOccupied = errors.New("underground slot occupied")
	ErrNoEffect            = errors.New("nothing to do")
	ErrFreeBuilderOnly     = errors.New("only available in free builder mode")
	ErrUnknownTool         = errors.New("unknown tool")
	ErrPhaseClosed         = errors.New("building is closed in this phase")
)

// IsExhausted reports whether err means a consumable budget ran out, in
// which case a bulk placement stops.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrWallPoolEmpty) || errors.Is(err, ErrCardBudgetSpent)
}

// CardBudget is the remaining moat allowance granted by a played card.
type CardBudget struct {
	CardID    string `json:"cardId"`
	Remaining int    `json:"remaining"`
}

// Board is the part of the game state that placement rules read and write.
type Board struct {
	Grid       *Grid
	Ledger     Ledger
	WallBlocks int
	WallType   WallType
	Card       *CardBudget // nil when no card budget is active
}

// Options modify how a single placement is interpreted.
type Options struct {
	Underground bool // resource buildings go to the underground layer
}

// Rules validates and applies tool placements.
type Rules struct {
	// Costs charged for placing each building type.
	Costs map[BuildingType]Amounts
}

// DefaultCosts returns the resource building costs of the base card set.
func DefaultCosts() map[BuildingType]Amounts {
	return map[BuildingType]Amounts{
		BuildingStoneMason: {Wood: 5, Food: 5},
		BuildingCarpenter:  {Stone: 5, Food: 5},
		BuildingMessHall:   {Wood: 5, Stone: 5},
	}
}

// Apply runs tool at c. On success the returned board holds a fresh grid;
// on error the input board is returned unchanged.
func (r Rules) Apply(b Board, tool Tool, c Coord, opts Options) (Board, error) {
	if tool == ToolBulldozeAll {
		return r.bulldozeAll(b)
	}
	if tool == ToolSelect {
		return b, ErrNoEffect
	}

	tile, ok := b.Grid.Get(c)
	if !ok {
		return b, ErrOutOfBounds
	}

	switch tool {
	case ToolBulldoze:
		return r.bulldoze(b, c, tile, opts)
	case ToolZoneMoat:
		return r.zoneMoat(b, c, tile)
	case ToolZoneLand:
		return r.zoneLand(b, c, tile)
	case ToolZoneWall:
		return r.zoneWall(b, c, tile)
	case ToolBuildTower:
		if tile.Zone != ZoneWall {
			return b, ErrRequiresWall
		}
		for _, n := range c.Neighbors() {
			if nt, ok := b.Grid.Get(n); ok && nt.Building.Type == BuildingTower {
				return b, ErrAdjacentTower
			}
		}
		return r.placeSurface(b, c, tile, BuildingTower)
	case ToolBuildGate:
		if tile.Zone != ZoneWall {
			return b, ErrRequiresWall
		}
		if tile.Building.Type == BuildingTower {
			tile.Building = NewBuilding(BuildingGatehouse)
			return commit(b, c, tile), nil
		}
		return r.placeSurface(b, c, tile, BuildingGate)
	case ToolBuildBarbican:
		return r.placeSurface(b, c, tile, BuildingBarbican)
	case ToolBuildBridge:
		if tile.Building.Type != BuildingMoat {
			return b, ErrRequiresMoat
		}
		tile.Building = NewBuilding(BuildingBridge)
		return commit(b, c, tile), nil
	case ToolBuildMachicolations, ToolBuildBalistraria, ToolBuildCrossbowSlit, ToolBuildLongbowSlit:
		if tile.Zone != ZoneWall {
			return b, ErrRequiresWall
		}
		return r.placeSurface(b, c, tile, tool.Building())
	case ToolBuildStoneMason, ToolBuildCarpenter, ToolBuildMessHall:
		return r.placeResource(b, c, tile, tool.Building(), opts)
	}
	return b, ErrUnknownTool
}

// ApplyPath applies tool to every coordinate of path in order. Individual
// rejections are skipped; an exhausted budget stops the walk. It returns
// the resulting board and how many tiles changed.
func (r Rules) ApplyPath(b Board, tool Tool, path []Coord, opts Options) (Board, int) {
	hadCard := tool == ToolZoneMoat && b.Card != nil
	applied := 0
	for _, c := range path {
		if hadCard && b.Card == nil {
			break
		}
		next, err := r.Apply(b, tool, c, opts)
		if err != nil {
			if IsExhausted(err) {
				break
			}
			continue
		}
		b = next
		applied++
	}
	return b, applied
}

func (r Rules) bulldoze(b Board, c Coord, tile Tile, opts Options) (Board, error) {
	if tile.IsStart() {
		return b, ErrStartZone
	}
	if opts.Underground {
		if !tile.Underground.Type.IsResource() {
			return b, ErrNoEffect
		}
		tile.Underground = NewBuilding(BuildingEmpty)
		return commit(b, c, tile), nil
	}
	if tile.Building.Type == BuildingEmpty || tile.Building.Type == BuildingMoat {
		return b, ErrNoEffect
	}
	tile.Building = NewBuilding(BuildingGrass)
	tile.Zone = ZoneNone
	tile.WallType = WallNone
	return commit(b, c, tile), nil
}

func (r Rules) bulldozeAll(b Board) (Board, error) {
	if !b.Ledger.FreeBuilder {
		return b, ErrFreeBuilderOnly
	}
	next := b.Grid.Clone()
	for i, t := range next.Tiles {
		if t.IsStart() {
			continue
		}
		next.Tiles[i] = GrassTile()
	}
	b.Grid = next
	return b, nil
}

func (r Rules) zoneMoat(b Board, c Coord, tile Tile) (Board, error) {
	if tile.IsStart() {
		return b, ErrStartZone
	}
	if !tile.Building.Type.IsBuildable() {
		return b, ErrNotBuildable
	}
	if b.Card != nil && b.Card.Remaining <= 0 {
		return b, ErrCardBudgetSpent
	}

	tile.Building = NewBuilding(BuildingMoat)
	tile.Zone = ZoneMoat
	tile.WallType = WallNone
	next := commit(b, c, tile)
	if b.Card != nil {
		remaining := b.Card.Remaining - 1
		if remaining <= 0 {
			next.Card = nil
		} else {
			next.Card = &CardBudget{CardID: b.Card.CardID, Remaining: remaining}
		}
	}
	return next, nil
}

func (r Rules) zoneLand(b Board, c Coord, tile Tile) (Board, error) {
	if tile.IsStart() {
		return b, ErrStartZone
	}
	tile.Building = NewBuilding(BuildingGrass)
	tile.Zone = ZoneLand
	tile.WallType = WallNone
	return commit(b, c, tile), nil
}

func (r Rules) zoneWall(b Board, c Coord, tile Tile) (Board, error) {
	if tile.IsStart() {
		return b, ErrStartZone
	}
	wallType := b.WallType
	if wallType == WallNone {
		wallType = WallPalisade
	}
	if tile.Zone == ZoneWall {
		if tile.WallType == WallNone {
			tile.WallType = wallType
		}
		return commit(b, c, tile), nil
	}
	if !b.Ledger.FreeBuilder && b.WallBlocks <= 0 {
		return b, ErrWallPoolEmpty
	}
	tile.Zone = ZoneWall
	tile.WallType = wallType
	next := commit(b, c, tile)
	if !b.Ledger.FreeBuilder {
		next.WallBlocks--
	}
	return next, nil
}

// placeSurface puts a free structure on a buildable, non-start tile.
func (r Rules) placeSurface(b Board, c Coord, tile Tile, bt BuildingType) (Board, error) {
	if tile.IsStart() {
		return b, ErrStartZone
	}
	if !tile.Building.Type.IsBuildable() {
		return b, ErrNotBuildable
	}
	tile.Building = NewBuilding(bt)
	return commit(b, c, tile), nil
}

func (r Rules) placeResource(b Board, c Coord, tile Tile, bt BuildingType, opts Options) (Board, error) {
	if opts.Underground {
		if !Eligible(b.Grid).Has(c) {
			return b, ErrNotEligible
		}
		if !tile.Underground.Type.IsBuildable() {
			return b, ErrUndergroundOccupied
		}
	} else {
		if tile.IsStart() {
			return b, ErrStartZone
		}
		if !tile.Building.Type.IsBuildable() {
			return b, ErrNotBuildable
		}
	}

	ledger, err := b.Ledger.Spend(r.Costs[bt])
	if err != nil {
		return b, err
	}
	if opts.Underground {
		tile.Underground = NewBuilding(bt)
	} else {
		tile.Building = NewBuilding(bt)
	}
	next := commit(b, c, tile)
	next.Ledger = ledger
	return next, nil
}

// commit returns b with a fresh grid holding tile at c.
func commit(b Board, c Coord, tile Tile) Board {
	b.Grid = b.Grid.With(c, tile)
	return b
}
