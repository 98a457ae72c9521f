package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptSnapshot wraps every snapshot validation failure.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// TileEntry is one keyed tile of a persisted grid.
type TileEntry struct {
	Key  Key  `json:"key"`
	Tile Tile `json:"tile"`
}

// Snapshot is the persisted form of a State.
type Snapshot struct {
	ID                           string      `json:"id"`
	FortName                     string      `json:"fortName"`
	GridSize                     int         `json:"gridSize"`
	Grid                         []TileEntry `json:"grid"`
	Phase                        Phase       `json:"phase,omitempty"`
	Round                        int         `json:"round,omitempty"`
	PhaseEndsAt                  int64       `json:"phaseEndsAt,omitempty"` // unix milliseconds
	Resources                    Amounts     `json:"resources"`
	Caps                         *Amounts    `json:"caps,omitempty"`
	FreeBuilder                  bool        `json:"freeBuilder,omitempty"`
	WallBlocksAvailable          int         `json:"wallBlocksAvailable"`
	WallType                     WallType    `json:"wallType,omitempty"`
	ActiveCardID                 string      `json:"activeCardId,omitempty"`
	RemainingBuildBlocksFromCard *int        `json:"remainingBuildBlocksFromCard,omitempty"`
	DamagedTiles                 []Key       `json:"damagedTiles,omitempty"`
	RoundBonus                   *Amounts    `json:"roundBonus,omitempty"`
	SelectedTool                 Tool        `json:"selectedTool,omitempty"`
	ShowUnderground              bool        `json:"showUnderground,omitempty"`
}

// NewSnapshot captures s for persistence.
func NewSnapshot(s State) Snapshot {
	snap := Snapshot{
		ID:                  s.ID,
		FortName:            s.FortName,
		GridSize:            s.GridSize(),
		Phase:               s.Phase,
		Round:               s.Round,
		Resources:           s.Ledger.Stored(),
		FreeBuilder:         s.Ledger.FreeBuilder,
		WallBlocksAvailable: s.WallBlocks,
		WallType:            s.WallType,
		DamagedTiles:        append([]Key(nil), s.DamagedTiles...),
		SelectedTool:        s.SelectedTool,
		ShowUnderground:     s.ShowUnderground,
	}
	caps := s.Ledger.Caps
	snap.Caps = &caps
	bonus := s.RoundBonus
	snap.RoundBonus = &bonus
	if !s.PhaseEndsAt.IsZero() {
		snap.PhaseEndsAt = s.PhaseEndsAt.UnixMilli()
	}
	if s.Card != nil {
		remaining := s.Card.Remaining
		snap.ActiveCardID = s.Card.CardID
		snap.RemainingBuildBlocksFromCard = &remaining
	}
	if s.Grid != nil {
		snap.Grid = make([]TileEntry, 0, len(s.Grid.Tiles))
		for _, c := range s.Grid.AllCoords() {
			t, _ := s.Grid.Get(c)
			snap.Grid = append(snap.Grid, TileEntry{Key: c.Key(), Tile: t})
		}
	}
	return snap
}

// Encode serializes s to JSON.
func Encode(s State) ([]byte, error) {
	return json.Marshal(NewSnapshot(s))
}

// Decode parses a snapshot. Missing fields fall back to settings; a
// snapshot saved before phases existed resumes in the build phase with a
// fresh build timer measured from now.
func Decode(data []byte, now time.Time, settings Settings) (State, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return snap.State(now, settings)
}

// State validates the snapshot and rebuilds the game state.
func (snap Snapshot) State(now time.Time, settings Settings) (State, error) {
	tiles := make(map[Coord]Tile, len(snap.Grid))
	for _, entry := range snap.Grid {
		c, err := ParseKey(entry.Key)
		if err != nil {
			return State{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if _, dup := tiles[c]; dup {
			return State{}, fmt.Errorf("%w: duplicate tile %s", ErrCorruptSnapshot, entry.Key)
		}
		if err := validateTile(entry.Tile); err != nil {
			return State{}, fmt.Errorf("%w: tile %s: %v", ErrCorruptSnapshot, entry.Key, err)
		}
		t := entry.Tile
		if t.Underground.Type == "" {
			t.Underground = NewBuilding(BuildingEmpty)
		}
		tiles[c] = t
	}
	grid, err := NewGridFromTiles(snap.GridSize, tiles)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	caps := settings.Caps
	if snap.Caps != nil {
		caps = *snap.Caps
	}
	bonus := settings.RoundBonus
	if snap.RoundBonus != nil {
		bonus = *snap.RoundBonus
	}
	ledger := NewLedger(snap.Resources, caps).WithFreeBuilder(snap.FreeBuilder)

	s := State{
		ID:              snap.ID,
		FortName:        snap.FortName,
		Grid:            grid,
		SelectedTool:    snap.SelectedTool,
		Phase:           snap.Phase,
		Round:           snap.Round,
		Ledger:          ledger,
		WallBlocks:      max(snap.WallBlocksAvailable, 0),
		WallType:        snap.WallType,
		RoundBonus:      bonus,
		Stats:           grid.Stats(),
		ShowUnderground: snap.ShowUnderground,
	}
	if s.FortName == "" {
		s.FortName = DefaultFortName
	}
	if !s.SelectedTool.Valid() {
		s.SelectedTool = ToolSelect
	}
	if s.WallType == WallNone {
		s.WallType = settings.WallType
	}
	if s.Round < 1 {
		s.Round = 1
	}
	if snap.PhaseEndsAt > 0 {
		s.PhaseEndsAt = time.UnixMilli(snap.PhaseEndsAt)
	}

	switch {
	case s.Phase == "":
		s.Phase = PhaseBuild
		s.PhaseEndsAt = now.Add(settings.Durations.Build)
	case !s.Phase.Valid():
		return State{}, fmt.Errorf("%w: unknown phase %q", ErrCorruptSnapshot, s.Phase)
	case s.PhaseEndsAt.IsZero() && s.Phase == PhaseBuild:
		s.PhaseEndsAt = now.Add(settings.Durations.Build)
	case s.PhaseEndsAt.IsZero() && s.Phase == PhaseRoundEnd:
		s.PhaseEndsAt = now.Add(settings.Durations.RoundEnd)
	}

	s.DamagedTiles = make([]Key, 0, len(snap.DamagedTiles))
	for _, k := range snap.DamagedTiles {
		c, err := ParseKey(k)
		if err != nil || !grid.InBounds(c) {
			return State{}, fmt.Errorf("%w: damaged tile %q", ErrCorruptSnapshot, k)
		}
		s.DamagedTiles = append(s.DamagedTiles, c.Key())
	}

	if snap.ActiveCardID != "" && snap.RemainingBuildBlocksFromCard != nil && *snap.RemainingBuildBlocksFromCard > 0 {
		s.Card = &CardBudget{CardID: snap.ActiveCardID, Remaining: *snap.RemainingBuildBlocksFromCard}
	}
	return s, nil
}

func validateTile(t Tile) error {
	if !t.Building.Type.Valid() {
		return fmt.Errorf("unknown building %q", t.Building.Type)
	}
	if !t.Zone.Valid() {
		return fmt.Errorf("unknown zone %q", t.Zone)
	}
	if t.Underground.Type == "" {
		return nil
	}
	if !t.Underground.Type.Valid() {
		return fmt.Errorf("unknown underground building %q", t.Underground.Type)
	}
	return nil
}
