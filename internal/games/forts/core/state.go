package core

import "time"

// DefaultFortName is used when the player submits a blank name.
const DefaultFortName = "Unnamed Fort"

// State is the complete game state. Values are treated as immutable:
// Engine.Dispatch returns a new State and never writes through the old
// one's grid or slices.
type State struct {
	ID              string
	FortName        string
	Grid            *Grid
	SelectedTool    Tool
	Phase           Phase
	Round           int
	PhaseEndsAt     time.Time // zero when the phase is untimed
	Ledger          Ledger
	WallBlocks      int
	WallType        WallType
	Card            *CardBudget
	DamagedTiles    []Key
	RoundBonus      Amounts
	Stats           Stats
	ShowUnderground bool
	SelectedDamaged Key
}

// Board extracts the part of the state that placement rules operate on.
func (s State) Board() Board {
	return Board{
		Grid:       s.Grid,
		Ledger:     s.Ledger,
		WallBlocks: s.WallBlocks,
		WallType:   s.WallType,
		Card:       s.Card,
	}
}

// withBoard folds a board back into the state and refreshes stats.
func (s State) withBoard(b Board) State {
	s.Grid = b.Grid
	s.Ledger = b.Ledger
	s.WallBlocks = b.WallBlocks
	s.WallType = b.WallType
	s.Card = b.Card
	s.Stats = b.Grid.Stats()
	return s
}

// IsDamaged reports whether the tile at key currently carries damage.
func (s State) IsDamaged(key Key) bool {
	t, ok := s.Grid.GetKey(key)
	return ok && t.Building.Damaged
}

// Remaining returns the time left in the current phase.
func (s State) Remaining(now time.Time) time.Duration {
	return Remaining(s.PhaseEndsAt, now)
}

// GridSize returns the side length of the grid.
func (s State) GridSize() int {
	if s.Grid == nil {
		return 0
	}
	return s.Grid.Size
}

func withoutKey(keys []Key, key Key) []Key {
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
