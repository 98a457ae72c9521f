package forts

import (
	"time"

	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// SaveData is one autosave of a fort.
type SaveData struct {
	ID       string
	FortName string
	Round    int
	Phase    string
	Defense  int
	GridSize int
	Snapshot []byte
	SavedAt  time.Time
}

// RoundData summarises a finished siege.
type RoundData struct {
	FortID     string
	Round      int
	Damaged    int
	Defense    int
	Towers     int
	Structures int
	Resources  fort.Amounts
}

// SaveSink persists forts and their round history.
// This lets the game save progress without a direct storage dependency.
type SaveSink interface {
	SaveFortData(data SaveData) error
	RecordRoundData(data RoundData) error
}

// saveData captures s for persistence.
func saveData(s fort.State, now time.Time) (SaveData, error) {
	snap, err := fort.Encode(s)
	if err != nil {
		return SaveData{}, err
	}
	return SaveData{
		ID:       s.ID,
		FortName: s.FortName,
		Round:    s.Round,
		Phase:    string(s.Phase),
		Defense:  s.Stats.Defense,
		GridSize: s.GridSize(),
		Snapshot: snap,
		SavedAt:  now,
	}, nil
}

// roundData summarises the siege that produced s.
func roundData(s fort.State) RoundData {
	return RoundData{
		FortID:     s.ID,
		Round:      s.Round,
		Damaged:    len(s.DamagedTiles),
		Defense:    s.Stats.Defense,
		Towers:     s.Stats.Towers,
		Structures: s.Stats.Structures,
		Resources:  s.Ledger.Stored(),
	}
}
