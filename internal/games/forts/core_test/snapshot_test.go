package core_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

func TestSnapshotRestoresGame(t *testing.T) {
	e, _ := newEngine(1)
	s := buildPhase(e)
	s = e.Dispatch(s, core.PlayCard{CardID: "terrain_moat_rare"})
	s = e.Dispatch(s, core.PlaceAt{At: core.C(0, 0)})

	data, err := core.Encode(s)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	restored, err := e.Restore(data)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if !restored.Grid.Equal(s.Grid) {
		t.Error("restored grid differs")
	}
	if restored.Phase != core.PhaseBuild || !restored.PhaseEndsAt.Equal(s.PhaseEndsAt) {
		t.Errorf("phase = %v ends = %v, expected %v ends %v", restored.Phase, restored.PhaseEndsAt, s.Phase, s.PhaseEndsAt)
	}
	if restored.FortName != "Riverhold" || restored.Ledger != s.Ledger || restored.WallBlocks != s.WallBlocks {
		t.Errorf("restored = %+v", restored)
	}
	if restored.Card == nil || *restored.Card != *s.Card {
		t.Errorf("card = %+v, expected %+v", restored.Card, s.Card)
	}
}

func TestSnapshotLegacyWithoutPhase(t *testing.T) {
	e, clock := newEngine(0)
	s := e.New("legacy")
	snap := core.NewSnapshot(s)
	snap.Phase = ""
	snap.Round = 0
	snap.DamagedTiles = nil
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Hour)
	restored, err := e.Restore(data)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	if restored.Phase != core.PhaseBuild {
		t.Errorf("Phase = %v, expected build", restored.Phase)
	}
	if !restored.PhaseEndsAt.Equal(clock.Now().Add(3 * time.Minute)) {
		t.Errorf("PhaseEndsAt = %v, expected now+3m", restored.PhaseEndsAt)
	}
	if restored.Round != 1 {
		t.Errorf("Round = %d, expected 1", restored.Round)
	}
	if restored.DamagedTiles == nil || len(restored.DamagedTiles) != 0 {
		t.Errorf("DamagedTiles = %v, expected empty", restored.DamagedTiles)
	}
}

func TestSnapshotTimedPhaseWithoutDeadline(t *testing.T) {
	tests := []struct {
		phase    core.Phase
		duration time.Duration
	}{
		{core.PhaseBuild, core.DefaultBuildDuration},
		{core.PhaseRoundEnd, core.DefaultRoundEndDuration},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			e, clock := newEngine(0)
			snap := core.NewSnapshot(buildPhase(e))
			snap.Phase = tt.phase
			snap.PhaseEndsAt = 0
			data, err := json.Marshal(snap)
			if err != nil {
				t.Fatal(err)
			}

			restored, err := e.Restore(data)
			if err != nil {
				t.Fatalf("Restore() error: %v", err)
			}
			if expected := clock.Now().Add(tt.duration); !restored.PhaseEndsAt.Equal(expected) {
				t.Errorf("PhaseEndsAt = %v, expected %v", restored.PhaseEndsAt, expected)
			}

			clock.Advance(time.Hour)
			if s := e.Dispatch(restored, core.Tick{}); s.Phase == tt.phase {
				t.Errorf("Phase after Tick = %v, expected the phase to advance", s.Phase)
			}
		})
	}
}

func TestSnapshotCorrupt(t *testing.T) {
	e, _ := newEngine(0)
	good := core.NewSnapshot(e.New("x"))

	tests := []struct {
		name   string
		mutate func(*core.Snapshot)
	}{
		{"missing tile", func(s *core.Snapshot) { s.Grid = s.Grid[1:] }},
		{"bad key", func(s *core.Snapshot) { s.Grid[0].Key = "zero" }},
		{"duplicate key", func(s *core.Snapshot) { s.Grid[1].Key = s.Grid[0].Key }},
		{"unknown zone", func(s *core.Snapshot) { s.Grid[0].Tile.Zone = "lava" }},
		{"unknown phase", func(s *core.Snapshot) { s.Phase = "siege" }},
		{"damaged outside grid", func(s *core.Snapshot) { s.DamagedTiles = []core.Key{"99,99"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := good
			snap.Grid = append([]core.TileEntry(nil), good.Grid...)
			tt.mutate(&snap)
			data, err := json.Marshal(snap)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := e.Restore(data); !errors.Is(err, core.ErrCorruptSnapshot) {
				t.Errorf("Restore() err = %v, expected ErrCorruptSnapshot", err)
			}
		})
	}

	if _, err := e.Restore([]byte("{not json")); !errors.Is(err, core.ErrCorruptSnapshot) {
		t.Errorf("Restore(garbage) err = %v, expected ErrCorruptSnapshot", err)
	}
}
