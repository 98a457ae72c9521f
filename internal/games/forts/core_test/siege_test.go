package core_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// fortifiedGrid returns a 10x10 grid with a start tile at (4,4), a wall
// row at y=1 carrying a tower, and a moat tile.
func fortifiedGrid(t *testing.T) *core.Grid {
	t.Helper()
	b := newBoard(10)
	for x := range 4 {
		b = mustApply(t, b, core.ToolZoneWall, core.C(x, 1))
	}
	b = mustApply(t, b, core.ToolBuildTower, core.C(0, 1))
	b = mustApply(t, b, core.ToolZoneMoat, core.C(0, 5))
	return b.Grid
}

func TestSiegeDamagesOnlyDamageableTiles(t *testing.T) {
	g := fortifiedGrid(t)
	s := core.NewSiegeResolver(rand.New(rand.NewSource(7)))

	next, damaged := s.Resolve(g, 1)

	if len(damaged) != 4 {
		t.Fatalf("damaged = %v, expected the 4 wall tiles", damaged)
	}
	for _, k := range damaged {
		tile, ok := next.GetKey(k)
		if !ok || tile.Zone != core.ZoneWall || !tile.Building.Damaged {
			t.Errorf("tile %s = %+v, expected damaged wall", k, tile)
		}
	}
	if tile, _ := next.Get(core.C(4, 4)); tile.Building.Damaged {
		t.Error("start tile damaged")
	}
	if tile, _ := next.Get(core.C(0, 5)); tile.Building.Damaged {
		t.Error("moat tile damaged")
	}
	if g.Stats().Damaged != 0 {
		t.Error("Resolve modified its input grid")
	}
}

func TestSiegeNeverReflags(t *testing.T) {
	g := fortifiedGrid(t)
	s := core.NewSiegeResolver(rand.New(rand.NewSource(7)))

	next, _ := s.Resolve(g, 1)
	_, again := s.Resolve(next, 1)
	if len(again) != 0 {
		t.Errorf("second siege re-flagged %v", again)
	}
}

func TestSiegeDeterministic(t *testing.T) {
	g := fortifiedGrid(t)

	_, a := core.NewSiegeResolver(rand.New(rand.NewSource(42))).Resolve(g, 0.5)
	_, b := core.NewSiegeResolver(rand.New(rand.NewSource(42))).Resolve(g, 0.5)

	if len(a) != len(b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("same seed gave %v and %v", a, b)
		}
	}

	_, none := core.NewSiegeResolver(rand.New(rand.NewSource(42))).Resolve(g, 0)
	if len(none) != 0 {
		t.Errorf("zero probability damaged %v", none)
	}
}

func TestRepair(t *testing.T) {
	g := fortifiedGrid(t)
	g, _ = core.NewSiegeResolver(rand.New(rand.NewSource(1))).Resolve(g, 1)
	cost := core.Amounts{Wood: 2, Stone: 2}
	key := core.C(1, 1).Key()

	t.Run("not damaged", func(t *testing.T) {
		l := core.NewLedger(core.Amounts{Wood: 10, Stone: 10}, testCaps)
		_, _, err := core.Repair(g, l, core.C(5, 5).Key(), cost)
		if !errors.Is(err, core.ErrNotDamaged) {
			t.Errorf("err = %v, expected ErrNotDamaged", err)
		}
	})

	t.Run("insufficient", func(t *testing.T) {
		l := core.NewLedger(core.Amounts{Wood: 1, Stone: 10}, testCaps)
		next, nl, err := core.Repair(g, l, key, cost)
		if !errors.Is(err, core.ErrInsufficientResources) {
			t.Errorf("err = %v, expected ErrInsufficientResources", err)
		}
		if next != g || nl != l {
			t.Error("failed repair changed state")
		}
	})

	t.Run("success", func(t *testing.T) {
		l := core.NewLedger(core.Amounts{Wood: 10, Stone: 10, Food: 3}, testCaps)
		next, nl, err := core.Repair(g, l, key, cost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tile, _ := next.GetKey(key); tile.Building.Damaged {
			t.Error("tile still damaged")
		}
		expected := core.Amounts{Wood: 8, Stone: 8, Food: 3}
		if got := nl.Stored(); got != expected {
			t.Errorf("ledger = %+v, expected %+v", got, expected)
		}
		if tile, _ := g.GetKey(key); !tile.Building.Damaged {
			t.Error("Repair modified its input grid")
		}
	})
}
