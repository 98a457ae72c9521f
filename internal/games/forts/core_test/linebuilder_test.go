package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

func pathEqual(a, b []core.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLineBuilderBegin(t *testing.T) {
	tests := []struct {
		name     string
		tool     core.Tool
		start    core.Coord
		expected bool
	}{
		{"wall", core.ToolZoneWall, core.C(0, 0), true},
		{"moat", core.ToolZoneMoat, core.C(3, 3), true},
		{"land", core.ToolZoneLand, core.C(9, 9), true},
		{"tower is not a drag tool", core.ToolBuildTower, core.C(1, 1), false},
		{"bulldoze is not a drag tool", core.ToolBulldoze, core.C(1, 1), false},
		{"outside grid", core.ToolZoneWall, core.C(10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := core.NewLineBuilder(10)
			if got := lb.Begin(tt.tool, tt.start); got != tt.expected {
				t.Errorf("Begin() = %v, expected %v", got, tt.expected)
			}
			if lb.Active() != tt.expected {
				t.Errorf("Active() = %v, expected %v", lb.Active(), tt.expected)
			}
		})
	}
}

func TestLineBuilderRetraction(t *testing.T) {
	lb := core.NewLineBuilder(10)
	lb.Begin(core.ToolZoneWall, core.C(0, 0))
	lb.Move(core.C(1, 0))
	lb.Move(core.C(2, 0))
	lb.Move(core.C(3, 0))

	expected := []core.Coord{core.C(0, 0), core.C(1, 0), core.C(2, 0), core.C(3, 0)}
	if !pathEqual(lb.Path(), expected) {
		t.Fatalf("Path() = %v, expected %v", lb.Path(), expected)
	}

	// Moving back onto B truncates to [A, B].
	if !lb.Move(core.C(1, 0)) {
		t.Error("Move() back reported no change")
	}
	expected = []core.Coord{core.C(0, 0), core.C(1, 0)}
	if !pathEqual(lb.Path(), expected) {
		t.Errorf("Path() after retraction = %v, expected %v", lb.Path(), expected)
	}
}

func TestLineBuilderMoveRules(t *testing.T) {
	t.Run("same tile", func(t *testing.T) {
		lb := core.NewLineBuilder(10)
		lb.Begin(core.ToolZoneWall, core.C(2, 2))
		if lb.Move(core.C(2, 2)) {
			t.Error("Move() onto the tail changed the path")
		}
	})

	t.Run("outside grid ignored", func(t *testing.T) {
		lb := core.NewLineBuilder(10)
		lb.Begin(core.ToolZoneWall, core.C(9, 9))
		if lb.Move(core.C(10, 9)) {
			t.Error("Move() outside the grid changed the path")
		}
		if len(lb.Path()) != 1 {
			t.Errorf("Path() = %v, expected only the start", lb.Path())
		}
	})

	t.Run("jump fills line from tail", func(t *testing.T) {
		lb := core.NewLineBuilder(10)
		lb.Begin(core.ToolZoneMoat, core.C(0, 0))
		lb.Move(core.C(0, 1))
		lb.Move(core.C(3, 1))
		expected := []core.Coord{core.C(0, 0), core.C(0, 1), core.C(1, 1), core.C(2, 1), core.C(3, 1)}
		if !pathEqual(lb.Path(), expected) {
			t.Errorf("Path() = %v, expected %v", lb.Path(), expected)
		}
	})

	t.Run("line skips tiles already in path", func(t *testing.T) {
		lb := core.NewLineBuilder(10)
		lb.Begin(core.ToolZoneMoat, core.C(0, 0))
		lb.Move(core.C(1, 0))
		lb.Move(core.C(1, 1))
		lb.Move(core.C(0, 1))
		// Line from (0,1) to (0,3) only adds the new tiles.
		lb.Move(core.C(0, 3))
		expected := []core.Coord{core.C(0, 0), core.C(1, 0), core.C(1, 1), core.C(0, 1), core.C(0, 2), core.C(0, 3)}
		if !pathEqual(lb.Path(), expected) {
			t.Errorf("Path() = %v, expected %v", lb.Path(), expected)
		}
	})
}

func TestLineBuilderCancel(t *testing.T) {
	lb := core.NewLineBuilder(10)
	lb.Begin(core.ToolZoneWall, core.C(0, 0))
	lb.Move(core.C(1, 0))

	lb.KeyEscape()

	if lb.Active() || len(lb.Path()) != 0 {
		t.Errorf("after Escape: Active() = %v, Path() = %v", lb.Active(), lb.Path())
	}
	if path := lb.End(); path != nil {
		t.Errorf("End() after cancel = %v, expected nil", path)
	}
}

func TestLineBuilderCommit(t *testing.T) {
	b := newBoard(3)
	lb := core.NewLineBuilder(10)
	lb.Begin(core.ToolZoneWall, core.C(0, 0))
	lb.Move(core.C(4, 0))

	next, applied := lb.Commit(rules(), b, core.Options{})

	if applied != 3 {
		t.Errorf("applied = %d, expected 3 (pool size)", applied)
	}
	if next.WallBlocks != 0 {
		t.Errorf("WallBlocks = %d, expected 0", next.WallBlocks)
	}
	if lb.Active() {
		t.Error("builder still active after commit")
	}
}

func TestLineBuilderZeroLengthIsClick(t *testing.T) {
	b := newBoard(3)
	lb := core.NewLineBuilder(10)
	lb.Begin(core.ToolZoneWall, core.C(2, 2))

	next, applied := lb.Commit(rules(), b, core.Options{})

	if applied != 1 || next.WallBlocks != 2 {
		t.Errorf("applied = %d, WallBlocks = %d, expected 1 and 2", applied, next.WallBlocks)
	}
}

func TestLineBuilderPointer(t *testing.T) {
	v := core.NewViewport(64, 32)
	v.OffsetX = 320
	v.Compression = 0.975
	lb := core.NewLineBuilder(10)

	sx, sy := v.GridToScreen(2, 3)
	if !lb.PointerDown(v, core.ToolZoneLand, sx, sy, core.ButtonLeft) {
		t.Fatal("PointerDown() did not start a drag")
	}
	sx, sy = v.GridToScreen(2, 5)
	lb.PointerMove(v, sx, sy)

	path := lb.PointerUp(core.ButtonLeft)
	expected := []core.Coord{core.C(2, 3), core.C(2, 4), core.C(2, 5)}
	if !pathEqual(path, expected) {
		t.Errorf("PointerUp() = %v, expected %v", path, expected)
	}

	lb.PointerDown(v, core.ToolZoneLand, sx, sy, core.ButtonLeft)
	lb.PointerDown(v, core.ToolZoneLand, sx, sy, core.ButtonRight)
	if lb.Active() {
		t.Error("right button did not cancel the drag")
	}

	lb.PointerDown(v, core.ToolZoneLand, sx, sy, core.ButtonLeft)
	lb.PointerLeave()
	if lb.Active() {
		t.Error("leaving the canvas did not cancel the drag")
	}
}
