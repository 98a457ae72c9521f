package forts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-forts/internal/core"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

const testConfig = `grid:
  size: 10
  start_block: 2
phases:
  build: 1m
  round_end: 5s
  defense: 2s
walls:
  starting_blocks: 40
  default_type: palisade
persistence:
  autosave_interval: 0s
`

type fakeSink struct {
	saves  []SaveData
	rounds []RoundData
	err    error
}

func (s *fakeSink) SaveFortData(data SaveData) error {
	if s.err != nil {
		return s.err
	}
	s.saves = append(s.saves, data)
	return nil
}

func (s *fakeSink) RecordRoundData(data RoundData) error {
	s.rounds = append(s.rounds, data)
	return nil
}

// newTestGame starts a game on a 10x10 grid with a manual clock.
func newTestGame(t *testing.T, l Launch) (*Game, *fort.ManualClock, *fakeSink) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "forts.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clk := fort.NewManualClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := &fakeSink{}
	SetConfigPath(path)
	SetClock(clk)
	SetSaveSink(s)
	SetLaunch(l)
	t.Cleanup(func() {
		SetConfigPath("")
		SetClock(nil)
		SetSaveSink(nil)
		SetLaunch(Launch{})
	})

	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})
	return g, clk, s
}

func step(g *Game, actions ...core.Action) {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	g.Step(in)
}

func TestNameEntry(t *testing.T) {
	g, _, s := newTestGame(t, Launch{})

	if g.state.Phase != fort.PhaseNameEntry {
		t.Fatalf("Phase = %s, expected %s", g.state.Phase, fort.PhaseNameEntry)
	}
	if !g.WantsText() {
		t.Error("WantsText() = false, expected true during name entry")
	}

	in := core.NewInputFrame()
	in.Type([]rune("Keep!")...)
	g.Step(in)
	step(g, core.ActionErase)
	step(g, core.ActionConfirm)

	if g.state.FortName != "Keep" {
		t.Errorf("FortName = %q, expected %q", g.state.FortName, "Keep")
	}
	if g.state.Phase != fort.PhaseCardDraw {
		t.Errorf("Phase = %s, expected %s", g.state.Phase, fort.PhaseCardDraw)
	}
	if g.WantsText() {
		t.Error("WantsText() = true after name entry")
	}
	if len(s.saves) != 1 {
		t.Fatalf("saves = %d, expected 1 autosave on phase change", len(s.saves))
	}
	if s.saves[0].FortName != "Keep" || s.saves[0].Phase != string(fort.PhaseCardDraw) {
		t.Errorf("save = %+v", s.saves[0])
	}
}

func TestNameEntryLimit(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{})

	in := core.NewInputFrame()
	in.Type([]rune(strings.Repeat("a", maxNameLen+10))...)
	g.Step(in)

	if len(g.name) != maxNameLen {
		t.Errorf("len(name) = %d, expected %d", len(g.name), maxNameLen)
	}
}

func TestLaunchSkipsNameEntry(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{ID: "fort-1", FortName: "Aldmoor", FreeBuilder: true})

	if g.state.ID != "fort-1" {
		t.Errorf("ID = %q, expected %q", g.state.ID, "fort-1")
	}
	if g.state.Phase != fort.PhaseCardDraw {
		t.Errorf("Phase = %s, expected %s", g.state.Phase, fort.PhaseCardDraw)
	}
	if !g.state.Ledger.FreeBuilder {
		t.Error("FreeBuilder = false, expected true")
	}
	if g.cursor != fort.C(4, 4) {
		t.Errorf("cursor = %v, expected first start tile (4,4)", g.cursor)
	}
}

func TestLaunchIsConsumed(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})

	if g.state.Phase != fort.PhaseNameEntry {
		t.Errorf("Phase = %s, expected a fresh game after the launch was used", g.state.Phase)
	}
}

func TestNewWithLaunch(t *testing.T) {
	newTestGame(t, Launch{})
	SetLaunch(Launch{ID: "global", FortName: "Global"})

	g := NewWithLaunch(Launch{ID: "session", FortName: "Session"})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})

	if g.state.ID != "session" || g.state.FortName != "Session" {
		t.Errorf("state = %s %q, expected the per-game launch", g.state.ID, g.state.FortName)
	}

	// The pending global launch is left for the next plain game
	other := New()
	other.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	if other.state.ID != "global" || other.state.FortName != "Global" {
		t.Errorf("state = %s %q, expected the global launch", other.state.ID, other.state.FortName)
	}

	other.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	if other.state.Phase != fort.PhaseNameEntry {
		t.Errorf("Phase = %s, expected a fresh game once the launch is used", other.state.Phase)
	}

	// A second Reset of the same game starts fresh
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	if g.state.Phase != fort.PhaseNameEntry {
		t.Errorf("Phase after second Reset = %s, expected %s", g.state.Phase, fort.PhaseNameEntry)
	}
}

func TestConcurrentSessionResets(t *testing.T) {
	newTestGame(t, Launch{})
	SetSaveSink(nil)

	const sessions = 8
	games := make([]*Game, sessions)
	var wg sync.WaitGroup
	for i := range sessions {
		games[i] = NewWithLaunch(Launch{ID: fmt.Sprintf("session-%d", i), FortName: "Keep"})
		wg.Add(1)
		go func(g *Game) {
			defer wg.Done()
			g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
		}(games[i])
	}
	wg.Wait()

	for i, g := range games {
		if expected := fmt.Sprintf("session-%d", i); g.state.ID != expected {
			t.Errorf("games[%d].state.ID = %q, expected %q", i, g.state.ID, expected)
		}
	}
}

func TestStepReportsPhaseChange(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})

	in := core.NewInputFrame()
	if res := g.Step(in); res.PhaseChanged {
		t.Error("PhaseChanged = true on an idle tick")
	}

	in.Set(core.ActionConfirm)
	res := g.Step(in)
	if !res.PhaseChanged {
		t.Error("PhaseChanged = false, expected true after card draw")
	}
	if res.State.Phase != string(fort.PhaseBuild) || res.State.Round != g.state.Round {
		t.Errorf("State = %+v, expected build phase", res.State)
	}
	if !strings.Contains(res.State.Title, "Aldmoor") {
		t.Errorf("Title = %q, expected the fort name", res.State.Title)
	}
}

func TestResume(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{ID: "fort-7", FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	step(g, core.ActionAdvance)
	snap, err := fort.Encode(g.state)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	resumed, _, _ := newTestGame(t, Launch{Resume: snap})
	if resumed.state.ID != "fort-7" {
		t.Errorf("ID = %q, expected %q", resumed.state.ID, "fort-7")
	}
	if resumed.state.Phase != g.state.Phase {
		t.Errorf("Phase = %s, expected %s", resumed.state.Phase, g.state.Phase)
	}

	broken, _, _ := newTestGame(t, Launch{Resume: []byte("{")})
	if broken.state.Phase != fort.PhaseNameEntry {
		t.Errorf("Phase = %s, expected a new game when the snapshot is invalid", broken.state.Phase)
	}
}

func TestLayoutLaunch(t *testing.T) {
	wall := fort.GrassTile()
	wall.Zone = fort.ZoneWall
	wall.WallType = fort.WallStone
	layout := fort.NewGrid(10, 2).With(fort.C(0, 0), wall)

	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor", Layout: layout})
	tile, _ := g.state.Grid.Get(fort.C(0, 0))
	if tile.Zone != fort.ZoneWall {
		t.Errorf("Zone = %s, expected %s", tile.Zone, fort.ZoneWall)
	}
	if g.state.Stats.Defense != 1 {
		t.Errorf("Defense = %d, expected 1", g.state.Stats.Defense)
	}
	if g.State().Score != 1 {
		t.Errorf("Score = %d, expected defense as score", g.State().Score)
	}
}

func TestDragWallWithKeyboard(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	if g.state.Phase != fort.PhaseBuild {
		t.Fatalf("Phase = %s, expected %s", g.state.Phase, fort.PhaseBuild)
	}

	g.dispatch(fort.SelectTool{Tool: fort.ToolZoneWall})
	g.cursor = fort.C(1, 1)
	step(g, core.ActionPlace)
	step(g, core.ActionRight)
	step(g, core.ActionRight)
	step(g, core.ActionPlace)

	for x := 1; x <= 3; x++ {
		tile, _ := g.state.Grid.Get(fort.C(x, 1))
		if tile.Zone != fort.ZoneWall {
			t.Errorf("tile (%d,1) zone = %s, expected %s", x, tile.Zone, fort.ZoneWall)
		}
	}
	if g.state.WallBlocks != 37 {
		t.Errorf("WallBlocks = %d, expected 37", g.state.WallBlocks)
	}
	if g.lines.Active() {
		t.Error("line still active after commit")
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	g.dispatch(fort.SelectTool{Tool: fort.ToolZoneWall})
	g.cursor = fort.C(1, 1)

	step(g, core.ActionPlace)
	step(g, core.ActionRight)
	step(g, core.ActionBack)

	if g.lines.Active() {
		t.Error("line still active after escape")
	}
	if g.state.WallBlocks != 40 {
		t.Errorf("WallBlocks = %d, expected 40", g.state.WallBlocks)
	}
}

func TestPointerDrag(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	g.dispatch(fort.SelectTool{Tool: fort.ToolZoneLand})

	from, to := fort.C(1, 2), fort.C(1, 3)
	fx, fy := g.cell(from)
	tx, ty := g.cell(to)
	if !g.mapRect().Contains(fx, fy) || !g.mapRect().Contains(tx, ty) {
		t.Fatalf("test tiles are off screen")
	}

	in := core.NewInputFrame()
	in.Point(core.PointerEvent{X: fx, Y: fy, Kind: core.PointerDown})
	in.Point(core.PointerEvent{X: tx, Y: ty, Kind: core.PointerMove})
	in.Point(core.PointerEvent{X: tx, Y: ty, Kind: core.PointerUp})
	g.Step(in)

	for _, c := range []fort.Coord{from, to} {
		tile, _ := g.state.Grid.Get(c)
		if tile.Zone != fort.ZoneLand {
			t.Errorf("tile %v zone = %s, expected %s", c, tile.Zone, fort.ZoneLand)
		}
	}
	if g.cursor != to {
		t.Errorf("cursor = %v, expected %v", g.cursor, to)
	}
}

func TestPointerRightButtonCancels(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	g.dispatch(fort.SelectTool{Tool: fort.ToolZoneWall})

	x, y := g.cell(fort.C(1, 1))
	in := core.NewInputFrame()
	in.Point(core.PointerEvent{X: x, Y: y, Kind: core.PointerDown})
	in.Point(core.PointerEvent{X: x, Y: y, Kind: core.PointerDown, Button: core.PointerRight})
	in.Point(core.PointerEvent{X: x, Y: y, Kind: core.PointerUp})
	g.Step(in)

	if g.state.WallBlocks != 40 {
		t.Errorf("WallBlocks = %d, expected 40", g.state.WallBlocks)
	}
}

func TestRejectedPlacementShowsReason(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	g.dispatch(fort.SelectTool{Tool: fort.ToolBuildTower})
	g.cursor = fort.C(0, 0)

	step(g, core.ActionPlace)

	if !strings.Contains(strings.ToLower(g.message), strings.ToLower(fort.ErrRequiresWall.Error())) {
		t.Errorf("message = %q, expected the placement error", g.message)
	}
}

func TestCycleToolSkipsBulldozeAll(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)

	for range len(fort.Tools) * 2 {
		step(g, core.ActionNextTool)
		if g.state.SelectedTool == fort.ToolBulldozeAll {
			t.Fatal("bulldoze_all selected without free builder")
		}
	}

	step(g, core.ActionToggleFreeBuilder)
	found := false
	for range len(fort.Tools) {
		step(g, core.ActionNextTool)
		if g.state.SelectedTool == fort.ToolBulldozeAll {
			found = true
			break
		}
	}
	if !found {
		t.Error("bulldoze_all never selected in free builder mode")
	}
}

func TestPlayMoatCard(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})

	step(g, core.ActionPlayCard)
	if g.state.Card == nil || g.state.Card.CardID != "terrain_moat_common" {
		t.Fatalf("Card = %+v, expected terrain_moat_common", g.state.Card)
	}
	if g.state.Ledger.Balances.Food != 20 {
		t.Errorf("Food = %d, expected 20", g.state.Ledger.Balances.Food)
	}
	if g.state.SelectedTool != fort.ToolZoneMoat {
		t.Errorf("SelectedTool = %s, expected %s", g.state.SelectedTool, fort.ToolZoneMoat)
	}

	// The next moat card costs 25 food.
	step(g, core.ActionPlayCard)
	if g.state.Card.CardID != "terrain_moat_common" {
		t.Errorf("Card = %s, expected the unaffordable card to be refused", g.state.Card.CardID)
	}
	if !strings.HasPrefix(g.message, "Cannot afford") {
		t.Errorf("message = %q", g.message)
	}
}

func TestRoundLoop(t *testing.T) {
	g, clk, s := newTestGame(t, Launch{FortName: "Aldmoor"})

	step(g, core.ActionConfirm)
	if g.state.Phase != fort.PhaseBuild {
		t.Fatalf("Phase = %s, expected %s", g.state.Phase, fort.PhaseBuild)
	}

	clk.Advance(time.Minute)
	step(g)
	if g.state.Phase != fort.PhaseDefense {
		t.Fatalf("Phase = %s, expected %s after the build timer", g.state.Phase, fort.PhaseDefense)
	}

	step(g)
	if g.state.Phase != fort.PhaseDefense {
		t.Fatalf("Phase = %s, expected the siege to stay on screen", g.state.Phase)
	}

	clk.Advance(2 * time.Second)
	step(g)
	if g.state.Phase != fort.PhaseRepair {
		t.Fatalf("Phase = %s, expected %s", g.state.Phase, fort.PhaseRepair)
	}
	if len(s.rounds) != 1 || s.rounds[0].Round != 1 {
		t.Errorf("rounds = %+v, expected round 1 recorded", s.rounds)
	}

	step(g, core.ActionAdvance)
	if g.state.Phase != fort.PhaseRoundEnd {
		t.Fatalf("Phase = %s, expected %s", g.state.Phase, fort.PhaseRoundEnd)
	}

	clk.Advance(5 * time.Second)
	step(g)
	if g.state.Phase != fort.PhaseCardDraw || g.state.Round != 2 {
		t.Errorf("Phase = %s round %d, expected %s round 2", g.state.Phase, g.state.Round, fort.PhaseCardDraw)
	}
	if len(s.saves) < 5 {
		t.Errorf("saves = %d, expected one per phase change", len(s.saves))
	}
}

func TestPauseIgnoresInput(t *testing.T) {
	g, clk, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)

	step(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("Paused = false, expected true")
	}
	step(g, core.ActionAdvance)
	if g.state.Phase != fort.PhaseBuild {
		t.Errorf("Phase = %s, expected input ignored while paused", g.state.Phase)
	}

	step(g, core.ActionPause)
	clk.Advance(time.Minute)
	step(g)
	if g.state.Phase != fort.PhaseDefense {
		t.Errorf("Phase = %s, expected %s", g.state.Phase, fort.PhaseDefense)
	}
}

func TestSaveErrors(t *testing.T) {
	g, _, s := newTestGame(t, Launch{})

	if err := g.Save(); err != nil {
		t.Errorf("Save() during name entry = %v, expected nil", err)
	}
	if len(s.saves) != 0 {
		t.Errorf("saves = %d, expected none during name entry", len(s.saves))
	}

	step(g, core.ActionConfirm)
	s.err = errors.New("disk full")
	if err := g.Save(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Save() error = %v, expected wrapped sink error", err)
	}
}

func TestRender(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Card draw") {
		t.Error("card draw overlay not drawn")
	}

	step(g, core.ActionConfirm)
	screen.Clear()
	g.Render(screen)

	if row := screen.Row(0); !strings.Contains(row, "Aldmoor") || !strings.Contains(row, "Round 1") {
		t.Errorf("HUD = %q, expected fort name and round", row)
	}
	if !strings.Contains(screen.Row(0), "1:00") {
		t.Errorf("HUD = %q, expected build timer", screen.Row(0))
	}
	if !strings.Contains(screen.String(), "▒") {
		t.Error("start tiles not drawn")
	}

	col, row := g.cell(g.cursor)
	if got := screen.Get(col-2, row); got != '[' {
		t.Errorf("cursor marker = %q, expected '['", got)
	}
	if got := screen.GetCell(col-2, row).Color; got != core.ColorBrightWhite {
		t.Errorf("cursor color = %v, expected %v", got, core.ColorBrightWhite)
	}
}

func TestRenderUnderground(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)
	step(g, core.ActionToggleUnderground)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.Row(1), "UNDERGROUND") {
		t.Errorf("HUD = %q, expected underground tag", screen.Row(1))
	}
}

func TestRenderNameEntry(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{})
	in := core.NewInputFrame()
	in.Type('K', 'e', 'e', 'p')
	g.Step(in)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Keep_") {
		t.Errorf("name entry box missing typed name:\n%s", screen.String())
	}
}

func TestRenderTooSmall(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	g.Resize(20, 8)
	screen := core.NewScreen(20, 8)
	g.Render(screen)

	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected too small message")
	}
}

func TestKeepCursorVisible(t *testing.T) {
	g, _, _ := newTestGame(t, Launch{FortName: "Aldmoor"})
	step(g, core.ActionConfirm)

	for range 9 {
		step(g, core.ActionUp)
	}
	if g.cursor != fort.C(4, 0) {
		t.Fatalf("cursor = %v, expected (4,0)", g.cursor)
	}
	col, row := g.cell(g.cursor)
	if !g.mapRect().Contains(col, row) {
		t.Errorf("cursor cell (%d,%d) outside map %+v", col, row, g.mapRect())
	}
}

func TestClockText(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{3 * time.Minute, "3:00"},
		{65 * time.Second, "1:05"},
	}
	for _, tt := range tests {
		if got := clockText(tt.in); got != tt.expected {
			t.Errorf("clockText(%v) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestPlainMap(t *testing.T) {
	tower := fort.GrassTile()
	tower.Building = fort.NewBuilding(fort.BuildingTower)
	tower.Zone = fort.ZoneWall
	tower.WallType = fort.WallPalisade
	grid := fort.NewGrid(4, 2).With(fort.C(0, 0), tower)

	lines := strings.Split(PlainMap(grid, false), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, expected 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "TW") {
		t.Errorf("row 0 = %q, expected tower code first", lines[0])
	}
	if lines[1] != "··▒▒▒▒··" {
		t.Errorf("row 1 = %q", lines[1])
	}
}
