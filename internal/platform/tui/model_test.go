package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-forts/internal/core"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

// fakeGame records what the platform feeds it.
type fakeGame struct {
	resets  int
	steps   []core.InputFrame
	typing  bool
	paused  bool
	saves   int
	saveErr error
	resized [2]int
	title   string
	changed bool
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
}
func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps = append(g.steps, in.Clone())
	return core.StepResult{State: g.State(), PhaseChanged: g.changed}
}
func (g *fakeGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "fake")
}
func (g *fakeGame) State() core.GameState {
	return core.GameState{Title: g.title, Paused: g.paused}
}
func (g *fakeGame) WantsText() bool          { return g.typing }
func (g *fakeGame) Resize(width, height int) { g.resized = [2]int{width, height} }
func (g *fakeGame) Save() error {
	g.saves++
	return g.saveErr
}

func newTestModel(g *fakeGame) Model {
	return NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 30, Seed: 1})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return mm
}

func TestModelRoutesInput(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	m.Init()

	m = update(t, m, runeKey("d"))
	m = update(t, m, tea.MouseMsg{X: 2, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, TickMsg{})

	if len(g.steps) != 1 {
		t.Fatalf("steps = %d, expected 1", len(g.steps))
	}
	in := g.steps[0]
	if !in.Has(core.ActionRight) {
		t.Error("Step() did not get ActionRight")
	}
	if len(in.Pointers) != 1 || in.Pointers[0].X != 2 || in.Pointers[0].Kind != core.PointerDown {
		t.Errorf("Pointers = %+v", in.Pointers)
	}

	// Input is cleared between ticks
	update(t, m, TickMsg{})
	if g.steps[1].Has(core.ActionRight) || len(g.steps[1].Pointers) != 0 {
		t.Error("input leaked into the next tick")
	}
}

func TestModelTextInput(t *testing.T) {
	g := &fakeGame{typing: true}
	m := newTestModel(g)

	m = update(t, m, runeKey("q"))
	if m.IsQuitting() {
		t.Fatal("q quit while the game takes text")
	}
	update(t, m, TickMsg{})
	if got := string(g.steps[0].Text); got != "q" {
		t.Errorf("Text = %q, expected q", got)
	}
}

func TestModelQuitSaves(t *testing.T) {
	g := &fakeGame{saveErr: errors.New("disk full")}
	m := newTestModel(g)

	m = update(t, m, runeKey("q"))
	if !m.IsQuitting() {
		t.Fatal("IsQuitting() = false after q")
	}
	if g.saves != 1 {
		t.Errorf("saves = %d, expected 1", g.saves)
	}
	if m.SaveErr() == nil {
		t.Error("SaveErr() = nil, expected the save error")
	}
	if m.View() != "" {
		t.Error("View() not empty after quitting")
	}
}

func TestModelBackToMenuWhenPaused(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)

	// Esc while playing reaches the game
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("BackToMenu() = true while not paused")
	}

	g.paused = true
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("BackToMenu() = false after esc on pause")
	}
	if g.saves != 1 {
		t.Errorf("saves = %d, expected 1", g.saves)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	m.Init()

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Errorf("resets = %d, expected only the initial one", g.resets)
	}
	if g.resized != [2]int{100, 30} {
		t.Errorf("resized = %v", g.resized)
	}
	if !strings.HasPrefix(m.View(), "fake") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestModelTracksTitle(t *testing.T) {
	g := &fakeGame{title: "IsoForts - Keep, round 1"}
	m := newTestModel(g)

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if m.gameState.Title != g.title {
		t.Errorf("Title = %q, expected %q", m.gameState.Title, g.title)
	}
	if cmd == nil {
		t.Fatal("tick returned no command")
	}

	g.title = "IsoForts - Keep, round 2"
	g.changed = true
	m = update(t, m, TickMsg{})
	if m.gameState.Title != g.title {
		t.Errorf("Title = %q, expected %q after a phase change", m.gameState.Title, g.title)
	}
}

func TestMenuItems(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "menu.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveFort(storage.FortRecord{ID: "f1", FortName: "Aldmoor", Round: 2, Phase: "build", GridSize: 48, Snapshot: []byte("{}")})

	m := NewMenuModel(store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	kinds := map[MenuItemKind]int{}
	for _, it := range m.items {
		kinds[it.Kind]++
	}
	if kinds[ItemNew] != 1 || kinds[ItemFreeBuilder] != 1 || kinds[ItemResume] != 1 || kinds[ItemBoard] != 1 {
		t.Errorf("menu kinds = %v", kinds)
	}
	if kinds[ItemBlueprint] < 2 {
		t.Errorf("blueprints = %d, expected the built-in ones", kinds[ItemBlueprint])
	}

	noStore := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	for _, it := range noStore.items {
		if it.Kind == ItemResume || it.Kind == ItemBoard {
			t.Errorf("menu without store lists %q", it.Title)
		}
	}
}

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return mm
}

func TestMenuNewFort(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.naming {
		t.Fatal("selecting New fort did not ask for a name")
	}
	m = menuUpdate(t, m, runeKey("Keep"))
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	l := m.Launch()
	if l == nil {
		t.Fatal("Launch() = nil")
	}
	if l.FortName != "Keep" || l.FreeBuilder || l.Layout != nil {
		t.Errorf("Launch() = %+v", l)
	}
}

func TestMenuBlueprintAndFreeBuilder(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if l := m.Launch(); l == nil || !l.FreeBuilder || l.FortName != "" {
		t.Errorf("free builder Launch() = %+v", l)
	}

	m = NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.naming || m.Launch() != nil {
		t.Fatal("esc did not cancel naming")
	}
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	l := m.Launch()
	if l == nil || l.Layout == nil {
		t.Fatalf("blueprint Launch() = %+v", l)
	}
	if l.Layout.Size != 48 {
		t.Errorf("Layout.Size = %d, expected 48", l.Layout.Size)
	}
}

func TestMenuResumeAndDelete(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "menu.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveFort(storage.FortRecord{ID: "f1", FortName: "Aldmoor", Round: 2, Phase: "build", GridSize: 48, Snapshot: []byte(`{"id":"f1"}`)})
	store.SaveFort(storage.FortRecord{ID: "f2", FortName: "Brindle", Round: 1, Phase: "build", GridSize: 48, Snapshot: []byte(`{"id":"f2"}`)})

	m := NewMenuModel(store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	resumeAt := -1
	for i, it := range m.items {
		if it.Kind == ItemResume {
			resumeAt = i
			break
		}
	}
	if resumeAt < 0 {
		t.Fatal("no resume item")
	}
	m.cursor = resumeAt
	id := m.items[resumeAt].FortID

	m = menuUpdate(t, m, runeKey("x"))
	if rec, _ := store.LoadFort(id); rec != nil {
		t.Errorf("fort %s still saved after delete", id)
	}
	if !strings.HasPrefix(m.status, "Deleted") {
		t.Errorf("status = %q", m.status)
	}

	m.cursor = resumeAt
	m = menuUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	l := m.Launch()
	if l == nil || len(l.Resume) == 0 || l.ID == id {
		t.Errorf("resume Launch() = %+v", l)
	}
}

func TestBoardModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveFort(storage.FortRecord{ID: "weak", FortName: "Weak", Defense: 2, Phase: "build", GridSize: 48, Snapshot: []byte("{}")})
	store.SaveFort(storage.FortRecord{ID: "strong", FortName: "Strong", Defense: 40, Phase: "build", GridSize: 48, Snapshot: []byte("{}")})
	store.RecordRound(storage.RoundResult{FortID: "strong", Round: 1, Damaged: 3, Defense: 40})

	m := NewBoardModel(store, 120, 30)
	if len(m.forts) != 2 || m.forts[0].ID != "strong" {
		t.Fatalf("forts = %+v, expected strongest first", m.forts)
	}
	if len(m.history) != 1 || m.stats == nil || m.stats.BestDefense != 40 {
		t.Errorf("history = %+v, stats = %+v", m.history, m.stats)
	}
	if !strings.Contains(m.View(), "Sieges of Strong") {
		t.Error("View() has no history panel")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(BoardModel)
	if r := m.Resume(); r == nil || r.ID != "strong" {
		t.Errorf("Resume() = %+v", r)
	}

	empty := NewBoardModel(nil, 60, 20)
	if !strings.Contains(empty.View(), "No forts saved yet") {
		t.Error("empty board has no placeholder")
	}
}
