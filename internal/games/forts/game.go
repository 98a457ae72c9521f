// Package forts adapts the IsoForts engine to the terminal platform:
// input mapping, the isometric terminal renderer and autosaving.
package forts

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-forts/internal/config"
	"github.com/vovakirdan/tui-forts/internal/core"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
	"github.com/vovakirdan/tui-forts/internal/registry"
)

const (
	maxNameLen     = 32
	messageTimeout = 3 * time.Second
)

// Launch describes how the next Reset starts a game.
type Launch struct {
	ID          string       // fort id; generated when empty
	FortName    string       // skips name entry when set
	Resume      []byte       // snapshot to restore instead of a new game
	FreeBuilder bool         // start with unlimited resources
	Layout      *fort.Grid   // pre-built grid replacing the fresh one
	Cards       fort.Catalog // replaces the configured catalog when set
}

// Package-level variables for config
var (
	configPath string
	preset     config.DifficultyPreset
	launch     Launch
	launchMu   sync.Mutex
	sink       SaveSink
	logger     = log.New(io.Discard)
	clock      fort.Clock
)

// SetConfigPath sets the config file used by the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficulty sets the difficulty preset. An empty preset keeps the config.
func SetDifficulty(p config.DifficultyPreset) {
	preset = p
}

// SetLaunch sets how the next game starts. It is cleared after use.
func SetLaunch(l Launch) {
	launchMu.Lock()
	launch = l
	launchMu.Unlock()
}

// takeLaunch returns the pending launch and clears it.
func takeLaunch() Launch {
	launchMu.Lock()
	defer launchMu.Unlock()
	l := launch
	launch = Launch{}
	return l
}

// SetSaveSink sets where games autosave.
func SetSaveSink(s SaveSink) {
	sink = s
}

// SetLogger routes game and engine diagnostics to l.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// SetClock replaces the wall clock. A nil clock restores the system clock.
func SetClock(c fort.Clock) {
	clock = c
}

// Game implements registry.Game for IsoForts.
type Game struct {
	cfg    config.FortsConfig
	engine *fort.Engine
	state  fort.State
	lines  *fort.LineBuilder
	view   fort.Viewport
	cursor fort.Coord
	name   []rune
	sink   SaveSink
	logger *log.Logger
	next   *Launch // per-instance launch, wins over SetLaunch

	screenW int
	screenH int
	paused  bool

	message      string
	messageUntil time.Time
	defenseAt    time.Time // when the siege display started
	lastSave     time.Time
}

// New creates a new IsoForts game.
func New() *Game {
	return &Game{}
}

var _ registry.Game = (*Game)(nil)

// NewWithLaunch creates a game that starts with l regardless of SetLaunch.
// Concurrent sessions use it instead of the package-level launch.
func NewWithLaunch(l Launch) *Game {
	return &Game{next: &l}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "forts"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "IsoForts"
}

// Reset loads configuration and starts or resumes a fort.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.logger = logger
	cfg, err := config.LoadForts(configPath)
	if err != nil {
		g.logger.Warn("using default config", "error", err)
		cfg = config.DefaultFortsConfig()
	}
	if preset != "" {
		config.ApplyFortsPreset(&cfg, preset)
	}
	g.cfg = cfg

	g.engine = NewEngine(cfg, clock, rc.Seed)
	g.engine.SetLogger(g.logger)
	g.sink = sink
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.paused = false
	g.name = g.name[:0]
	g.message = ""

	var l Launch
	if g.next != nil {
		l = *g.next
		g.next = nil
	} else {
		l = takeLaunch()
	}
	if l.Cards != nil {
		g.engine.SetCatalog(l.Cards)
	}
	g.state = g.start(l)

	g.lines = fort.NewLineBuilder(g.state.GridSize())
	g.cursor = fort.C(g.state.GridSize()/2, g.state.GridSize()/2)
	if starts := g.state.Grid.StartCoords(); len(starts) > 0 {
		g.cursor = starts[0]
	}
	g.view = terminalViewport()
	g.recenter()

	now := g.now()
	g.lastSave = now
	if g.state.Phase == fort.PhaseDefense {
		g.defenseAt = now
	}
}

// start creates the initial state for a launch.
func (g *Game) start(l Launch) fort.State {
	if len(l.Resume) > 0 {
		s, err := g.engine.Restore(l.Resume)
		if err == nil {
			g.logger.Info("fort restored", "id", s.ID, "name", s.FortName, "round", s.Round, "phase", s.Phase)
			return s
		}
		g.logger.Error("cannot restore fort, starting a new one", "error", err)
	}

	id := l.ID
	if id == "" {
		id = fmt.Sprintf("fort-%d", g.now().UnixNano())
	}
	s := g.engine.New(id)
	if l.Layout != nil {
		if l.Layout.Size == s.GridSize() {
			s.Grid = l.Layout.Clone()
			s.Stats = s.Grid.Stats()
		} else {
			g.logger.Warn("layout ignored, grid size differs", "layout", l.Layout.Size, "grid", s.GridSize())
		}
	}
	if l.FreeBuilder {
		s = g.engine.Dispatch(s, fort.ToggleFreeBuilder{})
	}
	if l.FortName != "" {
		s = g.engine.Dispatch(s, fort.SubmitName{Name: l.FortName})
	}
	return s
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && g.state.Phase != fort.PhaseNameEntry {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	prev := g.state
	now := g.now()

	switch g.state.Phase {
	case fort.PhaseNameEntry:
		g.stepName(in)
	case fort.PhaseCardDraw:
		g.stepMap(in)
		g.stepCardDraw(in)
	case fort.PhaseBuild:
		g.stepMap(in)
		g.stepBuild(in)
	case fort.PhaseDefense:
		g.stepMap(in)
		if now.Sub(g.defenseAt) >= g.cfg.Phases.Defense {
			g.dispatch(fort.CompleteDefense{})
		}
	case fort.PhaseRepair:
		g.stepMap(in)
		g.stepRepair(in)
	case fort.PhaseRoundEnd:
		g.stepMap(in)
	}

	g.dispatch(fort.Tick{})
	g.afterStep(prev, now)

	return core.StepResult{State: g.State(), PhaseChanged: prev.Phase != g.state.Phase}
}

// stepName handles typing the fort name.
func (g *Game) stepName(in core.InputFrame) {
	for _, r := range in.Text {
		if len(g.name) < maxNameLen && unicode.IsPrint(r) {
			g.name = append(g.name, r)
		}
	}
	if in.Has(core.ActionErase) && len(g.name) > 0 {
		g.name = g.name[:len(g.name)-1]
	}
	if in.Has(core.ActionConfirm) {
		g.dispatch(fort.SubmitName{Name: string(g.name)})
	}
}

// stepMap handles input shared by every phase that shows the map.
func (g *Game) stepMap(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(0, -1)
	case in.Has(core.ActionDown):
		g.moveCursor(0, 1)
	case in.Has(core.ActionLeft):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionRight):
		g.moveCursor(1, 0)
	}
	if in.Has(core.ActionRecenter) {
		g.recenter()
	}
	if in.Has(core.ActionToggleUnderground) {
		g.dispatch(fort.SetUnderground{On: !g.state.ShowUnderground})
	}
	if in.Has(core.ActionToggleFreeBuilder) {
		g.dispatch(fort.ToggleFreeBuilder{})
		if g.state.Ledger.FreeBuilder {
			g.say("Free builder on")
		} else {
			g.say("Free builder off")
		}
	}
}

func (g *Game) stepCardDraw(in core.InputFrame) {
	if in.Has(core.ActionPlayCard) {
		g.playNextMoatCard()
	}
	if in.Has(core.ActionConfirm) || in.Has(core.ActionAdvance) {
		g.dispatch(fort.ContinueDraw{})
	}
}

func (g *Game) stepBuild(in core.InputFrame) {
	if in.Has(core.ActionNextTool) {
		g.cycleTool(1)
	}
	if in.Has(core.ActionPrevTool) {
		g.cycleTool(-1)
	}
	if in.Has(core.ActionCycleWallType) {
		next := fort.WallStone
		if g.state.WallType == fort.WallStone {
			next = fort.WallPalisade
		}
		g.dispatch(fort.SetWallType{WallType: next})
		g.say(fmt.Sprintf("Walls: %s", next))
	}
	if in.Has(core.ActionPlayCard) {
		g.playNextMoatCard()
	}
	if in.Has(core.ActionBack) {
		g.lines.KeyEscape()
	}
	if in.Has(core.ActionPlace) {
		g.placeAtCursor()
	}
	for _, p := range in.Pointers {
		g.handlePointer(p)
	}
	if in.Has(core.ActionAdvance) {
		g.lines.Cancel()
		g.dispatch(fort.BuildTimeUp{})
	}
}

func (g *Game) stepRepair(in core.InputFrame) {
	if in.Has(core.ActionNextTool) {
		g.jumpToDamaged(1)
	}
	if in.Has(core.ActionPrevTool) {
		g.jumpToDamaged(-1)
	}
	if in.Has(core.ActionPlace) {
		g.dispatch(fort.PlaceAt{At: g.cursor})
	}
	for _, p := range in.Pointers {
		if p.Kind == core.PointerDown && p.Button == core.PointerLeft {
			if c, ok := g.pointerTile(p); ok {
				g.cursor = c
				g.dispatch(fort.PlaceAt{At: c})
			}
		}
	}
	if in.Has(core.ActionRepair) {
		g.repairSelected()
	}
	if in.Has(core.ActionAdvance) {
		g.dispatch(fort.AdvanceRepair{})
	}
}

// placeAtCursor places the selected tool at the cursor. Drag tools start
// a line on the first press and commit it on the second.
func (g *Game) placeAtCursor() {
	tool := g.state.SelectedTool
	if tool.IsDragBuild() {
		if !g.lines.Active() {
			g.lines.Begin(tool, g.cursor)
			return
		}
		g.commitPath(g.lines.End())
		return
	}
	g.placeAt(g.cursor)
}

func (g *Game) placeAt(c fort.Coord) {
	before := g.state
	g.dispatch(fort.PlaceAt{At: c})
	if g.state.Grid == before.Grid && g.state.Ledger == before.Ledger {
		if err := g.engine.Explain(before, c); err != nil {
			g.say(capitalize(err.Error()))
		}
	}
}

func (g *Game) commitPath(path []fort.Coord) {
	if len(path) == 0 {
		return
	}
	before := g.state
	g.dispatch(fort.PlacePath{Path: path})
	if g.state.Grid == before.Grid {
		if err := g.engine.Explain(before, path[0]); err != nil {
			g.say(capitalize(err.Error()))
		}
	}
}

// handlePointer maps a mouse event onto the line builder.
func (g *Game) handlePointer(p core.PointerEvent) {
	sx, sy := pointerPoint(p)
	tool := g.state.SelectedTool

	switch p.Kind {
	case core.PointerDown:
		if p.Button != core.PointerLeft {
			g.lines.PointerDown(g.view, tool, sx, sy, fort.ButtonRight)
			return
		}
		c, inside := g.pointerTile(p)
		if !inside {
			return
		}
		g.cursor = c
		if g.lines.PointerDown(g.view, tool, sx, sy, fort.ButtonLeft) {
			return
		}
		if !tool.IsDragBuild() {
			g.placeAt(c)
		}
	case core.PointerMove:
		if c, ok := g.pointerTile(p); ok {
			g.cursor = c
		}
		g.lines.PointerMove(g.view, sx, sy)
	case core.PointerUp:
		g.commitPath(g.lines.PointerUp(button(p.Button)))
	case core.PointerLeave:
		g.lines.PointerLeave()
	}
}

func button(b core.PointerButton) fort.Button {
	switch b {
	case core.PointerRight:
		return fort.ButtonRight
	case core.PointerMiddle:
		return fort.ButtonMiddle
	}
	return fort.ButtonLeft
}

// pointerTile resolves the tile under a pointer event.
func (g *Game) pointerTile(p core.PointerEvent) (fort.Coord, bool) {
	if !g.mapRect().Contains(p.X, p.Y) {
		return fort.Coord{}, false
	}
	sx, sy := pointerPoint(p)
	c := g.view.ScreenToGrid(sx, sy)
	return c, g.state.Grid.InBounds(c)
}

// pointerPoint returns the centre of a cell on the tile's row.
func pointerPoint(p core.PointerEvent) (float64, float64) {
	return float64(p.X) + 0.5, float64(p.Y)
}

func (g *Game) cycleTool(dir int) {
	g.lines.Cancel()
	idx := 0
	for i, info := range fort.Tools {
		if info.Tool == g.state.SelectedTool {
			idx = i
			break
		}
	}
	n := len(fort.Tools)
	for range n {
		idx = (idx + dir + n) % n
		tool := fort.Tools[idx].Tool
		if tool == fort.ToolBulldozeAll && !g.state.Ledger.FreeBuilder {
			continue
		}
		g.dispatch(fort.SelectTool{Tool: tool})
		return
	}
}

// playNextMoatCard plays the moat card after the active one, cycling
// through the catalog.
func (g *Game) playNextMoatCard() {
	catalog := g.engine.Catalog()
	var moats []fort.Card
	for _, id := range catalog.IDs() {
		if card := catalog[id]; card.EffectKey == fort.EffectMoat {
			moats = append(moats, card)
		}
	}
	if len(moats) == 0 {
		return
	}

	next := 0
	if g.state.Card != nil {
		for i, card := range moats {
			if card.ID == g.state.Card.CardID {
				next = (i + 1) % len(moats)
				break
			}
		}
	}
	card := moats[next]
	before := g.state
	g.dispatch(fort.PlayCard{CardID: card.ID})
	if g.state.Card == before.Card {
		g.say(fmt.Sprintf("Cannot afford %s (%s)", card.Name, formatAmounts(card.Cost)))
		return
	}
	g.say(fmt.Sprintf("%s: %d moat blocks", card.Name, card.BuildBlocks))
}

func (g *Game) repairSelected() {
	key := g.state.SelectedDamaged
	if key == "" {
		key = g.cursor.Key()
	}
	if !g.state.IsDamaged(key) {
		g.say("Select a damaged tile first")
		return
	}
	before := g.state
	g.dispatch(fort.RepairTile{Key: key})
	if g.state.Grid == before.Grid {
		g.say(fmt.Sprintf("Repair costs %s", formatAmounts(g.engine.Settings().RepairCost)))
		return
	}
	g.say(fmt.Sprintf("Repaired %s", key))
}

// jumpToDamaged moves the cursor to the next damaged tile.
func (g *Game) jumpToDamaged(dir int) {
	keys := g.state.DamagedTiles
	if len(keys) == 0 {
		return
	}
	idx := -1
	for i, k := range keys {
		if k == g.cursor.Key() {
			idx = i
			break
		}
	}
	if idx < 0 && dir < 0 {
		idx = 0
	}
	idx = (idx + dir + len(keys)) % len(keys)
	if c, err := fort.ParseKey(keys[idx]); err == nil {
		g.cursor = c
		g.keepCursorVisible()
	}
}

func (g *Game) moveCursor(dx, dy int) {
	next := g.cursor.Add(dx, dy)
	if !g.state.Grid.InBounds(next) {
		return
	}
	g.cursor = next
	if g.lines.Active() {
		g.lines.Move(next)
	}
	g.keepCursorVisible()
}

// afterStep logs phase changes, records finished sieges and autosaves.
func (g *Game) afterStep(prev fort.State, now time.Time) {
	if g.state.Phase == prev.Phase {
		if interval := g.cfg.Persistence.AutosaveInterval; interval > 0 && now.Sub(g.lastSave) >= interval {
			g.autosave(now)
		}
		return
	}

	g.logger.Info("phase changed", "fort", g.state.FortName, "round", g.state.Round, "from", prev.Phase, "to", g.state.Phase)
	if g.state.Phase != fort.PhaseBuild {
		g.lines.Cancel()
	}

	switch g.state.Phase {
	case fort.PhaseDefense:
		g.defenseAt = now
	case fort.PhaseRepair:
		damaged := len(g.state.DamagedTiles)
		g.say(fmt.Sprintf("The siege damaged %d tiles", damaged))
		g.recordRound()
		if damaged > 0 {
			g.jumpToDamaged(1)
		}
	case fort.PhaseCardDraw:
		if prev.Phase == fort.PhaseRoundEnd {
			g.say(fmt.Sprintf("Round %d: +%s", g.state.Round, formatAmounts(g.state.RoundBonus)))
		}
	}
	g.autosave(now)
}

func (g *Game) recordRound() {
	if g.sink == nil {
		return
	}
	if err := g.sink.RecordRoundData(roundData(g.state)); err != nil {
		g.logger.Warn("cannot record round", "fort", g.state.ID, "error", err)
	}
}

func (g *Game) autosave(now time.Time) {
	g.lastSave = now
	if err := g.Save(); err != nil {
		g.logger.Warn("autosave failed", "fort", g.state.ID, "error", err)
	}
}

// Save writes the fort to the save sink. Forts that are still waiting
// for a name are not saved.
func (g *Game) Save() error {
	if g.sink == nil || g.engine == nil || g.state.Phase == fort.PhaseNameEntry {
		return nil
	}
	data, err := saveData(g.state, g.now())
	if err != nil {
		return fmt.Errorf("forts: cannot encode fort: %w", err)
	}
	if err := g.sink.SaveFortData(data); err != nil {
		return fmt.Errorf("forts: cannot save fort: %w", err)
	}
	g.logger.Debug("fort saved", "id", data.ID, "round", data.Round, "phase", data.Phase)
	return nil
}

// Resize keeps the fort and re-centres the view for a new terminal size.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.recenter()
}

// WantsText reports whether typed characters should reach the game
// instead of being mapped to actions.
func (g *Game) WantsText() bool {
	return g.state.Phase == fort.PhaseNameEntry
}

// State returns the current game state. The score is the fort's defense.
func (g *Game) State() core.GameState {
	title := g.Title()
	if g.state.FortName != "" {
		title = fmt.Sprintf("%s - %s, round %d", g.Title(), g.state.FortName, g.state.Round)
	}
	return core.GameState{
		Title:  title,
		Score:  g.state.Stats.Defense,
		Round:  g.state.Round,
		Phase:  string(g.state.Phase),
		Paused: g.paused,
	}
}

// Snapshot returns the current fort snapshot.
func (g *Game) Snapshot() fort.Snapshot {
	return fort.NewSnapshot(g.state)
}

// Cursor returns the tile under the keyboard cursor.
func (g *Game) Cursor() fort.Coord {
	return g.cursor
}

func (g *Game) dispatch(ev fort.Event) {
	g.state = g.engine.Dispatch(g.state, ev)
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageUntil = g.now().Add(messageTimeout)
}

func (g *Game) now() time.Time {
	if g.engine != nil {
		return g.engine.Clock().Now()
	}
	if clock != nil {
		return clock.Now()
	}
	return time.Now()
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func formatAmounts(a fort.Amounts) string {
	return fmt.Sprintf("%dW %dS %dF", a.Wood, a.Stone, a.Food)
}
