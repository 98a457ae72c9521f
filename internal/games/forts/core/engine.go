package core

import (
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Settings are the tunables of a game.
type Settings struct {
	GridSize          int
	StartBlock        int
	Durations         Durations
	StartResources    Amounts
	Caps              Amounts
	RoundBonus        Amounts
	WallBlocks        int
	WallType          WallType
	DamageProbability float64
	RepairCost        Amounts
	Costs             map[BuildingType]Amounts
}

// DefaultSettings returns the standard game tunables.
func DefaultSettings() Settings {
	return Settings{
		GridSize:          48,
		StartBlock:        2,
		Durations:         DefaultDurations(),
		StartResources:    Amounts{Wood: 30, Stone: 30, Food: 30},
		Caps:              Amounts{Wood: 100, Stone: 100, Food: 100},
		RoundBonus:        Amounts{Wood: 5, Stone: 5, Food: 5},
		WallBlocks:        40,
		WallType:          WallPalisade,
		DamageProbability: DefaultDamageProbability,
		RepairCost:        Amounts{Wood: 2, Stone: 2},
		Costs:             DefaultCosts(),
	}
}

// Engine owns the collaborators of the simulation and reduces events
// into new states. It holds no game state itself.
type Engine struct {
	settings Settings
	rules    Rules
	catalog  Catalog
	clock    Clock
	siege    *SiegeResolver
	curve    func(round int, base float64) float64
	logger   *log.Logger
}

// NewEngine creates an engine. A nil clock uses the system clock and a
// nil rng is seeded with 1.
func NewEngine(settings Settings, clock Clock, rng *rand.Rand) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if settings.Costs == nil {
		settings.Costs = DefaultCosts()
	}
	return &Engine{
		settings: settings,
		rules:    Rules{Costs: settings.Costs},
		catalog:  DefaultCatalog(),
		clock:    clock,
		siege:    NewSiegeResolver(rng),
		logger:   log.New(io.Discard),
	}
}

// SetLogger routes engine diagnostics to l.
func (e *Engine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// SetCatalog replaces the card catalog.
func (e *Engine) SetCatalog(c Catalog) {
	e.catalog = c
}

// SetDamageCurve installs a per-round adjustment of the siege damage
// probability.
func (e *Engine) SetDamageCurve(curve func(round int, base float64) float64) {
	e.curve = curve
}

// Settings returns the engine tunables.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Catalog returns the card catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Clock returns the engine clock.
func (e *Engine) Clock() Clock {
	return e.clock
}

// DamageProbability returns the siege probability for a round.
func (e *Engine) DamageProbability(round int) float64 {
	p := e.settings.DamageProbability
	if e.curve != nil {
		p = e.curve(round, p)
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// New returns a fresh game waiting for its name.
func (e *Engine) New(id string) State {
	g := NewGrid(e.settings.GridSize, e.settings.StartBlock)
	return State{
		ID:           id,
		FortName:     DefaultFortName,
		Grid:         g,
		SelectedTool: ToolSelect,
		Phase:        PhaseNameEntry,
		Round:        1,
		Ledger:       NewLedger(e.settings.StartResources, e.settings.Caps),
		WallBlocks:   e.settings.WallBlocks,
		WallType:     e.settings.WallType,
		DamagedTiles: []Key{},
		RoundBonus:   e.settings.RoundBonus,
		Stats:        g.Stats(),
	}
}

// Restore decodes a saved game against the engine settings and clock.
func (e *Engine) Restore(data []byte) (State, error) {
	return Decode(data, e.clock.Now(), e.settings)
}

// Dispatch applies ev to s and returns the resulting state. Events that
// are not valid in the current phase, or whose rules reject them, return
// s unchanged.
func (e *Engine) Dispatch(s State, ev Event) State {
	switch ev := ev.(type) {
	case Tick:
		return e.tick(s)
	case SubmitName:
		if s.Phase != PhaseNameEntry {
			return s
		}
		name := strings.TrimSpace(ev.Name)
		if name == "" {
			name = DefaultFortName
		}
		s.FortName = name
		return e.enter(s, PhaseCardDraw)
	case ContinueDraw:
		if s.Phase != PhaseCardDraw {
			return s
		}
		return e.enter(s, PhaseBuild)
	case BuildTimeUp:
		if s.Phase != PhaseBuild {
			return s
		}
		return e.enter(s, PhaseDefense)
	case CompleteDefense:
		if s.Phase != PhaseDefense {
			return s
		}
		return e.resolveSiege(s)
	case AdvanceRepair:
		if s.Phase != PhaseRepair {
			return s
		}
		s.SelectedDamaged = ""
		return e.enter(s, PhaseRoundEnd)
	case RoundEndElapsed:
		if s.Phase != PhaseRoundEnd {
			return s
		}
		s.Round++
		s.DamagedTiles = []Key{}
		s.Ledger = s.Ledger.ApplyRoundBonus(s.RoundBonus)
		return e.enter(s, PhaseCardDraw)
	case SelectTool:
		return e.selectTool(s, ev.Tool)
	case PlaceAt:
		return e.placeAt(s, ev.At)
	case PlacePath:
		return e.placePath(s, ev.Path)
	case RepairTile:
		return e.repair(s, ev.Key)
	case PlayCard:
		return e.playCard(s, ev.CardID)
	case ToggleFreeBuilder:
		s.Ledger = s.Ledger.WithFreeBuilder(!s.Ledger.FreeBuilder)
		return s
	case AddResources:
		s.Ledger = s.Ledger.Add(ev.Amounts)
		return s
	case SetUnderground:
		s.ShowUnderground = ev.On
		return s
	case SetWallType:
		if ev.WallType != WallPalisade && ev.WallType != WallStone {
			return s
		}
		s.WallType = ev.WallType
		return s
	}
	return s
}

// Due returns the event the scheduler should emit at now, if any.
func (e *Engine) Due(s State) (Event, bool) {
	if s.PhaseEndsAt.IsZero() || e.clock.Now().Before(s.PhaseEndsAt) {
		return nil, false
	}
	switch s.Phase {
	case PhaseBuild:
		return BuildTimeUp{}, true
	case PhaseRoundEnd:
		return RoundEndElapsed{}, true
	}
	return nil, false
}

func (e *Engine) tick(s State) State {
	ev, ok := e.Due(s)
	if !ok {
		return s
	}
	return e.Dispatch(s, ev)
}

// enter switches to phase p and replaces the phase timer.
func (e *Engine) enter(s State, p Phase) State {
	from := s.Phase
	s.Phase = p
	s.PhaseEndsAt = e.deadline(p)
	e.logger.Debug("phase change", "fort", s.ID, "from", from, "to", p, "round", s.Round)
	return s
}

func (e *Engine) deadline(p Phase) time.Time {
	now := e.clock.Now()
	switch p {
	case PhaseBuild:
		return now.Add(e.settings.Durations.Build)
	case PhaseRoundEnd:
		return now.Add(e.settings.Durations.RoundEnd)
	}
	return time.Time{}
}

func (e *Engine) resolveSiege(s State) State {
	p := e.DamageProbability(s.Round)
	grid, damaged := e.siege.Resolve(s.Grid, p)
	s.Grid = grid
	s.Stats = grid.Stats()
	if damaged == nil {
		damaged = []Key{}
	}
	s.DamagedTiles = damaged
	s.SelectedDamaged = ""
	e.logger.Debug("siege resolved", "fort", s.ID, "round", s.Round, "probability", p, "damaged", len(damaged))
	return e.enter(s, PhaseRepair)
}

func (e *Engine) selectTool(s State, t Tool) State {
	if !t.Valid() {
		return s
	}
	s.SelectedTool = t
	if t != ToolZoneMoat {
		s.Card = nil
	}
	if t.Building().IsResource() {
		s.ShowUnderground = true
	}
	return s
}

func (e *Engine) options(s State) Options {
	return Options{Underground: s.ShowUnderground && s.SelectedTool.Building().IsResource()}
}

func (e *Engine) placeAt(s State, c Coord) State {
	if s.Phase == PhaseRepair {
		t, ok := s.Grid.Get(c)
		if !ok || !t.Building.Damaged {
			return s
		}
		if s.SelectedDamaged == c.Key() {
			s.SelectedDamaged = ""
		} else {
			s.SelectedDamaged = c.Key()
		}
		return s
	}
	if s.Phase != PhaseBuild {
		return s
	}
	b, err := e.rules.Apply(s.Board(), s.SelectedTool, c, e.options(s))
	if err != nil {
		return s
	}
	return s.withBoard(b)
}

// Explain runs the placement rules for the selected tool at c without
// changing s and returns the rejection, or nil when placement would succeed.
func (e *Engine) Explain(s State, c Coord) error {
	if s.Phase != PhaseBuild {
		return ErrPhaseClosed
	}
	_, err := e.rules.Apply(s.Board(), s.SelectedTool, c, e.options(s))
	return err
}

func (e *Engine) placePath(s State, path []Coord) State {
	if s.Phase != PhaseBuild || len(path) == 0 {
		return s
	}
	b, applied := e.rules.ApplyPath(s.Board(), s.SelectedTool, path, e.options(s))
	if applied == 0 {
		return s
	}
	return s.withBoard(b)
}

func (e *Engine) repair(s State, key Key) State {
	if s.Phase != PhaseRepair {
		return s
	}
	grid, ledger, err := Repair(s.Grid, s.Ledger, key, e.settings.RepairCost)
	if err != nil {
		return s
	}
	s.Grid = grid
	s.Ledger = ledger
	s.Stats = grid.Stats()
	s.DamagedTiles = withoutKey(s.DamagedTiles, key)
	if s.SelectedDamaged == key {
		s.SelectedDamaged = ""
	}
	return s
}

func (e *Engine) playCard(s State, id string) State {
	if s.Phase != PhaseCardDraw && s.Phase != PhaseBuild {
		return s
	}
	card, ok := e.catalog[id]
	if !ok {
		return s
	}
	b, err := PlayMoatCard(s.Board(), card)
	if err != nil {
		return s
	}
	s = s.withBoard(b)
	s.SelectedTool = ToolZoneMoat
	return s
}
