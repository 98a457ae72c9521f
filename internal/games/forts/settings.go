package forts

import (
	"github.com/vovakirdan/tui-forts/internal/config"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

// Terminal tiles are four cells wide and two rows tall.
const (
	termTileW = 4
	termTileH = 2
)

// SettingsFromConfig converts loaded configuration into engine tunables.
func SettingsFromConfig(cfg config.FortsConfig) fort.Settings {
	s := fort.DefaultSettings()
	s.GridSize = cfg.Grid.Size
	s.StartBlock = cfg.Grid.StartBlock
	s.Durations = fort.Durations{Build: cfg.Phases.Build, RoundEnd: cfg.Phases.RoundEnd}
	s.StartResources = amounts(cfg.Resources.Start)
	s.Caps = amounts(cfg.Resources.Caps)
	s.RoundBonus = amounts(cfg.Resources.RoundBonus)
	s.WallBlocks = cfg.Walls.StartingBlocks
	s.WallType = fort.WallType(cfg.Walls.DefaultType)
	s.DamageProbability = cfg.Siege.DamageProbability
	s.RepairCost = amounts(cfg.Repair)

	costs := fort.DefaultCosts()
	for name, cost := range cfg.Buildings {
		bt := fort.BuildingType(name)
		if bt.IsResource() {
			costs[bt] = amounts(cost)
		}
	}
	s.Costs = costs
	return s
}

// CatalogFromConfig returns the default cards with building card costs
// matching the configured placement costs.
func CatalogFromConfig(cfg config.FortsConfig) fort.Catalog {
	catalog := fort.DefaultCatalog()
	for id, card := range catalog {
		if card.Category != fort.CategoryBuildings {
			continue
		}
		if cost, ok := cfg.Buildings[card.EffectKey]; ok {
			card.Cost = amounts(cost)
			catalog[id] = card
		}
	}
	return catalog
}

// ViewportFromConfig returns a projection with the configured tile size
// and zoom limits.
func ViewportFromConfig(cfg config.FortsConfig) fort.Viewport {
	v := fort.NewViewport(cfg.Tiles.Width, cfg.Tiles.Height)
	if cfg.Tiles.Compression > 0 {
		v.Compression = cfg.Tiles.Compression
	}
	if cfg.Tiles.MinZoom > 0 {
		v.MinZoom = cfg.Tiles.MinZoom
	}
	if cfg.Tiles.MaxZoom > 0 {
		v.MaxZoom = cfg.Tiles.MaxZoom
	}
	return v
}

// terminalViewport projects tiles onto character cells. Compression is
// disabled since cells are already taller than wide.
func terminalViewport() fort.Viewport {
	v := fort.NewViewport(termTileW, termTileH)
	v.MinZoom = 1
	v.MaxZoom = 1
	return v
}

// NewEngine builds an engine from configuration, wiring the round-based
// difficulty curve into siege damage.
func NewEngine(cfg config.FortsConfig, clock fort.Clock, seed int64) *fort.Engine {
	e := fort.NewEngine(SettingsFromConfig(cfg), clock, newRand(seed))
	e.SetCatalog(CatalogFromConfig(cfg))

	dm := config.NewDifficultyManager(cfg.Difficulty)
	e.SetDamageCurve(func(round int, base float64) float64 {
		return dm.DamageProbability(base, round)
	})
	return e
}

func amounts(r config.Resources) fort.Amounts {
	return fort.Amounts{Wood: r.Wood, Stone: r.Stone, Food: r.Food}
}
