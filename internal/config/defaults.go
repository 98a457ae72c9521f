package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/forts.yaml
var defaultFortsYAML []byte

// DefaultFortsConfig returns the default IsoForts configuration.
func DefaultFortsConfig() FortsConfig {
	return FortsConfig{
		Grid: GridConfig{
			Size:       48,
			StartBlock: 2,
		},
		Tiles: TilesConfig{
			Width:       64,
			Height:      32,
			Compression: 0.975,
			MinZoom:     0.25,
			MaxZoom:     4.0,
		},
		Phases: PhasesConfig{
			Build:    3 * time.Minute,
			RoundEnd: 5 * time.Second,
			Defense:  2 * time.Second,
		},
		Resources: ResourcesConfig{
			Start:      Resources{Wood: 30, Stone: 30, Food: 30},
			Caps:       Resources{Wood: 100, Stone: 100, Food: 100},
			RoundBonus: Resources{Wood: 5, Stone: 5, Food: 5},
		},
		Walls: WallsConfig{
			StartingBlocks: 40,
			DefaultType:    "palisade",
		},
		Siege: SiegeConfig{
			DamageProbability: 0.15,
		},
		Repair: Resources{Wood: 2, Stone: 2},
		Buildings: map[string]Resources{
			"stone_mason": {Wood: 5, Food: 5},
			"carpenter":   {Stone: 5, Food: 5},
			"mess_hall":   {Wood: 5, Stone: 5},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "round",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				DamageMultiplier: 1.0,
			},
		},
		Persistence: PersistenceConfig{
			AutosaveInterval: 30 * time.Second,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "forts":
		return defaultFortsYAML
	default:
		return nil
	}
}
