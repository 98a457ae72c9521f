// Package config provides YAML-based game configuration loading and
// difficulty management for IsoForts.
package config

import "time"

// FortsConfig contains all configuration for a fort game.
type FortsConfig struct {
	Grid        GridConfig           `yaml:"grid"`
	Tiles       TilesConfig          `yaml:"tiles"`
	Phases      PhasesConfig         `yaml:"phases"`
	Resources   ResourcesConfig      `yaml:"resources"`
	Walls       WallsConfig          `yaml:"walls"`
	Siege       SiegeConfig          `yaml:"siege"`
	Repair      Resources            `yaml:"repair"`
	Buildings   map[string]Resources `yaml:"buildings"` // placement cost per building type
	Difficulty  DifficultyConfig     `yaml:"difficulty"`
	Persistence PersistenceConfig    `yaml:"persistence"`
}

// GridConfig defines the map dimensions.
type GridConfig struct {
	Size       int `yaml:"size"`
	StartBlock int `yaml:"start_block"` // side length of the seeded start square
}

// TilesConfig defines the isometric projection.
type TilesConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Compression float64 `yaml:"compression"` // vertical squash around the view centre
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
}

// PhasesConfig defines the timed phase lengths.
type PhasesConfig struct {
	Build    time.Duration `yaml:"build"`
	RoundEnd time.Duration `yaml:"round_end"`
	Defense  time.Duration `yaml:"defense"` // how long the terminal shows the siege before repair
}

// Resources is a wood/stone/food triple.
type Resources struct {
	Wood  int `yaml:"wood"`
	Stone int `yaml:"stone"`
	Food  int `yaml:"food"`
}

// ResourcesConfig defines the economy.
type ResourcesConfig struct {
	Start      Resources `yaml:"start"`
	Caps       Resources `yaml:"caps"`
	RoundBonus Resources `yaml:"round_bonus"`
}

// WallsConfig defines the wall block pool.
type WallsConfig struct {
	StartingBlocks int    `yaml:"starting_blocks"`
	DefaultType    string `yaml:"default_type"` // "palisade" or "stone"
}

// SiegeConfig defines siege damage.
type SiegeConfig struct {
	DamageProbability float64 `yaml:"damage_probability"`
}

// PersistenceConfig defines autosave behaviour.
type PersistenceConfig struct {
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over the game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "round" or "none"
	MaxAt int    `yaml:"max_at"` // Round at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	DamageMultiplier float64 `yaml:"damage_multiplier"` // Multiplier added to siege damage at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset. Unknown names return false.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
