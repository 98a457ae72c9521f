package config

import "math"

// DifficultyManager calculates dynamic game parameters based on the round.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) for a round.
func (d *DifficultyManager) Level(round int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "round" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		maxAt = 2 // Prevent division by zero
	}

	// Round 1 plays at the initial level.
	progress := clampF(float64(round-1)/(maxAt-1), 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// DamageProbability scales the base siege damage chance for a round.
func (d *DifficultyManager) DamageProbability(base float64, round int) float64 {
	level := d.Level(round)
	// Chance grows from base to base * (1 + damageMultiplier)
	return clampF(base*(1.0+level*d.cfg.Scaling.DamageMultiplier), 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
