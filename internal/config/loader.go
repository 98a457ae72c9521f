package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadForts loads IsoForts configuration.
// Search order: customPath -> ~/.forts/configs/forts.yaml -> ./configs/forts.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides
// the keys it names.
func LoadForts(customPath string) (FortsConfig, error) {
	cfg := DefaultFortsConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("forts.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
				return cfg, nil
			}
			cfg = DefaultFortsConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/forts.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
		cfg = DefaultFortsConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultFortsYAML, &cfg); err != nil {
		return DefaultFortsConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Validate reports values the engine cannot run with.
func (c FortsConfig) Validate() error {
	switch {
	case c.Grid.Size <= 0:
		return fmt.Errorf("config: grid.size must be positive, got %d", c.Grid.Size)
	case c.Grid.StartBlock <= 0 || c.Grid.StartBlock > c.Grid.Size:
		return fmt.Errorf("config: grid.start_block must be in 1..%d, got %d", c.Grid.Size, c.Grid.StartBlock)
	case c.Phases.Build <= 0 || c.Phases.RoundEnd <= 0:
		return fmt.Errorf("config: phase durations must be positive")
	case c.Walls.StartingBlocks < 0:
		return fmt.Errorf("config: walls.starting_blocks must not be negative")
	case c.Resources.Caps.Wood < 0 || c.Resources.Caps.Stone < 0 || c.Resources.Caps.Food < 0:
		return fmt.Errorf("config: resources.caps must not be negative")
	case c.Walls.DefaultType != "palisade" && c.Walls.DefaultType != "stone":
		return fmt.Errorf("config: unknown walls.default_type %q", c.Walls.DefaultType)
	case c.Siege.DamageProbability < 0 || c.Siege.DamageProbability > 1:
		return fmt.Errorf("config: siege.damage_probability must be in [0,1], got %v", c.Siege.DamageProbability)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".forts", "configs", filename)
}

// ApplyFortsPreset modifies the config based on a difficulty preset.
func ApplyFortsPreset(cfg *FortsConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the economy based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Walls.StartingBlocks += cfg.Walls.StartingBlocks / 2
		cfg.Resources.RoundBonus.Wood *= 2
		cfg.Resources.RoundBonus.Stone *= 2
		cfg.Resources.RoundBonus.Food *= 2
	case DifficultyHard:
		cfg.Walls.StartingBlocks -= cfg.Walls.StartingBlocks / 4
		cfg.Phases.Build -= cfg.Phases.Build / 3
	}
}
