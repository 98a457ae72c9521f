package core

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // Siege RNG seed; 0 picks one from the clock
}

// DefaultConfig returns the runtime settings of a plain 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the part of a game's state the platform cares about.
type GameState struct {
	Title  string // shown as the terminal window title
	Score  int    // fort defense
	Round  int
	Phase  string
	Paused bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State        GameState
	PhaseChanged bool // the tick moved the game into a new phase
}
