// Package registry defines the contract between a game and the terminal
// platform that hosts it, plus the optional capabilities a game may add.
package registry

import (
	"github.com/vovakirdan/tui-forts/internal/core"
)

// Game is the interface every playable mode implements.
// Games contain no Bubble Tea code; the platform handles input mapping,
// timing and terminal output.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "forts").
	// Used for CLI commands and save storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "IsoForts").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start. The RuntimeConfig provides screen dimensions
	// and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Place, Pause, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// Resizer is implemented by games that keep their state across terminal
// resizes instead of being Reset.
type Resizer interface {
	Resize(width, height int)
}

// Saver is implemented by games with persistent progress. The platform
// calls Save when the player leaves the game.
type Saver interface {
	Save() error
}

// TextInputer is implemented by games that sometimes take typed text.
// While WantsText reports true, printable keys are delivered as text
// instead of being mapped to actions.
type TextInputer interface {
	WantsText() bool
}
