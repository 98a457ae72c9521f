package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-forts/internal/core"
	"github.com/vovakirdan/tui-forts/internal/registry"
)

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	saveErr    error
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if p, ok := m.keyMapper.MapMouse(msg); ok {
			m.inputFrame.Point(p)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wantsText := false
	if ti, ok := m.game.(registry.TextInputer); ok {
		wantsText = ti.WantsText()
	}

	if !wantsText {
		switch msg.String() {
		case "ctrl+s":
			m.saveScreenshot()
			return m, nil
		case "b", "esc":
			// Leave for the menu only from the pause screen; esc
			// otherwise cancels drags.
			if m.gameState.Paused {
				m.save()
				m.backToMenu = true
				return m, tea.Quit
			}
		}
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame, wantsText) {
		m.save()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize keeps resizable games running and resets the others.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	m.game.Reset(m.config)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	first := m.gameState.Title == ""
	m.gameState = result.State

	// Clear input for next frame
	m.inputFrame.Clear()

	if (first || result.PhaseChanged) && result.State.Title != "" {
		return m, tea.Batch(tickCmd(m.config.TickRate), tea.SetWindowTitle(result.State.Title))
	}
	return m, tickCmd(m.config.TickRate)
}

// save flushes progress for games that keep it.
func (m *Model) save() {
	if s, ok := m.game.(registry.Saver); ok {
		m.saveErr = s.Save()
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".forts", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// SaveErr returns the error of the save made on leaving, if any.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Run plays game until the player quits. It reports whether the player
// asked to go back to the menu.
func Run(game registry.Game, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewModel(game, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), m.SaveErr()
}
