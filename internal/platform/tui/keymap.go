package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-forts/internal/core"
)

// KeyMapper translates Bubble Tea key and mouse messages to game input.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case " ":
		return core.ActionPlace, false
	case "enter":
		return core.ActionConfirm, false
	case "backspace":
		return core.ActionErase, false
	case "esc":
		return core.ActionBack, false
	case "tab", "]":
		return core.ActionNextTool, false
	case "shift+tab", "[":
		return core.ActionPrevTool, false
	case "n":
		return core.ActionAdvance, false
	case "r":
		return core.ActionRepair, false
	case "c":
		return core.ActionPlayCard, false
	case "u":
		return core.ActionToggleUnderground, false
	case "f":
		return core.ActionToggleFreeBuilder, false
	case "t":
		return core.ActionCycleWallType, false
	case "z":
		return core.ActionRecenter, false
	case "p":
		return core.ActionPause, false
	}

	return core.ActionNone, false
}

// MapTextKey translates a key while the game takes typed text.
// Printable runes become text; only ctrl+c quits.
func (km *KeyMapper) MapTextKey(msg tea.KeyMsg, frame *core.InputFrame) bool {
	switch msg.Type {
	case tea.KeyCtrlC:
		return true
	case tea.KeyEnter:
		frame.Set(core.ActionConfirm)
	case tea.KeyBackspace:
		frame.Set(core.ActionErase)
	case tea.KeyEsc:
		frame.Set(core.ActionBack)
	case tea.KeySpace:
		frame.Type(' ')
	case tea.KeyRunes:
		frame.Type(msg.Runes...)
	}
	return false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame, wantsText bool) bool {
	if wantsText {
		return km.MapTextKey(msg, frame)
	}
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouse translates a mouse message to a pointer event. Wheel and
// unknown buttons report false.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) (core.PointerEvent, bool) {
	p := core.PointerEvent{X: msg.X, Y: msg.Y}

	switch msg.Button {
	case tea.MouseButtonLeft:
		p.Button = core.PointerLeft
	case tea.MouseButtonRight:
		p.Button = core.PointerRight
	case tea.MouseButtonMiddle:
		p.Button = core.PointerMiddle
	case tea.MouseButtonNone:
		// Release and hover carry no button
	default:
		return core.PointerEvent{}, false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		p.Kind = core.PointerDown
	case tea.MouseActionRelease:
		p.Kind = core.PointerUp
	case tea.MouseActionMotion:
		p.Kind = core.PointerMove
	default:
		return core.PointerEvent{}, false
	}
	return p, true
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionBoard
	MenuActionDelete
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionBoard
	case "x", "delete":
		return MenuActionDelete
	}

	return MenuActionNone
}
