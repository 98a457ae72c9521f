package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone              Action = iota
	ActionUp                       // W, Up arrow - cursor north-west on the map, menu up
	ActionDown                     // S, Down arrow - cursor south-east, menu down
	ActionLeft                     // A, Left arrow - cursor south-west
	ActionRight                    // D, Right arrow - cursor north-east
	ActionPlace                    // Space - place at cursor, start/finish a line drag
	ActionConfirm                  // Enter - submit name, continue past card draw
	ActionErase                    // Backspace - delete the last typed character
	ActionBack                     // Escape - cancel a drag, go back to menu
	ActionNextTool                 // Tab / ] - cycle the selected tool forward
	ActionPrevTool                 // Shift+Tab / [ - cycle the selected tool back
	ActionAdvance                  // N - end the current phase early
	ActionRepair                   // R - repair the selected damaged tile
	ActionPlayCard                 // C - play the next moat card
	ActionToggleUnderground        // U - switch between surface and underground view
	ActionToggleFreeBuilder        // F - toggle unlimited resources
	ActionCycleWallType            // T - switch palisade/stone walls
	ActionRecenter                 // Z - centre the view on the cursor
	ActionQuit                     // Q, Ctrl+C - exit game/session
	ActionPause                    // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPlace:
		return "Place"
	case ActionConfirm:
		return "Confirm"
	case ActionErase:
		return "Erase"
	case ActionBack:
		return "Back"
	case ActionNextTool:
		return "NextTool"
	case ActionPrevTool:
		return "PrevTool"
	case ActionAdvance:
		return "Advance"
	case ActionRepair:
		return "Repair"
	case ActionPlayCard:
		return "PlayCard"
	case ActionToggleUnderground:
		return "ToggleUnderground"
	case ActionToggleFreeBuilder:
		return "ToggleFreeBuilder"
	case ActionCycleWallType:
		return "CycleWallType"
	case ActionRecenter:
		return "Recenter"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PointerKind distinguishes mouse event phases.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

// PointerButton identifies the mouse button of a pointer event.
type PointerButton int

const (
	PointerLeft PointerButton = iota
	PointerRight
	PointerMiddle
)

// PointerEvent is a mouse event in screen cell coordinates.
type PointerEvent struct {
	X, Y   int
	Kind   PointerKind
	Button PointerButton
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Text holds printable runes typed this frame, in order.
	Text []rune

	// Pointers holds mouse events received this frame, in order.
	Pointers []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Type appends typed runes to the frame.
func (f *InputFrame) Type(r ...rune) {
	f.Text = append(f.Text, r...)
}

// Point appends a pointer event to the frame.
func (f *InputFrame) Point(p PointerEvent) {
	f.Pointers = append(f.Pointers, p)
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Text = f.Text[:0]
	f.Pointers = f.Pointers[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Text = append([]rune(nil), f.Text...)
	clone.Pointers = append([]PointerEvent(nil), f.Pointers...)
	return clone
}
