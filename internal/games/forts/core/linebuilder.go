package core

// Projector resolves screen points to grid coordinates.
type Projector interface {
	ScreenToGrid(sx, sy float64) Coord
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// LineBuilder turns a press-drag-release gesture into an ordered path of
// tiles. The path grows along cardinal steps, fills jumps with Bresenham
// lines and retracts when the pointer moves back onto an earlier tile.
type LineBuilder struct {
	size   int
	tool   Tool
	path   []Coord
	active bool
}

// NewLineBuilder creates a builder for a size×size grid.
func NewLineBuilder(size int) *LineBuilder {
	return &LineBuilder{size: size}
}

// Resize updates the grid size. Any gesture in progress is cancelled.
func (lb *LineBuilder) Resize(size int) {
	lb.size = size
	lb.Cancel()
}

func (lb *LineBuilder) inBounds(c Coord) bool {
	return c.X >= 0 && c.X < lb.size && c.Y >= 0 && c.Y < lb.size
}

// Active reports whether a drag is in progress.
func (lb *LineBuilder) Active() bool {
	return lb.active
}

// Tool returns the tool of the drag in progress.
func (lb *LineBuilder) Tool() Tool {
	return lb.tool
}

// Path returns a copy of the preview path.
func (lb *LineBuilder) Path() []Coord {
	return append([]Coord(nil), lb.path...)
}

// Contains reports whether c is part of the preview path.
func (lb *LineBuilder) Contains(c Coord) bool {
	for _, p := range lb.path {
		if p == c {
			return true
		}
	}
	return false
}

// Begin starts a drag at start. Only drag-build tools on an in-bounds
// tile start a gesture.
func (lb *LineBuilder) Begin(tool Tool, start Coord) bool {
	if !tool.IsDragBuild() || !lb.inBounds(start) {
		return false
	}
	lb.tool = tool
	lb.path = []Coord{start}
	lb.active = true
	return true
}

// Move extends or retracts the path towards c. It reports whether the
// path changed.
func (lb *LineBuilder) Move(c Coord) bool {
	if !lb.active || !lb.inBounds(c) || len(lb.path) == 0 {
		return false
	}
	tail := lb.path[len(lb.path)-1]
	if c == tail {
		return false
	}
	for i, p := range lb.path {
		if p == c {
			lb.path = lb.path[:i+1]
			return true
		}
	}
	if tail.Adjacent(c) {
		lb.path = append(lb.path, c)
		return true
	}

	changed := false
	for _, p := range Line(tail, c) {
		if !lb.inBounds(p) || lb.Contains(p) {
			continue
		}
		lb.path = append(lb.path, p)
		changed = true
	}
	return changed
}

// End finishes the gesture and returns the committed path.
func (lb *LineBuilder) End() []Coord {
	if !lb.active {
		return nil
	}
	path := lb.path
	lb.Cancel()
	return path
}

// Cancel abandons the gesture without committing.
func (lb *LineBuilder) Cancel() {
	lb.active = false
	lb.path = nil
	lb.tool = ""
}

// Commit finishes the gesture and bulk-applies its tool to the board.
func (lb *LineBuilder) Commit(r Rules, b Board, opts Options) (Board, int) {
	tool := lb.tool
	path := lb.End()
	if len(path) == 0 {
		return b, 0
	}
	return r.ApplyPath(b, tool, path, opts)
}

// PointerDown starts a drag with the left button; any other button
// cancels the gesture in progress.
func (lb *LineBuilder) PointerDown(p Projector, tool Tool, sx, sy float64, button Button) bool {
	if button != ButtonLeft {
		lb.Cancel()
		return false
	}
	return lb.Begin(tool, p.ScreenToGrid(sx, sy))
}

// PointerMove follows the pointer while a drag is active.
func (lb *LineBuilder) PointerMove(p Projector, sx, sy float64) bool {
	if !lb.active {
		return false
	}
	return lb.Move(p.ScreenToGrid(sx, sy))
}

// PointerUp ends the drag and returns the path to commit. A release of a
// non-left button cancels instead.
func (lb *LineBuilder) PointerUp(button Button) []Coord {
	if button != ButtonLeft {
		lb.Cancel()
		return nil
	}
	return lb.End()
}

// PointerLeave cancels the drag when the pointer leaves the canvas.
func (lb *LineBuilder) PointerLeave() {
	lb.Cancel()
}

// KeyEscape cancels the drag.
func (lb *LineBuilder) KeyEscape() {
	lb.Cancel()
}
