package forts

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/tui-forts/internal/core"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

const (
	hudHeight    = 2
	footerHeight = 2
	minScreenW   = 40
	minScreenH   = 12
	cursorMargin = 4 // cells kept between the cursor and the map edge
)

// Render draws the fort, the HUD and any phase overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	if g.tooSmall() {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, "Please resize terminal")
		return
	}

	g.renderHUD(dst)
	if g.state.Phase != fort.PhaseNameEntry {
		g.renderMap(dst)
	}
	g.renderFooter(dst)

	now := g.now()
	switch {
	case g.state.Phase == fort.PhaseNameEntry:
		g.renderOverlay(dst, core.ColorBrightYellow,
			"Name your fort",
			"",
			string(g.name)+"_",
			"",
			"Enter to confirm")
	case g.paused:
		g.renderOverlay(dst, core.ColorWhite, "Paused", "Press P to continue")
	case g.state.Phase == fort.PhaseCardDraw:
		g.renderCardDraw(dst)
	case g.state.Phase == fort.PhaseDefense:
		g.renderOverlay(dst, core.ColorBrightRed, "The enemy attacks!", "Hold the walls...")
	case g.state.Phase == fort.PhaseRoundEnd:
		g.renderOverlay(dst, core.ColorBrightGreen,
			fmt.Sprintf("Round %d complete", g.state.Round),
			fmt.Sprintf("Next round in %s", clockText(g.state.Remaining(now))))
	}
}

func (g *Game) tooSmall() bool {
	return g.screenW < minScreenW || g.screenH < minScreenH
}

// mapRect is the screen area the map is drawn into.
func (g *Game) mapRect() core.Rect {
	return core.NewRect(0, hudHeight, g.screenW, g.screenH-hudHeight-footerHeight)
}

// recenter pans the view so the cursor sits in the middle of the map.
func (g *Game) recenter() {
	r := g.mapRect()
	cx, cy := r.Center()
	g.view = terminalViewport().CenterOn(g.cursor, float64(cx), float64(cy))
}

// keepCursorVisible recenters when the cursor gets close to the map edge.
func (g *Game) keepCursorVisible() {
	r := g.mapRect()
	col, row := g.cell(g.cursor)
	if col < r.X+cursorMargin || col >= r.Right()-cursorMargin ||
		row < r.Y+1 || row >= r.Bottom()-1 {
		g.recenter()
	}
}

// cell returns the screen cell at the centre of tile c.
func (g *Game) cell(c fort.Coord) (int, int) {
	sx, sy := g.view.GridToScreen(c.X, c.Y)
	return int(math.Floor(sx)), int(math.Floor(sy))
}

// renderHUD draws the status lines above the map.
func (g *Game) renderHUD(dst *core.Screen) {
	s := g.state
	name := s.FortName
	if name == "" {
		name = "IsoForts"
	}

	status := fmt.Sprintf(" %s  Round %d  %s", name, s.Round, s.Phase.Title())
	if !s.PhaseEndsAt.IsZero() {
		status += " " + clockText(s.Remaining(g.now()))
	}
	dst.DrawTextWithColor(0, 0, status, core.ColorBrightWhite)

	stats := fmt.Sprintf("Defense %d  Towers %d  Damaged %d ", s.Stats.Defense, s.Stats.Towers, s.Stats.Damaged)
	if x := g.screenW - utf8.RuneCountInString(stats); x > utf8.RuneCountInString(status)+1 {
		dst.DrawTextWithColor(x, 0, stats, core.ColorCyan)
	}

	x := 1
	if s.Ledger.FreeBuilder {
		x = drawField(dst, x, 1, "FREE BUILDER", core.ColorBrightMagenta)
	} else {
		bal := s.Ledger.Display()
		caps := s.Ledger.Caps
		x = drawField(dst, x, 1, resourceText("Wood", bal.Wood, caps.Wood), core.ColorTimber)
		x = drawField(dst, x, 1, resourceText("Stone", bal.Stone, caps.Stone), core.ColorStone)
		x = drawField(dst, x, 1, resourceText("Food", bal.Food, caps.Food), core.ColorGreen)
	}
	x = drawField(dst, x, 1, fmt.Sprintf("Walls %d %s", s.WallBlocks, s.WallType), core.ColorYellow)
	if info, ok := s.SelectedTool.Info(); ok && s.Phase == fort.PhaseBuild {
		x = drawField(dst, x, 1, "Tool: "+info.Name, core.ColorBrightWhite)
	}
	if s.Card != nil {
		label := s.Card.CardID
		if card, ok := g.engine.Catalog()[s.Card.CardID]; ok {
			label = card.Name
		}
		drawField(dst, x, 1, fmt.Sprintf("%s: %d left", label, s.Card.Remaining), core.ColorBlue)
	}
	if s.ShowUnderground {
		tag := "UNDERGROUND "
		dst.DrawTextWithColor(g.screenW-len(tag), 1, tag, core.ColorBrightMagenta)
	}
}

// renderMap draws every tile that falls inside the map area.
func (g *Game) renderMap(dst *core.Screen) {
	r := g.mapRect()
	grid := g.state.Grid

	var eligible fort.CoordSet
	if g.state.ShowUnderground {
		eligible = fort.Eligible(grid)
	}

	for _, c := range grid.AllCoords() {
		col, row := g.cell(c)
		if row < r.Y || row >= r.Bottom() || col+2 <= r.X || col-2 >= r.Right() {
			continue
		}
		t, _ := grid.Get(c)

		var gl Glyph
		if g.state.ShowUnderground {
			gl = UndergroundGlyph(t, eligible.Has(c))
		} else {
			gl = SurfaceGlyph(t)
		}
		if g.lines.Contains(c) {
			gl.Color = core.ColorBrightCyan
		}
		g.drawTile(dst, r, col, row, gl)
	}

	g.drawMarker(dst, r, g.cursor, '[', ']', core.ColorBrightWhite)
	if sel := g.state.SelectedDamaged; sel != "" {
		if c, err := fort.ParseKey(sel); err == nil && c != g.cursor {
			g.drawMarker(dst, r, c, '<', '>', core.ColorBrightMagenta)
		}
	}
}

// drawTile fills the four cells of a tile and overlays its code.
func (g *Game) drawTile(dst *core.Screen, r core.Rect, col, row int, gl Glyph) {
	for dx := -2; dx < 2; dx++ {
		if x := col + dx; r.Contains(x, row) {
			dst.SetWithColor(x, row, gl.Fill, gl.Color)
		}
	}
	if gl.Code == "" {
		return
	}
	for i, ch := range gl.Code {
		if x := col - 1 + i; r.Contains(x, row) {
			dst.SetWithColor(x, row, ch, gl.CodeColor)
		}
	}
}

func (g *Game) drawMarker(dst *core.Screen, r core.Rect, c fort.Coord, left, right rune, color core.Color) {
	col, row := g.cell(c)
	if r.Contains(col-2, row) {
		dst.SetWithColor(col-2, row, left, color)
	}
	if r.Contains(col+1, row) {
		dst.SetWithColor(col+1, row, right, color)
	}
}

// renderFooter draws the tile under the cursor, the latest message and
// the key hints for the current phase.
func (g *Game) renderFooter(dst *core.Screen) {
	y := g.screenH - footerHeight
	dst.DrawHLine(0, y, g.screenW, ' ')

	if g.message != "" && g.now().Before(g.messageUntil) {
		dst.DrawTextWithColor(1, y, g.message, core.ColorBrightYellow)
	} else if g.state.Phase != fort.PhaseNameEntry {
		dst.DrawTextWithColor(1, y, g.tileInfo(g.cursor), core.ColorWhite)
	}

	dst.DrawTextWithColor(1, y+1, g.hints(), core.ColorGray)
}

func (g *Game) tileInfo(c fort.Coord) string {
	t, ok := g.state.Grid.Get(c)
	if !ok {
		return ""
	}
	info := fmt.Sprintf("%s  %s", c.Key(), t.Zone)
	if t.Zone == fort.ZoneWall {
		info += " (" + string(t.WallType) + ")"
	}
	if t.Building.Type != fort.BuildingEmpty && t.Building.Type != fort.BuildingGrass {
		info += "  " + string(t.Building.Type)
	}
	if t.Underground.Type != fort.BuildingEmpty {
		info += "  below: " + string(t.Underground.Type)
	}
	if t.Building.Damaged {
		info += "  DAMAGED"
	}
	return info
}

func (g *Game) hints() string {
	switch g.state.Phase {
	case fort.PhaseNameEntry:
		return "Type a name  Enter confirm  Esc quit"
	case fort.PhaseCardDraw:
		return "C play moat card  Enter continue  U underground  Q quit"
	case fort.PhaseBuild:
		if g.lines.Active() {
			return "Arrows extend line  Space commit  Esc cancel"
		}
		return "Arrows move  Space place  Tab tool  T walls  C card  U underground  N end build"
	case fort.PhaseRepair:
		return "Tab next damaged  Space select  R repair  N next round"
	default:
		return "Arrows move  Z recenter  P pause  Q quit"
	}
}

// renderCardDraw lists the moat cards that can be played this round.
func (g *Game) renderCardDraw(dst *core.Screen) {
	catalog := g.engine.Catalog()
	lines := []string{"Card draw", ""}
	for _, id := range catalog.IDs() {
		card := catalog[id]
		if card.EffectKey != fort.EffectMoat {
			continue
		}
		mark := " "
		if g.state.Card != nil && g.state.Card.CardID == id {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-12s %2d blocks  %s", mark, card.Name, card.BuildBlocks, formatAmounts(card.Cost)))
	}
	lines = append(lines, "", "C play  Enter continue")
	g.renderOverlay(dst, core.ColorBlue, lines...)
}

// renderOverlay draws a centred box with the given lines.
func (g *Game) renderOverlay(dst *core.Screen, color core.Color, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(l))
	}
	boxW := min(maxLen+4, dst.Width())
	boxH := min(len(lines)+2, dst.Height())
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, color)
	for i, l := range lines {
		x := box.X + (boxW-utf8.RuneCountInString(l))/2
		dst.DrawText(x, box.Y+1+i, l)
	}
}

// drawField writes text at x and returns the column after it plus a gap.
func drawField(dst *core.Screen, x, y int, text string, c core.Color) int {
	dst.DrawTextWithColor(x, y, text, c)
	return x + utf8.RuneCountInString(text) + 2
}

func resourceText(label string, v, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("%s %d", label, v)
	}
	return fmt.Sprintf("%s %d/%d", label, v, limit)
}

// clockText formats a duration as m:ss, rounding up.
func clockText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
