package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/vovakirdan/tui-forts/internal/games/forts"
	fort "github.com/vovakirdan/tui-forts/internal/games/forts/core"
)

const maxCanvas = 8192

// ViewParams describes the canvas a fort is projected onto.
type ViewParams struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
	DPR    float64 `json:"dpr"`
}

// TileView is one tile projected to canvas pixels.
type TileView struct {
	Key         fort.Key          `json:"key"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	ScreenX     float64           `json:"sx"`
	ScreenY     float64           `json:"sy"`
	Zone        fort.Zone         `json:"zone"`
	WallType    fort.WallType     `json:"wallType,omitempty"`
	Building    fort.BuildingType `json:"building"`
	Underground fort.BuildingType `json:"underground,omitempty"`
	Damaged     bool              `json:"damaged,omitempty"`
	Eligible    bool              `json:"eligible,omitempty"`
}

// View is the visible part of a fort in painter's order, back to front.
type View struct {
	FortID      string     `json:"fortId"`
	GridSize    int        `json:"gridSize"`
	Phase       fort.Phase `json:"phase"`
	Round       int        `json:"round"`
	Underground bool       `json:"underground"`
	TileWidth   float64    `json:"tileWidth"`  // projected diamond width
	TileHeight  float64    `json:"tileHeight"` // projected diamond height
	Params      ViewParams `json:"params"`
	Tiles       []TileView `json:"tiles"`
}

// GetView handles GET /api/forts/{id}/view - projects the fort onto a
// canvas. Query: width, height, zoom, panX, panY, dpr, underground.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	params, err := parseViewParams(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	underground, _ := strconv.ParseBool(r.URL.Query().Get("underground"))

	v := s.viewport(state.GridSize(), params)
	params.Zoom = v.Zoom

	var eligible fort.CoordSet
	if underground {
		eligible = fort.Eligible(state.Grid)
	}

	scale := v.Zoom * v.DPR
	tileW := v.HalfTileW * 2 * scale
	tileH := v.HalfTileH * 2 * v.Compression * scale

	view := View{
		FortID:      state.ID,
		GridSize:    state.GridSize(),
		Phase:       state.Phase,
		Round:       state.Round,
		Underground: underground,
		TileWidth:   tileW,
		TileHeight:  tileH,
		Params:      params,
		Tiles:       []TileView{},
	}

	canvasW, canvasH := params.Width*params.DPR, params.Height*params.DPR
	for _, c := range state.Grid.AllCoords() {
		sx, sy := v.GridToScreen(c.X, c.Y)
		if sx+tileW/2 < 0 || sx-tileW/2 > canvasW || sy+tileH/2 < 0 || sy-tileH/2 > canvasH {
			continue
		}
		t, _ := state.Grid.Get(c)
		tv := TileView{
			Key:      c.Key(),
			X:        c.X,
			Y:        c.Y,
			ScreenX:  sx,
			ScreenY:  sy,
			Zone:     t.Zone,
			WallType: t.WallType,
			Building: t.Building.Type,
			Damaged:  t.Building.Damaged,
		}
		if t.Underground.Type != fort.BuildingEmpty {
			tv.Underground = t.Underground.Type
		}
		if underground {
			tv.Eligible = eligible.Has(c)
		}
		view.Tiles = append(view.Tiles, tv)
	}

	sort.SliceStable(view.Tiles, func(i, j int) bool {
		a, b := view.Tiles[i], view.Tiles[j]
		if a.X+a.Y != b.X+b.Y {
			return a.X+a.Y < b.X+b.Y
		}
		return a.X < b.X
	})

	s.respondJSON(w, http.StatusOK, view)
}

// PickTile handles GET /api/forts/{id}/pick - resolves the tile under a
// canvas point. Query: sx, sy plus the view parameters.
func (s *Server) PickTile(w http.ResponseWriter, r *http.Request) {
	params, err := parseViewParams(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	sx, errX := strconv.ParseFloat(q.Get("sx"), 64)
	sy, errY := strconv.ParseFloat(q.Get("sy"), 64)
	if errX != nil || errY != nil {
		s.respondError(w, http.StatusBadRequest, "sx and sy are required")
		return
	}

	state, ok := s.loadState(w, r)
	if !ok {
		return
	}

	v := s.viewport(state.GridSize(), params)
	c := v.ScreenToGrid(sx, sy)
	t, inside := state.Grid.Get(c)
	if !inside {
		s.respondError(w, http.StatusNotFound, "No tile at "+q.Get("sx")+","+q.Get("sy"))
		return
	}

	px, py := v.GridToScreen(c.X, c.Y)
	s.respondJSON(w, http.StatusOK, TileView{
		Key:         c.Key(),
		X:           c.X,
		Y:           c.Y,
		ScreenX:     px,
		ScreenY:     py,
		Zone:        t.Zone,
		WallType:    t.WallType,
		Building:    t.Building.Type,
		Underground: t.Underground.Type,
		Damaged:     t.Building.Damaged,
	})
}

// viewport centres the grid on the canvas, then applies zoom and pan.
// Compression is anchored at the grid centre.
func (s *Server) viewport(size int, p ViewParams) fort.Viewport {
	v := forts.ViewportFromConfig(s.forts)
	v.DPR = p.DPR

	mid := fort.C(size/2, size/2)
	v.CenterX, v.CenterY = v.WorldOf(mid.X, mid.Y)

	cx, cy := p.Width*p.DPR/2, p.Height*p.DPR/2
	v = v.CenterOn(mid, cx, cy)
	v = v.ZoomAt(cx, cy, p.Zoom)
	return v.Pan(p.PanX*p.DPR, p.PanY*p.DPR)
}

func parseViewParams(r *http.Request) (ViewParams, error) {
	var p ViewParams
	var err error
	fields := []struct {
		name string
		dst  *float64
		def  float64
	}{
		{"width", &p.Width, 1280},
		{"height", &p.Height, 720},
		{"zoom", &p.Zoom, 1},
		{"panX", &p.PanX, 0},
		{"panY", &p.PanY, 0},
		{"dpr", &p.DPR, 1},
	}
	for _, f := range fields {
		if *f.dst, err = queryFloat(r, f.name, f.def); err != nil {
			return ViewParams{}, &paramError{f.name}
		}
	}
	if p.Width <= 0 || p.Height <= 0 || p.Width > maxCanvas || p.Height > maxCanvas {
		return ViewParams{}, &paramError{"canvas size"}
	}
	if p.Zoom <= 0 {
		return ViewParams{}, &paramError{"zoom"}
	}
	if p.DPR <= 0 || p.DPR > 4 {
		return ViewParams{}, &paramError{"dpr"}
	}
	return p, nil
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "Invalid " + e.name
}
