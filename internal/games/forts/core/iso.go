package core

import "math"

// Viewport maps grid coordinates to screen pixels and back.
//
// The pipeline is: grid -> isometric world -> Y compression around
// (CenterX, CenterY) -> zoom and pan -> device pixel ratio.
type Viewport struct {
	HalfTileW   float64 // half the diamond width in world units
	HalfTileH   float64 // half the diamond height in world units
	OffsetX     float64 // pan, in CSS pixels
	OffsetY     float64
	Zoom        float64
	DPR         float64
	Compression float64 // vertical squash factor, 1 disables it
	CenterX     float64 // world-space fixed point of the compression
	CenterY     float64
	MinZoom     float64
	MaxZoom     float64
}

// NewViewport returns a viewport for tiles of the given full width and height.
func NewViewport(tileW, tileH float64) Viewport {
	return Viewport{
		HalfTileW:   tileW / 2,
		HalfTileH:   tileH / 2,
		Zoom:        1,
		DPR:         1,
		Compression: 1,
		MinZoom:     0.25,
		MaxZoom:     4,
	}
}

func (v Viewport) scale() float64 {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return dpr * zoom
}

func (v Viewport) compression() float64 {
	if v.Compression <= 0 {
		return 1
	}
	return v.Compression
}

// WorldOf returns the isometric world position of a tile centre.
func (v Viewport) WorldOf(x, y int) (float64, float64) {
	wx := float64(x-y) * v.HalfTileW
	wy := float64(x+y) * v.HalfTileH
	return wx, wy
}

// GridToScreen projects the centre of tile (x, y) to screen pixels.
func (v Viewport) GridToScreen(x, y int) (float64, float64) {
	wx, wy := v.WorldOf(x, y)
	return v.WorldToScreen(wx, wy)
}

// WorldToScreen applies compression, zoom, pan and DPR to a world point.
func (v Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	wy = v.CenterY + (wy-v.CenterY)*v.compression()
	s := v.scale()
	return (wx + v.OffsetX/v.zoomOrOne()) * s, (wy + v.OffsetY/v.zoomOrOne()) * s
}

// ScreenToWorld inverts WorldToScreen.
func (v Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	s := v.scale()
	wx := sx/s - v.OffsetX/v.zoomOrOne()
	wy := sy/s - v.OffsetY/v.zoomOrOne()
	wy = v.CenterY + (wy-v.CenterY)/v.compression()
	return wx, wy
}

// ScreenToGrid resolves the tile under a screen point.
// The result may lie outside the grid; callers check bounds.
func (v Viewport) ScreenToGrid(sx, sy float64) Coord {
	wx, wy := v.ScreenToWorld(sx, sy)
	gx := wx/v.HalfTileW + wy/v.HalfTileH
	gy := wy/v.HalfTileH - wx/v.HalfTileW
	return C(int(math.Floor((gx+1)/2)), int(math.Floor((gy+1)/2)))
}

// Pan shifts the view by (dx, dy) screen pixels.
func (v Viewport) Pan(dx, dy float64) Viewport {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	v.OffsetX += dx / dpr
	v.OffsetY += dy / dpr
	return v
}

// ZoomAt changes the zoom level while keeping the world point under the
// cursor fixed on screen. The zoom is clamped to [MinZoom, MaxZoom].
func (v Viewport) ZoomAt(cursorX, cursorY, zoom float64) Viewport {
	if v.MinZoom > 0 && zoom < v.MinZoom {
		zoom = v.MinZoom
	}
	if v.MaxZoom > 0 && zoom > v.MaxZoom {
		zoom = v.MaxZoom
	}
	if zoom <= 0 {
		return v
	}

	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	// Compressed world point under the cursor; compression is anchored in
	// world space so it is unaffected by the zoom change.
	cx := cursorX/v.scale() - v.OffsetX/v.zoomOrOne()
	cy := cursorY/v.scale() - v.OffsetY/v.zoomOrOne()

	v.Zoom = zoom
	v.OffsetX = cursorX/dpr - cx*zoom
	v.OffsetY = cursorY/dpr - cy*zoom
	return v
}

// CenterOn pans so that tile c sits at screen point (sx, sy).
func (v Viewport) CenterOn(c Coord, sx, sy float64) Viewport {
	px, py := v.GridToScreen(c.X, c.Y)
	return v.Pan(sx-px, sy-py)
}

func (v Viewport) zoomOrOne() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}
