package core

// Line returns the tiles on the Bresenham line from a to b, inclusive of
// both endpoints, in order from a.
func Line(a, b Coord) []Coord {
	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	dy := b.Y - a.Y
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	points := make([]Coord, 0, max(dx, dy)+1)
	x, y := a.X, a.Y
	err := dx - dy
	for {
		points = append(points, C(x, y))
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return points
}
