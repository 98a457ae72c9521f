package core

// Eligible returns the interior of the fort: the tiles where underground
// resource buildings may be placed.
//
// With at least one wall on the map, the interior is everything reachable
// from the start block without crossing a wall. Without walls, it is every
// tile within Manhattan distance 2 of a start tile.
func Eligible(g *Grid) CoordSet {
	starts := g.StartCoords()
	set := make(CoordSet)
	if len(starts) == 0 {
		return set
	}
	if !g.HasZone(ZoneWall) {
		return nearStart(g, starts, 2)
	}

	queue := make([]Coord, 0, len(starts))
	for _, c := range starts {
		set.Add(c)
		queue = append(queue, c)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if set.Has(n) {
				continue
			}
			t, ok := g.Get(n)
			if !ok || !passable(t.Zone) {
				continue
			}
			set.Add(n)
			queue = append(queue, n)
		}
	}
	return set
}

// passable reports whether the interior flood fill may cross zone z.
func passable(z Zone) bool {
	switch z {
	case ZoneStart, ZoneLand, ZoneMoat, ZoneNone:
		return true
	}
	return false
}

func nearStart(g *Grid, starts []Coord, radius int) CoordSet {
	set := make(CoordSet)
	for _, s := range starts {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				c := s.Add(dx, dy)
				if g.InBounds(c) && s.Manhattan(c) <= radius {
					set.Add(c)
				}
			}
		}
	}
	return set
}
