package core

import (
	"errors"
	"math/rand"
)

// ErrNotDamaged is returned when repairing a tile that has no damage.
var ErrNotDamaged = errors.New("tile is not damaged")

// DefaultDamageProbability is the per-tile chance of siege damage.
const DefaultDamageProbability = 0.15

// SiegeResolver rolls siege damage against the fort.
type SiegeResolver struct {
	rng *rand.Rand
}

// NewSiegeResolver creates a resolver drawing from rng.
func NewSiegeResolver(rng *rand.Rand) *SiegeResolver {
	return &SiegeResolver{rng: rng}
}

// Resolve rolls once per damageable, undamaged, non-start tile in row-major
// order and marks hits as damaged. It returns a new grid and the keys of
// the newly damaged tiles; the input grid is not modified.
func (s *SiegeResolver) Resolve(g *Grid, probability float64) (*Grid, []Key) {
	next := g.Clone()
	var damaged []Key
	if probability <= 0 {
		return next, damaged
	}
	for i, t := range next.Tiles {
		if !t.IsDamageable() || t.Building.Damaged {
			continue
		}
		if s.rng.Float64() >= probability {
			continue
		}
		next.Tiles[i].Building.Damaged = true
		damaged = append(damaged, C(i%next.Size, i/next.Size).Key())
	}
	return next, damaged
}

// Repair clears the damage on the tile at key and charges cost to the
// ledger. Nothing changes unless the tile is damaged and the cost is
// covered.
func Repair(g *Grid, l Ledger, key Key, cost Amounts) (*Grid, Ledger, error) {
	c, err := ParseKey(key)
	if err != nil {
		return g, l, err
	}
	tile, ok := g.Get(c)
	if !ok {
		return g, l, ErrOutOfBounds
	}
	if !tile.Building.Damaged {
		return g, l, ErrNotDamaged
	}
	next, err := l.Spend(cost)
	if err != nil {
		return g, l, err
	}
	tile.Building.Damaged = false
	return g.With(c, tile), next, nil
}
