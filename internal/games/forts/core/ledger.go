package core

import "errors"

// ErrInsufficientResources is returned when a cost cannot be covered.
var ErrInsufficientResources = errors.New("insufficient resources")

// FreeBuilderBalance is what Display reports for every pool while free
// builder mode is on.
const FreeBuilderBalance = 999_999

// Amounts is a bundle of the three resources.
type Amounts struct {
	Wood  int `json:"wood" yaml:"wood"`
	Stone int `json:"stone" yaml:"stone"`
	Food  int `json:"food" yaml:"food"`
}

// Add returns the component-wise sum.
func (a Amounts) Add(b Amounts) Amounts {
	return Amounts{Wood: a.Wood + b.Wood, Stone: a.Stone + b.Stone, Food: a.Food + b.Food}
}

// Covers reports whether a is at least b in every resource.
func (a Amounts) Covers(b Amounts) bool {
	return a.Wood >= b.Wood && a.Stone >= b.Stone && a.Food >= b.Food
}

// IsZero reports whether all amounts are zero.
func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// Ledger tracks the resource pools. It is a value type: every operation
// returns a new ledger and leaves the receiver untouched.
type Ledger struct {
	Balances    Amounts `json:"resources"`
	Caps        Amounts `json:"caps"`
	FreeBuilder bool    `json:"freeBuilder"`
}

// NewLedger returns a ledger with the starting balances clamped to caps.
func NewLedger(start, caps Amounts) Ledger {
	l := Ledger{Caps: caps}
	l.Balances = l.clamp(start)
	return l
}

// Stored returns the true balances, ignoring free builder mode.
func (l Ledger) Stored() Amounts {
	return l.Balances
}

// Display returns the balances as shown to the player. Free builder mode
// overrides the read path only.
func (l Ledger) Display() Amounts {
	if l.FreeBuilder {
		return Amounts{Wood: FreeBuilderBalance, Stone: FreeBuilderBalance, Food: FreeBuilderBalance}
	}
	return l.Balances
}

// CanAfford reports whether the ledger covers cost.
func (l Ledger) CanAfford(cost Amounts) bool {
	return l.FreeBuilder || l.Balances.Covers(cost)
}

// Spend deducts cost atomically. Nothing is deducted unless every pool
// covers its share. Free builder mode spends nothing.
func (l Ledger) Spend(cost Amounts) (Ledger, error) {
	if l.FreeBuilder {
		return l, nil
	}
	if !l.Balances.Covers(cost) {
		return l, ErrInsufficientResources
	}
	l.Balances = Amounts{
		Wood:  l.Balances.Wood - cost.Wood,
		Stone: l.Balances.Stone - cost.Stone,
		Food:  l.Balances.Food - cost.Food,
	}
	return l, nil
}

// Add credits amounts, clamping each pool to [0, cap]. A cap of zero
// keeps the pool empty.
func (l Ledger) Add(a Amounts) Ledger {
	l.Balances = l.clamp(l.Balances.Add(a))
	return l
}

// ApplyRoundBonus credits the end-of-round bonus.
func (l Ledger) ApplyRoundBonus(bonus Amounts) Ledger {
	return l.Add(bonus)
}

// WithFreeBuilder toggles free builder mode.
func (l Ledger) WithFreeBuilder(on bool) Ledger {
	l.FreeBuilder = on
	return l
}

func (l Ledger) clamp(a Amounts) Amounts {
	return Amounts{
		Wood:  clampPool(a.Wood, l.Caps.Wood),
		Stone: clampPool(a.Stone, l.Caps.Stone),
		Food:  clampPool(a.Food, l.Caps.Food),
	}
}

func clampPool(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return max(limit, 0)
	}
	return v
}
