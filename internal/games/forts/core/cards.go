package core

import (
	"errors"
	"sort"
)

// Card errors.
var (
	ErrUnknownCard     = errors.New("unknown card")
	ErrCardNotPlayable = errors.New("card has no playable effect")
)

// Rarity grades how often a card is drawn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityUnique    Rarity = "unique"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// CardCategory groups cards by what they affect.
type CardCategory string

const (
	CategoryBuildings CardCategory = "buildings"
	CategoryTerrain   CardCategory = "terrain"
)

// EffectMoat is the effect key of cards granting moat build blocks.
const EffectMoat = "moat"

// Card is a playable card record.
type Card struct {
	ID            string
	Name          string
	Rarity        Rarity
	Category      CardCategory
	Description   string
	PlayablePhase Phase
	Cost          Amounts
	EffectKey     string
	BuildBlocks   int
}

// Catalog indexes cards by id.
type Catalog map[string]Card

// DefaultCatalog returns the base card set.
func DefaultCatalog() Catalog {
	cards := []Card{
		{
			ID: "building_stone_mason", Name: "Stone Mason", Rarity: RarityCommon,
			Category: CategoryBuildings, PlayablePhase: PhaseBuild,
			Description: "Unlocks a Stone Mason workshop for processing stone.",
			Cost:        Amounts{Wood: 5, Food: 5}, EffectKey: string(BuildingStoneMason),
		},
		{
			ID: "building_carpenter", Name: "Carpenter", Rarity: RarityCommon,
			Category: CategoryBuildings, PlayablePhase: PhaseBuild,
			Description: "Unlocks a Carpenter workshop for processing wood.",
			Cost:        Amounts{Stone: 5, Food: 5}, EffectKey: string(BuildingCarpenter),
		},
		{
			ID: "building_mess_hall", Name: "Mess Hall", Rarity: RarityCommon,
			Category: CategoryBuildings, PlayablePhase: PhaseBuild,
			Description: "Unlocks a Mess Hall to keep defenders fed.",
			Cost:        Amounts{Wood: 5, Stone: 5}, EffectKey: string(BuildingMessHall),
		},
		{
			ID: "terrain_moat_common", Name: "Small Ditch", Rarity: RarityCommon,
			Category: CategoryTerrain, PlayablePhase: PhaseBuild,
			Description: "Build out 4 moat segments.",
			Cost:        Amounts{Food: 10}, EffectKey: EffectMoat, BuildBlocks: 4,
		},
		{
			ID: "terrain_moat_unique", Name: "Full Moat", Rarity: RarityUnique,
			Category: CategoryTerrain, PlayablePhase: PhaseBuild,
			Description: "Build out 7 moat segments.",
			Cost:        Amounts{Food: 18}, EffectKey: EffectMoat, BuildBlocks: 7,
		},
		{
			ID: "terrain_moat_rare", Name: "Full Moat", Rarity: RarityRare,
			Category: CategoryTerrain, PlayablePhase: PhaseBuild,
			Description: "Build out 10 moat segments.",
			Cost:        Amounts{Food: 25}, EffectKey: EffectMoat, BuildBlocks: 10,
		},
	}
	c := make(Catalog, len(cards))
	for _, card := range cards {
		c[card.ID] = card
	}
	return c
}

// IDs returns the card ids in sorted order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildingCosts derives placement costs from the building cards.
func (c Catalog) BuildingCosts() map[BuildingType]Amounts {
	costs := make(map[BuildingType]Amounts)
	for _, card := range c {
		bt := BuildingType(card.EffectKey)
		if card.Category == CategoryBuildings && bt.IsResource() {
			costs[bt] = card.Cost
		}
	}
	return costs
}

// PlayMoatCard activates a moat card on the board. Re-playing the card
// that is already active with blocks left costs nothing; otherwise the
// card's cost is charged and its build budget replaces any previous one.
func PlayMoatCard(b Board, card Card) (Board, error) {
	if card.EffectKey != EffectMoat || card.BuildBlocks <= 0 {
		return b, ErrCardNotPlayable
	}
	if b.Card != nil && b.Card.CardID == card.ID && b.Card.Remaining > 0 {
		return b, nil
	}
	ledger, err := b.Ledger.Spend(card.Cost)
	if err != nil {
		return b, err
	}
	b.Ledger = ledger
	b.Card = &CardBudget{CardID: card.ID, Remaining: card.BuildBlocks}
	return b, nil
}
