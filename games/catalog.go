package games

import (
	"arcadebot/models"
)

// Entry describes the cost tiers and access rules for one game.
type Entry struct {
	Cost        int64 // credits for free users
	PremiumCost int64 // discounted tier for premium users
	PremiumOnly bool
}

// Catalog lists every playable game with its credit costs.
var Catalog = map[models.GameKind]Entry{
	models.GameDice:      {Cost: 10, PremiumCost: 5},
	models.GameNumber:    {Cost: 15, PremiumCost: 7},
	models.GameQuiz:      {Cost: 20, PremiumCost: 10},
	models.GameRPS:       {Cost: 10, PremiumCost: 5},
	models.GameSlots:     {Cost: 25, PremiumCost: 12, PremiumOnly: true},
	models.GameBlackjack: {Cost: 50, PremiumCost: 25, PremiumOnly: true},
}

// CostFor returns the tier-appropriate cost of a game.
func CostFor(kind models.GameKind, premium bool) int64 {
	entry, ok := Catalog[kind]
	if !ok {
		return 0
	}
	if premium {
		return entry.PremiumCost
	}
	return entry.Cost
}

// Known reports whether kind names a playable game.
func Known(kind models.GameKind) bool {
	_, ok := Catalog[kind]
	return ok
}
