package games

import (
	"fmt"
	"math/rand"
	"strings"

	"arcadebot/models"
)

// Reel symbols in ascending value order; the last two carry the big triples.
var slotSymbols = []string{"🍒", "🍋", "🍊", "🍇", "💎", "7️⃣"}

const (
	slotsJackpotSymbol = "7️⃣"
	slotsDiamondSymbol = "💎"

	slotsJackpotMultiplier = 50
	slotsDiamondMultiplier = 20
	slotsTripleMultiplier  = 10
	slotsPairMultiplier    = 2
)

// SpinReels draws three reels independently and uniformly.
func SpinReels(rng *rand.Rand) [3]string {
	var reels [3]string
	for i := range reels {
		reels[i] = slotSymbols[rng.Intn(len(slotSymbols))]
	}
	return reels
}

// ScoreSpin computes the slots outcome for a fixed reel draw: any triple pays
// a symbol-ranked multiplier, any pair pays 2x, everything else loses.
func ScoreSpin(cost int64, reels [3]string) models.Outcome {
	display := strings.Join(reels[:], " | ")

	var payout int64
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		switch reels[0] {
		case slotsJackpotSymbol:
			payout = cost * slotsJackpotMultiplier
		case slotsDiamondSymbol:
			payout = cost * slotsDiamondMultiplier
		default:
			payout = cost * slotsTripleMultiplier
		}
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		payout = cost * slotsPairMultiplier
	}

	if payout > 0 {
		return models.Outcome{
			Result:  models.ResultWin,
			Payout:  payout,
			Message: fmt.Sprintf("%s\n\nYou won %d credits!", display, payout),
		}
	}
	return models.Outcome{
		Result:  models.ResultLose,
		Message: fmt.Sprintf("%s\n\nYou lost %d credits.", display, cost),
	}
}
