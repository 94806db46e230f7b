package games

import (
	"fmt"
	"math/rand"
	"strings"

	"arcadebot/models"
)

const (
	blackjackTarget    = 21
	dealerStandScore   = 17
	blackjackWinFactor = 2 // plain win pays 2x cost
)

var shoeRanks = []models.Card{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// NewShoe builds a shuffled 52-card shoe. Suits are not tracked; scoring only
// needs ranks.
func NewShoe(rng *rand.Rand) []models.Card {
	deck := make([]models.Card, 0, 52)
	for i := 0; i < 4; i++ {
		deck = append(deck, shoeRanks...)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// ScoreHand sums a blackjack hand: face cards count 10, aces count 11 and are
// reduced to 1, one at a time, while the hand would bust.
func ScoreHand(hand []models.Card) int {
	score := 0
	aces := 0
	for _, card := range hand {
		switch card {
		case "J", "Q", "K":
			score += 10
		case "A":
			aces++
			score += 11
		default:
			// Ranks 2-10.
			n := 0
			fmt.Sscanf(string(card), "%d", &n)
			score += n
		}
	}
	for score > blackjackTarget && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// IsNatural reports whether the player's initial deal is a blackjack.
func IsNatural(sess *models.GameSession) bool {
	return len(sess.Blackjack.PlayerHand) == 2 && ScoreHand(sess.Blackjack.PlayerHand) == blackjackTarget
}

// NaturalOutcome settles an initial-deal blackjack: it pays floor(2.5x cost)
// with no hit/stand action required.
func NaturalOutcome(sess *models.GameSession) models.Outcome {
	payout := sess.CostPaid * 5 / 2
	return models.Outcome{
		Result: models.ResultBlackjack,
		Payout: payout,
		Message: fmt.Sprintf("%s\n\nBLACKJACK! You won %d credits!",
			describeHands(sess.Blackjack), payout),
	}
}

// ResolveBlackjack applies a hit or stand to a live blackjack session. Hitting
// draws one card and busts at >21; standing runs the dealer (who hits while
// under 17) and compares scores.
func ResolveBlackjack(sess *models.GameSession, move models.BlackjackMove) (models.Outcome, error) {
	state := sess.Blackjack

	switch move {
	case models.BlackjackHit:
		if len(state.Deck) == 0 {
			return models.Outcome{}, fmt.Errorf("blackjack shoe exhausted")
		}
		state.PlayerHand = append(state.PlayerHand, state.Deck[0])
		state.Deck = state.Deck[1:]

		score := ScoreHand(state.PlayerHand)
		if score > blackjackTarget {
			return models.Outcome{
				Result: models.ResultLose,
				Message: fmt.Sprintf("%s\n\nBust! You lost %d credits.",
					describeHands(state), sess.CostPaid),
			}, nil
		}
		return models.Outcome{
			Result: models.ResultContinue,
			Hint:   "hit or stand",
			Message: fmt.Sprintf("Your hand: %s (Score: %d)\nDealer shows: %s ?",
				joinCards(state.PlayerHand), score, state.DealerHand[0]),
		}, nil

	case models.BlackjackStand:
		playDealer(state)
		return settleStand(sess), nil

	default:
		return models.Outcome{}, fmt.Errorf("unknown blackjack move %q", move)
	}
}

// playDealer draws for the house: hit while under 17, stand at 17 or more.
func playDealer(state *models.BlackjackState) {
	for ScoreHand(state.DealerHand) < dealerStandScore && len(state.Deck) > 0 {
		state.DealerHand = append(state.DealerHand, state.Deck[0])
		state.Deck = state.Deck[1:]
	}
}

func settleStand(sess *models.GameSession) models.Outcome {
	state := sess.Blackjack
	playerScore := ScoreHand(state.PlayerHand)
	dealerScore := ScoreHand(state.DealerHand)
	hands := describeHands(state)

	switch {
	case dealerScore > blackjackTarget || playerScore > dealerScore:
		payout := sess.CostPaid * blackjackWinFactor
		return models.Outcome{
			Result:  models.ResultWin,
			Payout:  payout,
			Message: fmt.Sprintf("%s\n\nYou won %d credits!", hands, payout),
		}
	case playerScore == dealerScore:
		return models.Outcome{
			Result:  models.ResultPush,
			Payout:  sess.CostPaid,
			Message: fmt.Sprintf("%s\n\nPush! Your bet of %d credits has been returned.", hands, sess.CostPaid),
		}
	default:
		return models.Outcome{
			Result:  models.ResultLose,
			Message: fmt.Sprintf("%s\n\nYou lost %d credits.", hands, sess.CostPaid),
		}
	}
}

func joinCards(hand []models.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

func describeHands(state *models.BlackjackState) string {
	return fmt.Sprintf("Your hand: %s (Score: %d)\nDealer's hand: %s (Score: %d)",
		joinCards(state.PlayerHand), ScoreHand(state.PlayerHand),
		joinCards(state.DealerHand), ScoreHand(state.DealerHand))
}
