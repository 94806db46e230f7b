package games

import (
	"fmt"
	"math/rand"

	"arcadebot/models"
)

const rpsMultiplier = 2

var rpsChoices = []models.RPSChoice{models.RPSRock, models.RPSPaper, models.RPSScissors}

// beats maps each choice to the choice it defeats.
var beats = map[models.RPSChoice]models.RPSChoice{
	models.RPSRock:     models.RPSScissors,
	models.RPSPaper:    models.RPSRock,
	models.RPSScissors: models.RPSPaper,
}

// DrawRPS draws the house choice uniformly at resolution time.
func DrawRPS(rng *rand.Rand) models.RPSChoice {
	return rpsChoices[rng.Intn(len(rpsChoices))]
}

// ResolveRPS settles a rock-paper-scissors round. A tie is a push: the stake
// is refunded, not forfeited.
func ResolveRPS(sess *models.GameSession, player, house models.RPSChoice) models.Outcome {
	sess.AttemptsUsed++

	switch {
	case player == house:
		return models.Outcome{
			Result:  models.ResultPush,
			Payout:  sess.CostPaid,
			Message: fmt.Sprintf("Both chose %s. It's a tie! Your %d credits have been returned.", house, sess.CostPaid),
		}
	case beats[player] == house:
		payout := sess.CostPaid * rpsMultiplier
		return models.Outcome{
			Result:  models.ResultWin,
			Payout:  payout,
			Message: fmt.Sprintf("%s beats %s. You won %d credits!", player, house, payout),
		}
	default:
		return models.Outcome{
			Result:  models.ResultLose,
			Message: fmt.Sprintf("%s beats %s. You lost %d credits.", house, player, sess.CostPaid),
		}
	}
}
