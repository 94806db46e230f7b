package games

import (
	"fmt"

	"arcadebot/models"
)

// ResolveGuess advances a dice or number session by one guess. An exact match
// wins immediately; otherwise the attempt counter advances and the player gets
// a higher/lower hint until attempts run out.
func ResolveGuess(sess *models.GameSession, guess int) models.Outcome {
	state := sess.Guess
	sess.AttemptsUsed++

	if guess == state.Target {
		multiplier := int64(diceMultiplier)
		if sess.Kind == models.GameNumber {
			multiplier = numberMultiplier
		}
		payout := sess.CostPaid * multiplier
		return models.Outcome{
			Result:  models.ResultWin,
			Payout:  payout,
			Message: fmt.Sprintf("You guessed correctly: %d. You won %d credits!", guess, payout),
		}
	}

	if sess.AttemptsUsed >= sess.MaxAttempts {
		return models.Outcome{
			Result:  models.ResultLose,
			Message: fmt.Sprintf("Out of attempts! The correct number was %d. You lost %d credits.", state.Target, sess.CostPaid),
		}
	}

	hint := "higher"
	if guess > state.Target {
		hint = "lower"
	}
	return models.Outcome{
		Result: models.ResultContinue,
		Hint:   hint,
		Message: fmt.Sprintf("Wrong guess! The number is %s than %d. Attempts left: %d.",
			hint, guess, sess.MaxAttempts-sess.AttemptsUsed),
	}
}
