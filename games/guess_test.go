package games

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arcadebot/models"
)

func newDiceSession(target int) *models.GameSession {
	return &models.GameSession{
		Kind:        models.GameDice,
		CostPaid:    10,
		MaxAttempts: 3,
		Guess:       &models.GuessState{Target: target, Min: 1, Max: 6},
	}
}

func TestResolveGuess_DiceHintsThenWin(t *testing.T) {
	sess := newDiceSession(4)

	out := ResolveGuess(sess, 1)
	assert.Equal(t, models.ResultContinue, out.Result)
	assert.Equal(t, "higher", out.Hint)
	assert.Equal(t, 1, sess.AttemptsUsed)

	out = ResolveGuess(sess, 6)
	assert.Equal(t, models.ResultContinue, out.Result)
	assert.Equal(t, "lower", out.Hint)

	out = ResolveGuess(sess, 4)
	assert.Equal(t, models.ResultWin, out.Result)
	assert.Equal(t, int64(30), out.Payout)
	assert.Equal(t, 3, sess.AttemptsUsed)
}

func TestResolveGuess_DiceExhaustionRevealsTarget(t *testing.T) {
	sess := newDiceSession(4)

	for _, guess := range []int{1, 2, 3} {
		out := ResolveGuess(sess, guess)
		if sess.AttemptsUsed < sess.MaxAttempts {
			assert.Equal(t, models.ResultContinue, out.Result)
		} else {
			assert.Equal(t, models.ResultLose, out.Result)
			assert.Zero(t, out.Payout)
			assert.Contains(t, out.Message, "4")
		}
	}
}

func TestResolveGuess_WinOnLastAttempt(t *testing.T) {
	sess := newDiceSession(4)
	sess.AttemptsUsed = 2

	out := ResolveGuess(sess, 4)
	assert.Equal(t, models.ResultWin, out.Result)
	assert.Equal(t, int64(30), out.Payout)
}

func TestResolveGuess_NumberPaysQuadruple(t *testing.T) {
	sess := &models.GameSession{
		Kind:        models.GameNumber,
		CostPaid:    15,
		MaxAttempts: 5,
		Guess:       &models.GuessState{Target: 73, Min: 1, Max: 100},
	}

	out := ResolveGuess(sess, 50)
	assert.Equal(t, models.ResultContinue, out.Result)
	assert.Equal(t, "higher", out.Hint)

	out = ResolveGuess(sess, 73)
	assert.Equal(t, models.ResultWin, out.Result)
	assert.Equal(t, int64(60), out.Payout)
}
