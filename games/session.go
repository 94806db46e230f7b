package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"arcadebot/models"
)

const (
	diceMin          = 1
	diceMax          = 6
	diceAttempts     = 3
	numberMin        = 1
	numberMax        = 100
	numberAttempts   = 5
	diceMultiplier   = 3
	numberMultiplier = 4
)

// NewSession builds a session with randomized initial state for the given
// game. costPaid is the stake already debited for this attempt.
func NewSession(rng *rand.Rand, userID int64, kind models.GameKind, costPaid int64) (*models.GameSession, error) {
	sess := &models.GameSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		CostPaid:  costPaid,
		StartedAt: time.Now().UTC(),
	}

	switch kind {
	case models.GameDice:
		sess.MaxAttempts = diceAttempts
		sess.Guess = &models.GuessState{
			Target: diceMin + rng.Intn(diceMax-diceMin+1),
			Min:    diceMin,
			Max:    diceMax,
		}
	case models.GameNumber:
		sess.MaxAttempts = numberAttempts
		sess.Guess = &models.GuessState{
			Target: numberMin + rng.Intn(numberMax-numberMin+1),
			Min:    numberMin,
			Max:    numberMax,
		}
	case models.GameQuiz:
		q := QuestionBank[rng.Intn(len(QuestionBank))]
		sess.MaxAttempts = 1
		sess.Quiz = &models.QuizState{
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
			Answer:   q.Answer,
		}
	case models.GameRPS:
		sess.MaxAttempts = 1
	case models.GameSlots:
		sess.MaxAttempts = 1
	case models.GameBlackjack:
		deck := NewShoe(rng)
		state := &models.BlackjackState{
			PlayerHand: []models.Card{deck[0], deck[2]},
			DealerHand: []models.Card{deck[1], deck[3]},
			Deck:       deck[4:],
		}
		sess.Blackjack = state
	default:
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}

	return sess, nil
}

// Resolve applies a player action to a live session. The engines are pure
// with respect to shared state: they mutate only the session passed in and
// draw house randomness from rng. The caller settles the returned outcome.
func Resolve(rng *rand.Rand, sess *models.GameSession, action models.Action) (models.Outcome, error) {
	if action.Kind() != sess.Kind {
		return models.Outcome{}, &models.WrongGameKindError{Have: sess.Kind, Want: action.Kind()}
	}

	switch sess.Kind {
	case models.GameDice, models.GameNumber:
		a, ok := action.(models.GuessAction)
		if !ok {
			return models.Outcome{}, fmt.Errorf("unexpected action type %T for %s", action, sess.Kind)
		}
		return ResolveGuess(sess, a.N), nil
	case models.GameQuiz:
		a, ok := action.(models.AnswerAction)
		if !ok {
			return models.Outcome{}, fmt.Errorf("unexpected action type %T for quiz", action)
		}
		return ResolveQuiz(sess, a.Index), nil
	case models.GameRPS:
		a, ok := action.(models.RPSAction)
		if !ok {
			return models.Outcome{}, fmt.Errorf("unexpected action type %T for rps", action)
		}
		return ResolveRPS(sess, a.Choice, DrawRPS(rng)), nil
	case models.GameBlackjack:
		a, ok := action.(models.BlackjackAction)
		if !ok {
			return models.Outcome{}, fmt.Errorf("unexpected action type %T for blackjack", action)
		}
		return ResolveBlackjack(sess, a.Move)
	default:
		return models.Outcome{}, fmt.Errorf("unknown game kind %q", sess.Kind)
	}
}
