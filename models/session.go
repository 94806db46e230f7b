package models

import (
	"time"
)

// GameKind identifies one of the supported mini-games
type GameKind string

const (
	GameDice      GameKind = "dice"
	GameNumber    GameKind = "number"
	GameQuiz      GameKind = "quiz"
	GameRPS       GameKind = "rps"
	GameSlots     GameKind = "slots"
	GameBlackjack GameKind = "blackjack"
)

// Card is a playing card rank; suits are irrelevant for blackjack scoring.
type Card string

// GuessState holds the hidden target for the dice and number games.
type GuessState struct {
	Target int
	Min    int
	Max    int
}

// QuizState holds the drawn question for a quiz round.
type QuizState struct {
	Question string
	Options  []string
	Answer   int
}

// BlackjackState holds the shoe and both hands of a blackjack round.
type BlackjackState struct {
	Deck       []Card
	PlayerHand []Card
	DealerHand []Card
}

// GameSession is the live, exclusive per-user state of an in-progress game.
// Exactly one of the variant pointers is set, matching Kind; rps carries no
// state beyond the kind.
type GameSession struct {
	ID           string
	UserID       int64
	Kind         GameKind
	CostPaid     int64
	AttemptsUsed int
	MaxAttempts  int
	StartedAt    time.Time

	Guess     *GuessState
	Quiz      *QuizState
	Blackjack *BlackjackState
}

// Clone returns a deep copy of the session so callers outside the registry
// never share mutable state with it.
func (s *GameSession) Clone() *GameSession {
	c := *s
	if s.Guess != nil {
		guess := *s.Guess
		c.Guess = &guess
	}
	if s.Quiz != nil {
		quiz := *s.Quiz
		quiz.Options = append([]string(nil), s.Quiz.Options...)
		c.Quiz = &quiz
	}
	if s.Blackjack != nil {
		c.Blackjack = &BlackjackState{
			Deck:       append([]Card(nil), s.Blackjack.Deck...),
			PlayerHand: append([]Card(nil), s.Blackjack.PlayerHand...),
			DealerHand: append([]Card(nil), s.Blackjack.DealerHand...),
		}
	}
	return &c
}

// RPSChoice is a rock-paper-scissors throw.
type RPSChoice string

const (
	RPSRock     RPSChoice = "rock"
	RPSPaper    RPSChoice = "paper"
	RPSScissors RPSChoice = "scissors"
)

// BlackjackMove is a player decision in blackjack.
type BlackjackMove string

const (
	BlackjackHit   BlackjackMove = "hit"
	BlackjackStand BlackjackMove = "stand"
)

// Action is a player move directed at a live session. Each action carries the
// game kind it belongs to so the registry can reject mismatched input.
type Action interface {
	Kind() GameKind
}

// GuessAction is a numeric guess for the dice or number game.
type GuessAction struct {
	Game GameKind // GameDice or GameNumber
	N    int
}

func (a GuessAction) Kind() GameKind { return a.Game }

// AnswerAction selects a quiz option by index.
type AnswerAction struct {
	Index int
}

func (AnswerAction) Kind() GameKind { return GameQuiz }

// RPSAction is a rock-paper-scissors throw.
type RPSAction struct {
	Choice RPSChoice
}

func (RPSAction) Kind() GameKind { return GameRPS }

// BlackjackAction is a hit or stand decision.
type BlackjackAction struct {
	Move BlackjackMove
}

func (BlackjackAction) Kind() GameKind { return GameBlackjack }
