package models

// GameResult classifies how a player action resolved.
type GameResult string

const (
	ResultWin       GameResult = "win"
	ResultBlackjack GameResult = "blackjack" // natural 21, higher payout than a plain win
	ResultLose      GameResult = "lose"
	ResultPush      GameResult = "push" // tie, stake refunded
	ResultContinue  GameResult = "continue"
)

// Outcome is the structured result of advancing a session. Rendering it to
// platform markup is the transport's job.
type Outcome struct {
	Result  GameResult
	Payout  int64 // credits returned to the user; includes the refunded stake on push
	Message string
	Hint    string // set on continue outcomes (e.g. "higher"/"lower")
}

// Terminal reports whether the session is finished.
func (o Outcome) Terminal() bool {
	return o.Result != ResultContinue
}

// Won reports whether the outcome counts as a win for the lifetime stats.
// A push refunds the stake but is neither a win nor a loss.
func (o Outcome) Won() bool {
	return o.Result == ResultWin || o.Result == ResultBlackjack
}
