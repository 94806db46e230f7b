package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadebot/events"
	"arcadebot/games"
	"arcadebot/models"
	"arcadebot/repository"
)

func futureExpiry() time.Time {
	return time.Now().UTC().Add(72 * time.Hour)
}

func newTestRegistry(store Store) (*SessionRegistry, *Ledger) {
	locks := newUserLocks()
	bus := events.NewBus()
	ledger := NewLedger(store, locks, bus)
	premium := NewPremiumEvaluator(ledger, bus)
	return NewSessionRegistry(ledger, premium, locks, bus), ledger
}

func TestSessionRegistry_Start_UnknownGame(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameKind("roulette"))
	assert.Error(t, err)
}

func TestSessionRegistry_Start_DebitsCost(t *testing.T) {
	ctx := context.Background()
	reg, ledger := newTestRegistry(repository.NewMemoryStore())

	res, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Nil(t, res.Settlement)
	assert.Equal(t, models.GameDice, res.Session.Kind)
	assert.Equal(t, int64(10), res.Session.CostPaid)

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStartingCredits-10, user.Credits)
	// Counters move only when the game settles
	assert.Zero(t, user.GamesPlayed)
}

func TestSessionRegistry_Start_SecondSessionRejected(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)

	_, err = reg.Start(ctx, 1, "alice", models.GameQuiz)
	assert.ErrorIs(t, err, models.ErrSessionAlreadyActive)
}

func TestSessionRegistry_Start_InsufficientCredits(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	reg, _ := newTestRegistry(store)

	require.NoError(t, store.PutUser(ctx, &models.User{ID: 1, Username: "poor", Credits: 3}))

	_, err := reg.Start(ctx, 1, "poor", models.GameDice)
	var insufficient *models.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Nil(t, reg.ActiveSession(1))
}

func TestSessionRegistry_Start_PremiumGate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	reg, ledger := newTestRegistry(store)

	_, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)

	_, err = reg.Start(ctx, 1, "alice", models.GameSlots)
	assert.ErrorIs(t, err, models.ErrPremiumRequired)

	// Same user with premium gets the discounted stake and an instant spin
	_, err = ledger.Credit(ctx, 1, 100, models.TransactionTypeAdminCredit, nil)
	require.NoError(t, err)
	_, err = ledger.GrantPremium(ctx, 1, 3)
	require.NoError(t, err)

	res, err := reg.Start(ctx, 1, "alice", models.GameSlots)
	require.NoError(t, err)
	assert.Nil(t, res.Session)
	require.NotNil(t, res.Settlement)
	assert.True(t, res.Settlement.Outcome.Terminal())
	assert.Nil(t, reg.ActiveSession(1))

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.GamesPlayed)
}

func TestSessionRegistry_Advance_NoSession(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Advance(ctx, 1, models.GuessAction{Game: models.GameDice, N: 3})
	assert.ErrorIs(t, err, models.ErrNoActiveSession)
}

func TestSessionRegistry_Advance_WrongActionKind(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)

	_, err = reg.Advance(ctx, 1, models.AnswerAction{Index: 0})
	var wrongKind *models.WrongGameKindError
	require.ErrorAs(t, err, &wrongKind)

	// The session survives a mismatched action
	assert.NotNil(t, reg.ActiveSession(1))
}

func TestSessionRegistry_Advance_DiceGuessAgainstQuiz(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameQuiz)
	require.NoError(t, err)

	_, err = reg.Advance(ctx, 1, models.GuessAction{Game: models.GameDice, N: 3})
	var wrongKind *models.WrongGameKindError
	require.ErrorAs(t, err, &wrongKind)
	assert.Equal(t, models.GameQuiz, wrongKind.Have)
	assert.Equal(t, models.GameDice, wrongKind.Want)
	assert.NotNil(t, reg.ActiveSession(1))
}

func TestSessionRegistry_DiceWin_PaysTripleAndBonus(t *testing.T) {
	ctx := context.Background()
	reg, ledger := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)

	target := reg.ActiveSession(1).Guess.Target
	settlement, err := reg.Advance(ctx, 1, models.GuessAction{Game: models.GameDice, N: target})
	require.NoError(t, err)

	assert.Equal(t, models.ResultWin, settlement.Outcome.Result)
	assert.Equal(t, int64(30), settlement.Outcome.Payout)
	assert.GreaterOrEqual(t, settlement.BonusAwarded, int64(10))
	assert.Nil(t, reg.ActiveSession(1))

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.GamesPlayed)
	assert.Equal(t, int64(1), user.GamesWon)
	expected := models.DefaultStartingCredits - 10 + 30 + settlement.BonusAwarded
	assert.Equal(t, expected, user.Credits)
}

func TestSessionRegistry_DiceLoss_AfterExhaustedAttempts(t *testing.T) {
	ctx := context.Background()
	reg, ledger := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)

	target := reg.ActiveSession(1).Guess.Target
	wrong := target + 1
	if wrong > 6 {
		wrong = target - 1
	}

	var settlement *Settlement
	for i := 0; i < 3; i++ {
		settlement, err = reg.Advance(ctx, 1, models.GuessAction{Game: models.GameDice, N: wrong})
		require.NoError(t, err)
	}

	assert.Equal(t, models.ResultLose, settlement.Outcome.Result)
	assert.Zero(t, settlement.Outcome.Payout)
	assert.Zero(t, settlement.BonusAwarded)
	assert.Nil(t, reg.ActiveSession(1))

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.GamesPlayed)
	assert.Zero(t, user.GamesWon)
	assert.Equal(t, models.DefaultStartingCredits-10, user.Credits)
}

func TestSessionRegistry_MidGameHintKeepsSession(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameNumber)
	require.NoError(t, err)

	target := reg.ActiveSession(1).Guess.Target
	wrong := target + 1
	if wrong > 100 {
		wrong = target - 1
	}

	settlement, err := reg.Advance(ctx, 1, models.GuessAction{Game: models.GameNumber, N: wrong})
	require.NoError(t, err)
	assert.Equal(t, models.ResultContinue, settlement.Outcome.Result)
	assert.NotEmpty(t, settlement.Outcome.Hint)

	sess := reg.ActiveSession(1)
	require.NotNil(t, sess)
	assert.Equal(t, 1, sess.AttemptsUsed)
}

func TestSessionRegistry_RPS_SettlesInOneRound(t *testing.T) {
	ctx := context.Background()
	reg, ledger := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameRPS)
	require.NoError(t, err)

	settlement, err := reg.Advance(ctx, 1, models.RPSAction{Choice: models.RPSRock})
	require.NoError(t, err)
	assert.True(t, settlement.Outcome.Terminal())
	assert.Nil(t, reg.ActiveSession(1))

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.GamesPlayed)

	// The balance matches the reported outcome exactly
	expected := models.DefaultStartingCredits - 10 + settlement.Outcome.Payout + settlement.BonusAwarded
	assert.Equal(t, expected, user.Credits)
}

func TestSessionRegistry_Blackjack_PlaysThrough(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	reg, ledger := newTestRegistry(store)

	expiry := futureExpiry()
	require.NoError(t, store.PutUser(ctx, &models.User{
		ID: 1, Username: "alice", Credits: 500, IsPremium: true, PremiumExpiry: &expiry,
	}))

	res, err := reg.Start(ctx, 1, "alice", models.GameBlackjack)
	require.NoError(t, err)

	var settlement *Settlement
	if res.Settlement != nil {
		// Natural on the deal pays out immediately
		settlement = res.Settlement
		assert.Equal(t, models.ResultBlackjack, settlement.Outcome.Result)
		assert.Equal(t, int64(62), settlement.Outcome.Payout)
	} else {
		settlement, err = reg.Advance(ctx, 1, models.BlackjackAction{Move: models.BlackjackStand})
		require.NoError(t, err)
		assert.True(t, settlement.Outcome.Terminal())
	}
	assert.Nil(t, reg.ActiveSession(1))

	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.GamesPlayed)
}

func TestSessionRegistry_Cancel(t *testing.T) {
	ctx := context.Background()
	reg, ledger := newTestRegistry(repository.NewMemoryStore())

	_, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)

	require.NoError(t, reg.Cancel(ctx, 1))
	assert.Nil(t, reg.ActiveSession(1))
	assert.ErrorIs(t, reg.Cancel(ctx, 1), models.ErrNoActiveSession)

	// No refund and no counter movement on cancel
	user, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStartingCredits-10, user.Credits)
	assert.Zero(t, user.GamesPlayed)

	// A new game can start immediately
	_, err = reg.Start(ctx, 1, "alice", models.GameQuiz)
	require.NoError(t, err)
}

func TestSessionRegistry_PremiumDiscountApplied(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	reg, _ := newTestRegistry(store)

	expiry := futureExpiry()
	require.NoError(t, store.PutUser(ctx, &models.User{
		ID: 1, Username: "alice", Credits: 100, IsPremium: true, PremiumExpiry: &expiry,
	}))

	res, err := reg.Start(ctx, 1, "alice", models.GameDice)
	require.NoError(t, err)
	assert.Equal(t, games.CostFor(models.GameDice, true), res.Session.CostPaid)
	assert.Equal(t, int64(5), res.Session.CostPaid)
}
