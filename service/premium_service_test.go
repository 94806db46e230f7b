package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadebot/events"
	"arcadebot/models"
	"arcadebot/repository"
)

func newTestEvaluator(store Store) (*PremiumEvaluator, *Ledger) {
	locks := newUserLocks()
	bus := events.NewBus()
	ledger := NewLedger(store, locks, bus)
	return NewPremiumEvaluator(ledger, bus), ledger
}

func TestPremiumEvaluator_BelowThresholdNeverUpgrades(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	eval, _ := newTestEvaluator(store)
	eval.chance = func() float64 { return 0 } // would always pass the roll

	user := &models.User{ID: 1, Username: "alice", GamesWon: premiumWinThreshold - 1}
	require.NoError(t, store.PutUser(ctx, user))

	granted, err := eval.evaluateLocked(ctx, user)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.False(t, user.IsPremium)
}

func TestPremiumEvaluator_EligibleWinUpgrades(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	eval, _ := newTestEvaluator(store)
	eval.chance = func() float64 { return 0.19 }

	user := &models.User{ID: 1, Username: "alice", GamesWon: premiumWinThreshold}
	require.NoError(t, store.PutUser(ctx, user))

	granted, err := eval.evaluateLocked(ctx, user)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.True(t, user.IsPremium)
	require.NotNil(t, user.PremiumExpiry)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, premiumTrialDays), *user.PremiumExpiry, time.Minute)

	// The upgrade is persisted
	stored, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.IsPremium)
}

func TestPremiumEvaluator_FailedRollDoesNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	eval, _ := newTestEvaluator(store)
	eval.chance = func() float64 { return 0.2 } // roll must be strictly below the chance

	user := &models.User{ID: 1, Username: "alice", GamesWon: 50}
	require.NoError(t, store.PutUser(ctx, user))

	granted, err := eval.evaluateLocked(ctx, user)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.False(t, user.IsPremium)
}

func TestPremiumEvaluator_AlreadyPremiumSkipsRoll(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	eval, _ := newTestEvaluator(store)
	eval.chance = func() float64 {
		t.Fatal("roll should not run for an active premium user")
		return 0
	}

	expiry := futureExpiry()
	user := &models.User{ID: 1, Username: "alice", GamesWon: 50, IsPremium: true, PremiumExpiry: &expiry}
	require.NoError(t, store.PutUser(ctx, user))

	granted, err := eval.evaluateLocked(ctx, user)
	require.NoError(t, err)
	assert.False(t, granted)
}
