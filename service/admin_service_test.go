package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadebot/events"
	"arcadebot/models"
	"arcadebot/repository"
)

const adminID = int64(900)

func newTestAdmin(store Store) (*AdminService, *Ledger) {
	locks := newUserLocks()
	bus := events.NewBus()
	ledger := NewLedger(store, locks, bus)
	return NewAdminService(ledger, store, []int64{adminID}), ledger
}

func TestAdminService_UnauthorizedCaller(t *testing.T) {
	ctx := context.Background()
	admin, _ := newTestAdmin(repository.NewMemoryStore())

	_, err := admin.GrantPremium(ctx, 1234, "alice", 30)
	assert.ErrorIs(t, err, models.ErrAdminUnauthorized)

	_, err = admin.AddCredits(ctx, 1234, "alice", 100)
	assert.ErrorIs(t, err, models.ErrAdminUnauthorized)

	_, err = admin.GlobalStats(ctx, 1234)
	assert.ErrorIs(t, err, models.ErrAdminUnauthorized)
}

func TestAdminService_GrantAndRevokePremium(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	admin, ledger := newTestAdmin(store)

	_, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)

	// Targets resolve by username, with or without @
	user, err := admin.GrantPremium(ctx, adminID, "@alice", 30)
	require.NoError(t, err)
	assert.True(t, user.IsPremium)

	premium, err := ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, premium)

	require.NoError(t, admin.RevokePremium(ctx, adminID, "alice"))
	premium, err = ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, premium)
}

func TestAdminService_AddCreditsByID(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	admin, ledger := newTestAdmin(store)

	_, err := ledger.GetOrCreate(ctx, 42, "bob")
	require.NoError(t, err)

	user, err := admin.AddCredits(ctx, adminID, "42", 500)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStartingCredits+500, user.Credits)

	_, err = admin.AddCredits(ctx, adminID, "42", -5)
	assert.Error(t, err)
}

func TestAdminService_UnknownTarget(t *testing.T) {
	ctx := context.Background()
	admin, _ := newTestAdmin(repository.NewMemoryStore())

	_, err := admin.GrantPremium(ctx, adminID, "ghost", 30)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestAdminService_GlobalStats(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	admin, ledger := newTestAdmin(store)

	for id, name := range map[int64]string{1: "alice", 2: "bob", 3: "carol"} {
		_, err := ledger.GetOrCreate(ctx, id, name)
		require.NoError(t, err)
	}
	_, err := ledger.GrantPremium(ctx, 2, 30)
	require.NoError(t, err)
	require.NoError(t, ledger.RecordGameResult(ctx, 1, true))

	stats, err := admin.GlobalStats(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.PremiumUsers)
	assert.Equal(t, 3*models.DefaultStartingCredits, stats.TotalCredits)
	assert.Equal(t, models.DefaultStartingCredits, stats.AverageCredits)
	assert.Equal(t, int64(1), stats.TotalGamesPlayed)
}

func TestStatsService_WinRate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	locks := newUserLocks()
	bus := events.NewBus()
	ledger := NewLedger(store, locks, bus)
	stats := NewStatsService(ledger, store)

	_, err := ledger.GetOrCreate(ctx, 1, "alice")
	require.NoError(t, err)

	s, err := stats.UserStats(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, s.WinRate)

	require.NoError(t, ledger.RecordGameResult(ctx, 1, true))
	require.NoError(t, ledger.RecordGameResult(ctx, 1, false))
	require.NoError(t, ledger.RecordGameResult(ctx, 1, true))
	require.NoError(t, ledger.RecordGameResult(ctx, 1, false))

	s, err = stats.UserStats(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, s.WinRate, 0.001)
}
