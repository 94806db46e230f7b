package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcadebot/models"
	"arcadebot/service"
)

// All three stores implement the same service contract.
var (
	_ service.Store = (*MemoryStore)(nil)
	_ service.Store = (*PostgresStore)(nil)
	_ service.Store = (*RedisStore)(nil)
)

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, user)

	original := models.NewUser(1, "alice")
	require.NoError(t, store.PutUser(ctx, original))

	got, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, original.Credits, got.Credits)

	// The store holds copies, not the caller's pointer
	got.Credits = 999
	again, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, original.Credits, again.Credits)

	byName, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, int64(1), byName.ID)

	users, err := store.AllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMemoryStore_ClaimsAndLedger(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	date, err := store.LastClaim(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, date)

	require.NoError(t, store.PutClaim(ctx, 1, "2026-08-31"))
	date, err = store.LastClaim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", date)

	require.NoError(t, store.AppendLedgerEntry(ctx, &models.LedgerEntry{
		UserID: 1, Delta: -10, BalanceAfter: 90, Reason: models.TransactionTypeGameCost,
	}))
	require.NoError(t, store.AppendLedgerEntry(ctx, &models.LedgerEntry{
		UserID: 1, Delta: 30, BalanceAfter: 120, Reason: models.TransactionTypeGamePayout,
	}))

	entries := store.LedgerEntries(1)
	require.Len(t, entries, 2)
	assert.Equal(t, models.TransactionTypeGameCost, entries[0].Reason)
	assert.Equal(t, int64(2), entries[1].ID)
}
