package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"arcadebot/events"
	"arcadebot/models"
	"arcadebot/repository"
)

func newTestLedger(store Store) *Ledger {
	return NewLedger(store, newUserLocks(), events.NewBus())
}

func TestLedger_GetOrCreate_NewUser(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(123456)).Return(nil, nil)
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == 123456 &&
			u.Username == "newuser" &&
			u.Credits == models.DefaultStartingCredits
	})).Return(nil)
	mockStore.On("AppendLedgerEntry", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 123456 &&
			e.Delta == models.DefaultStartingCredits &&
			e.BalanceAfter == models.DefaultStartingCredits &&
			e.Reason == models.TransactionTypeInitial
	})).Return(nil)

	user, err := ledger.GetOrCreate(ctx, 123456, "newuser")

	require.NoError(t, err)
	assert.Equal(t, models.DefaultStartingCredits, user.Credits)
	assert.False(t, user.IsPremium)

	mockStore.AssertExpectations(t)
}

func TestLedger_GetOrCreate_ExistingUser(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	existing := &models.User{ID: 123456, Username: "olduser", Credits: 55}
	mockStore.On("GetUser", ctx, int64(123456)).Return(existing, nil)

	user, err := ledger.GetOrCreate(ctx, 123456, "olduser")

	require.NoError(t, err)
	assert.Equal(t, int64(55), user.Credits)

	// No creation, no writes
	mockStore.AssertNotCalled(t, "PutUser")
	mockStore.AssertNotCalled(t, "AppendLedgerEntry")
}

func TestLedger_TryDebit_Success(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Credits: 100}, nil)
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Credits == 90
	})).Return(nil)
	mockStore.On("AppendLedgerEntry", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Delta == -10 && e.BalanceAfter == 90 && e.Reason == models.TransactionTypeGameCost
	})).Return(nil)

	user, err := ledger.TryDebit(ctx, 1, 10, models.TransactionTypeGameCost, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(90), user.Credits)

	mockStore.AssertExpectations(t)
}

func TestLedger_TryDebit_InsufficientCredits(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Credits: 5}, nil)

	_, err := ledger.TryDebit(ctx, 1, 10, models.TransactionTypeGameCost, nil)

	var insufficient *models.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(10), insufficient.Required)
	assert.Equal(t, int64(5), insufficient.Available)

	// Balance must be untouched on failure
	mockStore.AssertNotCalled(t, "PutUser")
}

func TestLedger_TryDebit_UnknownUser(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(42)).Return(nil, nil)

	_, err := ledger.TryDebit(ctx, 42, 10, models.TransactionTypeGameCost, nil)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLedger_Credit_TracksEarnings(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Credits: 50, TotalEarnings: 200}, nil)
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Credits == 80 && u.TotalEarnings == 230
	})).Return(nil)
	mockStore.On("AppendLedgerEntry", ctx, mock.Anything).Return(nil)

	user, err := ledger.Credit(ctx, 1, 30, models.TransactionTypeGamePayout, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(80), user.Credits)
	assert.Equal(t, int64(230), user.TotalEarnings)
}

func TestLedger_RecordGameResult(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, GamesPlayed: 7, GamesWon: 3}, nil)
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.GamesPlayed == 8 && u.GamesWon == 4
	})).Return(nil)

	require.NoError(t, ledger.RecordGameResult(ctx, 1, true))
	mockStore.AssertExpectations(t)
}

func TestLedger_IsPremiumActive_LazyExpiry(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	expired := time.Now().Add(-time.Hour)
	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{
		ID: 1, IsPremium: true, PremiumExpiry: &expired,
	}, nil)
	// The stale flag is corrected and persisted
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return !u.IsPremium && u.PremiumExpiry == nil
	})).Return(nil)

	premium, err := ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, premium)

	mockStore.AssertExpectations(t)
}

func TestLedger_IsPremiumActive_Current(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	future := time.Now().Add(time.Hour)
	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{
		ID: 1, IsPremium: true, PremiumExpiry: &future,
	}, nil)

	premium, err := ledger.IsPremiumActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, premium)

	// Still valid, nothing to correct
	mockStore.AssertNotCalled(t, "PutUser")
}

func TestLedger_GrantAndRevokePremium(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.IsPremium && u.PremiumExpiry != nil
	})).Return(nil).Once()

	user, err := ledger.GrantPremium(ctx, 1, 3)
	require.NoError(t, err)
	require.NotNil(t, user.PremiumExpiry)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 3), *user.PremiumExpiry, time.Minute)

	mockStore.On("PutUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return !u.IsPremium && u.PremiumExpiry == nil
	})).Return(nil).Once()

	require.NoError(t, ledger.RevokePremium(ctx, 1))
	mockStore.AssertExpectations(t)
}

func TestLedger_PersistFailureAborts(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockStore)
	ledger := newTestLedger(mockStore)

	boom := errors.New("connection reset")
	mockStore.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Credits: 100}, nil)
	mockStore.On("PutUser", ctx, mock.Anything).Return(boom)

	_, err := ledger.TryDebit(ctx, 1, 10, models.TransactionTypeGameCost, nil)
	require.ErrorIs(t, err, boom)
	mockStore.AssertNotCalled(t, "AppendLedgerEntry")
}

func TestLedger_ConcurrentCredits_NoLostUpdates(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore()
	ledger := newTestLedger(store)

	_, err := ledger.GetOrCreate(ctx, 1, "racer")
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Credit(ctx, 1, 10, models.TransactionTypeBonus, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := ledger.GetOrCreate(ctx, 1, "racer")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStartingCredits+int64(workers*10), user.Credits)
}
