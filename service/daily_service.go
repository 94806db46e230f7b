package service

import (
	"context"
	"fmt"
	"time"

	"arcadebot/events"
	"arcadebot/models"
)

const (
	dailyRewardFree    = 50
	dailyRewardPremium = 100

	claimDateLayout = "2006-01-02"
)

// DailyClaimGate enforces the once-per-calendar-day claim of free credits.
// Day boundaries are UTC dates; a claim made at 23:59 permits another at
// 00:00 the next day.
type DailyClaimGate struct {
	ledger *Ledger
	store  Store
	locks  *userLocks
	bus    *events.Bus

	now func() time.Time
}

// NewDailyClaimGate creates a claim gate backed by the given ledger and store.
func NewDailyClaimGate(ledger *Ledger, store Store, locks *userLocks, bus *events.Bus) *DailyClaimGate {
	return &DailyClaimGate{
		ledger: ledger,
		store:  store,
		locks:  locks,
		bus:    bus,
		now:    time.Now,
	}
}

// Claim grants the daily reward if the user has not yet claimed today.
// It returns the reward amount and the updated user, or ErrAlreadyClaimed.
// The claim marker is persisted before the credit is applied, so a crash
// between the two loses the reward rather than allowing a double claim.
func (g *DailyClaimGate) Claim(ctx context.Context, userID int64) (int64, *models.User, error) {
	mu := g.locks.Lock(userID)
	defer mu.Unlock()

	user, err := g.ledger.loadLocked(ctx, userID)
	if err != nil {
		return 0, nil, err
	}

	today := g.now().UTC().Format(claimDateLayout)
	last, err := g.store.LastClaim(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load last claim for user %d: %w", userID, err)
	}
	if last == today {
		return 0, nil, models.ErrAlreadyClaimed
	}

	premium, err := g.ledger.isPremiumActiveLocked(ctx, user)
	if err != nil {
		return 0, nil, err
	}
	reward := int64(dailyRewardFree)
	if premium {
		reward = dailyRewardPremium
	}

	if err := g.store.PutClaim(ctx, userID, today); err != nil {
		return 0, nil, fmt.Errorf("failed to record claim for user %d: %w", userID, err)
	}
	if err := g.ledger.creditLocked(ctx, user, reward, models.TransactionTypeDailyClaim, map[string]any{"date": today}); err != nil {
		return 0, nil, err
	}

	g.bus.Emit(ctx, events.DailyClaimedEvent{
		UserID: userID,
		Reward: reward,
		Date:   today,
	})
	return reward, user.Clone(), nil
}

// ClaimedToday reports whether the user has already claimed on the current
// UTC date, without mutating anything.
func (g *DailyClaimGate) ClaimedToday(ctx context.Context, userID int64) (bool, error) {
	last, err := g.store.LastClaim(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load last claim for user %d: %w", userID, err)
	}
	return last == g.now().UTC().Format(claimDateLayout), nil
}
