package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"arcadebot/events"
	"arcadebot/models"
)

// Bonus award tuning, matching the reward schedule of the original bot.
const (
	bonusBase          = 10
	bonusMaxMultiplier = 5
	luckyBonusChance   = 0.1
	premiumBonusShare  = 2 // premium adds points/2
)

// Ledger owns every mutation of user credit balances, premium status, and
// lifetime stats. All mutating operations are serialized per user and are
// persisted before returning; a store failure aborts the mutation.
type Ledger struct {
	store Store
	locks *userLocks
	bus   *events.Bus
}

// NewLedger creates a new ledger over the given durable store.
func NewLedger(store Store, locks *userLocks, bus *events.Bus) *Ledger {
	return &Ledger{
		store: store,
		locks: locks,
		bus:   bus,
	}
}

// GetOrCreate returns the user record, creating it with the default starting
// balance on first reference. The new record is persisted immediately.
func (l *Ledger) GetOrCreate(ctx context.Context, userID int64, username string) (*models.User, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.getOrCreateLocked(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// TryDebit atomically checks and subtracts amount from the user's balance,
// failing with InsufficientCreditsError when the balance would go negative.
func (l *Ledger) TryDebit(ctx context.Context, userID int64, amount int64, reason models.TransactionType, metadata map[string]any) (*models.User, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := l.debitLocked(ctx, user, amount, reason, metadata); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// Credit atomically adds amount to the user's balance and total earnings.
func (l *Ledger) Credit(ctx context.Context, userID int64, amount int64, reason models.TransactionType, metadata map[string]any) (*models.User, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := l.creditLocked(ctx, user, amount, reason, metadata); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// RecordGameResult increments the lifetime game counters for a settled game.
func (l *Ledger) RecordGameResult(ctx context.Context, userID int64, won bool) error {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return err
	}
	return l.recordGameResultLocked(ctx, user, won)
}

// IsPremiumActive reports whether the user currently holds premium status.
// An expired premium flag is corrected and persisted before returning; this
// is the single source of truth for every cost and reward tier decision.
func (l *Ledger) IsPremiumActive(ctx context.Context, userID int64) (bool, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return false, err
	}
	return l.isPremiumActiveLocked(ctx, user)
}

// GrantPremium sets the premium flag with an expiry durationDays from now.
func (l *Ledger) GrantPremium(ctx context.Context, userID int64, durationDays int) (*models.User, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().UTC().AddDate(0, 0, durationDays)
	user.IsPremium = true
	user.PremiumExpiry = &expiry
	if err := l.persistLocked(ctx, user); err != nil {
		return nil, err
	}
	l.bus.Emit(ctx, events.PremiumGrantedEvent{
		UserID:    userID,
		Days:      durationDays,
		GrantedBy: "admin",
	})
	return user.Clone(), nil
}

// RevokePremium clears the premium flag and expiry unconditionally.
func (l *Ledger) RevokePremium(ctx context.Context, userID int64) error {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return err
	}
	user.IsPremium = false
	user.PremiumExpiry = nil
	if err := l.persistLocked(ctx, user); err != nil {
		return err
	}
	l.bus.Emit(ctx, events.PremiumRevokedEvent{UserID: userID})
	return nil
}

// AwardBonus grants the post-win random bonus: base points times a random
// multiplier, a 10% lucky extra, and a 50% premium top-up. It returns the
// total points granted and a rendering of the extras.
func (l *Ledger) AwardBonus(ctx context.Context, userID int64) (int64, string, error) {
	mu := l.locks.Lock(userID)
	defer mu.Unlock()

	user, err := l.loadLocked(ctx, userID)
	if err != nil {
		return 0, "", err
	}
	return l.awardBonusLocked(ctx, user)
}

// --- locked internals, shared with the session registry ---

func (l *Ledger) loadLocked(ctx context.Context, userID int64) (*models.User, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (l *Ledger) getOrCreateLocked(ctx context.Context, userID int64, username string) (*models.User, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user != nil {
		if username != "" && user.Username != username {
			// Keep the username index current for admin lookups.
			user.Username = username
			if err := l.persistLocked(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	user = models.NewUser(userID, username)
	if err := l.persistLocked(ctx, user); err != nil {
		return nil, err
	}
	l.appendEntry(ctx, &models.LedgerEntry{
		UserID:       userID,
		Delta:        user.Credits,
		BalanceAfter: user.Credits,
		Reason:       models.TransactionTypeInitial,
		Metadata:     map[string]any{"username": username},
	})
	l.bus.Emit(ctx, events.UserCreatedEvent{
		UserID:         userID,
		Username:       username,
		InitialCredits: user.Credits,
	})
	return user, nil
}

func (l *Ledger) debitLocked(ctx context.Context, user *models.User, amount int64, reason models.TransactionType, metadata map[string]any) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive")
	}
	if user.Credits < amount {
		return &models.InsufficientCreditsError{Required: amount, Available: user.Credits}
	}

	oldBalance := user.Credits
	user.Credits -= amount
	if err := l.persistLocked(ctx, user); err != nil {
		user.Credits = oldBalance
		return err
	}
	l.appendEntry(ctx, &models.LedgerEntry{
		UserID:       user.ID,
		Delta:        -amount,
		BalanceAfter: user.Credits,
		Reason:       reason,
		Metadata:     metadata,
	})
	l.emitBalanceChange(ctx, user.ID, oldBalance, user.Credits, reason)
	return nil
}

func (l *Ledger) creditLocked(ctx context.Context, user *models.User, amount int64, reason models.TransactionType, metadata map[string]any) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}

	oldBalance := user.Credits
	user.Credits += amount
	user.TotalEarnings += amount
	if err := l.persistLocked(ctx, user); err != nil {
		user.Credits = oldBalance
		user.TotalEarnings -= amount
		return err
	}
	l.appendEntry(ctx, &models.LedgerEntry{
		UserID:       user.ID,
		Delta:        amount,
		BalanceAfter: user.Credits,
		Reason:       reason,
		Metadata:     metadata,
	})
	l.emitBalanceChange(ctx, user.ID, oldBalance, user.Credits, reason)
	return nil
}

func (l *Ledger) recordGameResultLocked(ctx context.Context, user *models.User, won bool) error {
	user.GamesPlayed++
	if won {
		user.GamesWon++
	}
	if err := l.persistLocked(ctx, user); err != nil {
		user.GamesPlayed--
		if won {
			user.GamesWon--
		}
		return err
	}
	return nil
}

func (l *Ledger) isPremiumActiveLocked(ctx context.Context, user *models.User) (bool, error) {
	if !user.IsPremium {
		return false, nil
	}
	if user.PremiumExpiry == nil {
		return true, nil
	}
	if user.PremiumExpiry.After(time.Now()) {
		return true, nil
	}

	// Lazy expiry: correct the stored flag before any dependent decision.
	user.IsPremium = false
	user.PremiumExpiry = nil
	if err := l.persistLocked(ctx, user); err != nil {
		return false, err
	}
	return false, nil
}

func (l *Ledger) awardBonusLocked(ctx context.Context, user *models.User) (int64, string, error) {
	points := int64(bonusBase * (1 + rand.Intn(bonusMaxMultiplier)))

	extras := ""
	if rand.Float64() < luckyBonusChance {
		lucky := int64((1 + rand.Intn(5)) * 10)
		points += lucky
		extras += fmt.Sprintf("\n🍀 Lucky bonus: +%d credits!", lucky)
	}

	premium, err := l.isPremiumActiveLocked(ctx, user)
	if err != nil {
		return 0, "", err
	}
	if premium {
		premiumBonus := points / premiumBonusShare
		points += premiumBonus
		extras += fmt.Sprintf("\n💎 Premium bonus: +%d credits!", premiumBonus)
	}

	if err := l.creditLocked(ctx, user, points, models.TransactionTypeBonus, nil); err != nil {
		return 0, "", err
	}
	return points, extras, nil
}

func (l *Ledger) persistLocked(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if err := l.store.PutUser(ctx, user); err != nil {
		return fmt.Errorf("failed to persist user %d: %w", user.ID, err)
	}
	return nil
}

// appendEntry writes the audit record for an already-committed balance
// change. Audit is best-effort: a failure is logged by the store layer but
// never rolls back the committed mutation.
func (l *Ledger) appendEntry(ctx context.Context, entry *models.LedgerEntry) {
	entry.CreatedAt = time.Now().UTC()
	if err := l.store.AppendLedgerEntry(ctx, entry); err != nil {
		log.WithFields(log.Fields{
			"userID": entry.UserID,
			"reason": entry.Reason,
			"delta":  entry.Delta,
		}).WithError(err).Error("Failed to append ledger entry")
	}
}

func (l *Ledger) emitBalanceChange(ctx context.Context, userID, oldBalance, newBalance int64, reason models.TransactionType) {
	l.bus.Emit(ctx, events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      oldBalance,
		NewBalance:      newBalance,
		TransactionType: reason,
		ChangeAmount:    newBalance - oldBalance,
	})
}
