package service

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"arcadebot/events"
	"arcadebot/models"
)

const (
	premiumWinThreshold  = 10
	premiumUpgradeChance = 0.2
	premiumTrialDays     = 3
)

// PremiumEvaluator decides whether a game win triggers the random trial
// premium upgrade: eligible users are non-premium players with at least
// ten lifetime wins, and each eligible win has a 20% chance.
type PremiumEvaluator struct {
	ledger *Ledger
	bus    *events.Bus

	chance func() float64
}

// NewPremiumEvaluator creates the evaluator over the given ledger.
func NewPremiumEvaluator(ledger *Ledger, bus *events.Bus) *PremiumEvaluator {
	return &PremiumEvaluator{
		ledger: ledger,
		bus:    bus,
		chance: rand.Float64,
	}
}

// evaluateLocked runs the upgrade roll for a user who has just won a game.
// The caller holds the user's lock and has already recorded the win, so
// user.GamesWon includes the current win. Returns true when premium was
// granted by this call.
func (e *PremiumEvaluator) evaluateLocked(ctx context.Context, user *models.User) (bool, error) {
	premium, err := e.ledger.isPremiumActiveLocked(ctx, user)
	if err != nil {
		return false, err
	}
	if premium || user.GamesWon < premiumWinThreshold {
		return false, nil
	}
	if e.chance() >= premiumUpgradeChance {
		return false, nil
	}

	expiry := time.Now().UTC().AddDate(0, 0, premiumTrialDays)
	user.IsPremium = true
	user.PremiumExpiry = &expiry
	if err := e.ledger.persistLocked(ctx, user); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"gamesWon": user.GamesWon,
	}).Info("Granted trial premium for win streak")
	e.bus.Emit(ctx, events.PremiumGrantedEvent{
		UserID:    user.ID,
		Days:      premiumTrialDays,
		GrantedBy: "win_streak",
	})
	return true, nil
}
