package service

import (
	"context"
	"fmt"
	"strconv"

	"arcadebot/models"
)

// StatsService derives read-only reporting views over the ledger.
type StatsService struct {
	ledger *Ledger
	store  Store
}

// NewStatsService creates the stats view over the given store.
func NewStatsService(ledger *Ledger, store Store) *StatsService {
	return &StatsService{ledger: ledger, store: store}
}

// UserStats returns the user record with the derived win rate. Premium
// expiry is evaluated lazily so the returned record never shows a stale
// premium flag.
func (s *StatsService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	// Route through the premium check so an expired flag is corrected first.
	if _, err := s.ledger.IsPremiumActive(ctx, userID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	stats := &models.UserStats{User: user}
	if user.GamesPlayed > 0 {
		stats.WinRate = float64(user.GamesWon) / float64(user.GamesPlayed) * 100
	}
	return stats, nil
}

func parseUserID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
