package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"arcadebot/models"
)

// AdminService exposes the operator overrides: premium grants, credit
// adjustments, and the global ledger snapshot. Every call is authorized
// against the configured admin ID list and logged for audit.
type AdminService struct {
	ledger   *Ledger
	store    Store
	adminIDs map[int64]struct{}
}

// NewAdminService creates the admin surface with the given authorized IDs.
func NewAdminService(ledger *Ledger, store Store, adminIDs []int64) *AdminService {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &AdminService{
		ledger:   ledger,
		store:    store,
		adminIDs: ids,
	}
}

// IsAdmin reports whether the caller ID is on the admin list.
func (s *AdminService) IsAdmin(callerID int64) bool {
	_, ok := s.adminIDs[callerID]
	return ok
}

// GrantPremium gives the target user premium for durationDays.
func (s *AdminService) GrantPremium(ctx context.Context, callerID int64, target string, durationDays int) (*models.User, error) {
	if err := s.authorize(callerID, "grant_premium", target); err != nil {
		return nil, err
	}
	if durationDays <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationDays)
	}
	user, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	return s.ledger.GrantPremium(ctx, user.ID, durationDays)
}

// RevokePremium removes the target user's premium status.
func (s *AdminService) RevokePremium(ctx context.Context, callerID int64, target string) error {
	if err := s.authorize(callerID, "revoke_premium", target); err != nil {
		return err
	}
	user, err := s.resolveTarget(ctx, target)
	if err != nil {
		return err
	}
	return s.ledger.RevokePremium(ctx, user.ID)
}

// AddCredits credits the target user's balance out of thin air.
func (s *AdminService) AddCredits(ctx context.Context, callerID int64, target string, amount int64) (*models.User, error) {
	if err := s.authorize(callerID, "add_credits", target); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}
	user, err := s.resolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	return s.ledger.Credit(ctx, user.ID, amount, models.TransactionTypeAdminCredit, map[string]any{"granted_by": callerID})
}

// GlobalStats aggregates the ledger across every registered user.
func (s *AdminService) GlobalStats(ctx context.Context, callerID int64) (*models.GlobalStats, error) {
	if err := s.authorize(callerID, "global_stats", ""); err != nil {
		return nil, err
	}
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	stats := &models.GlobalStats{TotalUsers: len(users)}
	for _, u := range users {
		stats.TotalCredits += u.Credits
		stats.TotalGamesPlayed += u.GamesPlayed
		if u.IsPremium {
			stats.PremiumUsers++
		}
	}
	if stats.TotalUsers > 0 {
		stats.AverageCredits = stats.TotalCredits / int64(stats.TotalUsers)
	}
	return stats, nil
}

func (s *AdminService) authorize(callerID int64, action, target string) error {
	if !s.IsAdmin(callerID) {
		log.WithFields(log.Fields{
			"callerID": callerID,
			"action":   action,
		}).Warn("Rejected unauthorized admin action")
		return models.ErrAdminUnauthorized
	}
	log.WithFields(log.Fields{
		"callerID": callerID,
		"action":   action,
		"target":   target,
	}).Info("Admin action")
	return nil
}

// resolveTarget accepts either a numeric user ID or a username, with or
// without a leading @.
func (s *AdminService) resolveTarget(ctx context.Context, target string) (*models.User, error) {
	target = strings.TrimPrefix(strings.TrimSpace(target), "@")
	if target == "" {
		return nil, fmt.Errorf("empty target user")
	}

	if id, err := parseUserID(target); err == nil {
		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load user %d: %w", id, err)
		}
		if user == nil {
			return nil, models.ErrUserNotFound
		}
		return user, nil
	}

	user, err := s.store.GetUserByUsername(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", target, err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}
