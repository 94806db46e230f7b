package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for per-request outcomes. None of these are fatal to the
// process; the transport maps them to user guidance messages.
var (
	ErrSessionAlreadyActive = errors.New("a game session is already active")
	ErrNoActiveSession      = errors.New("no active game session")
	ErrAlreadyClaimed       = errors.New("daily reward already claimed today")
	ErrPremiumRequired      = errors.New("premium status required")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminUnauthorized    = errors.New("not authorized for admin operations")
)

// InsufficientCreditsError is returned when a debit would drive the balance
// negative. It carries enough detail to show the user the cost and shortfall.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: have %d, need %d", e.Available, e.Required)
}

// WrongGameKindError is returned when an action targets a different game than
// the one the user has live.
type WrongGameKindError struct {
	Have GameKind
	Want GameKind
}

func (e *WrongGameKindError) Error() string {
	return fmt.Sprintf("action is for %s but the active game is %s", e.Want, e.Have)
}
