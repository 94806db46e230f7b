package service

import (
	"context"

	"arcadebot/models"
)

// UserStore defines the durable store contract for user records. Each Put is
// all-or-nothing: a mutation that fails to persist must not be treated as
// committed by the caller.
type UserStore interface {
	// GetUser retrieves a user by ID, returning (nil, nil) when absent
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername retrieves a user via the username index, returning
	// (nil, nil) when absent
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// PutUser upserts a user record, maintaining the username index
	PutUser(ctx context.Context, user *models.User) error

	// AllUsers returns every user record
	AllUsers(ctx context.Context) ([]*models.User, error)

	// AppendLedgerEntry records an audit entry for a committed balance change
	AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
}

// ClaimStore defines the durable store contract for daily claim records.
// Dates are calendar days formatted as "2006-01-02".
type ClaimStore interface {
	// LastClaim returns the last claim date for a user, or "" if never claimed
	LastClaim(ctx context.Context, userID int64) (string, error)

	// PutClaim records date as the user's last claim date
	PutClaim(ctx context.Context, userID int64, date string) error
}

// Store bundles the two durable tables the engine persists.
type Store interface {
	UserStore
	ClaimStore
}
