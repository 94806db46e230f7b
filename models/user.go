package models

import (
	"time"
)

// DefaultStartingCredits is the balance every new user starts with.
const DefaultStartingCredits int64 = 100

// User represents a chat platform user with a credit balance
type User struct {
	ID            int64      `db:"user_id"`
	Username      string     `db:"username"`
	Credits       int64      `db:"credits"`
	IsPremium     bool       `db:"is_premium"`
	PremiumExpiry *time.Time `db:"premium_expiry"`
	GamesPlayed   int64      `db:"games_played"`
	GamesWon      int64      `db:"games_won"`
	TotalEarnings int64      `db:"total_earnings"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// NewUser creates a user record with the default starting balance.
func NewUser(id int64, username string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Username:  username,
		Credits:   DefaultStartingCredits,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy so callers never hold a reference into store-owned state.
func (u *User) Clone() *User {
	c := *u
	if u.PremiumExpiry != nil {
		expiry := *u.PremiumExpiry
		c.PremiumExpiry = &expiry
	}
	return &c
}
