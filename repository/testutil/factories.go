package testutil

import (
	"time"

	"arcadebot/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(userID int64, username string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:        userID,
		Username:  username,
		Credits:   models.DefaultStartingCredits,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestUserWithCredits creates a test user with a specific balance
func CreateTestUserWithCredits(userID int64, username string, credits int64) *models.User {
	user := CreateTestUser(userID, username)
	user.Credits = credits
	return user
}

// CreateTestPremiumUser creates a test user with premium active until expiry
func CreateTestPremiumUser(userID int64, username string, expiry time.Time) *models.User {
	user := CreateTestUser(userID, username)
	user.IsPremium = true
	user.PremiumExpiry = &expiry
	return user
}

// CreateTestLedgerEntry creates a test ledger entry
func CreateTestLedgerEntry(userID int64, reason models.TransactionType) *models.LedgerEntry {
	return &models.LedgerEntry{
		UserID:       userID,
		Delta:        -10,
		BalanceAfter: 90,
		Reason:       reason,
		Metadata:     map[string]any{"test": true},
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}
