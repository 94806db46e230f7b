package models

import (
	"time"
)

// TransactionType represents the reason for a credit balance change
type TransactionType string

const (
	TransactionTypeInitial     TransactionType = "initial"
	TransactionTypeDailyClaim  TransactionType = "daily_claim"
	TransactionTypeGameCost    TransactionType = "game_cost"
	TransactionTypeGamePayout  TransactionType = "game_payout"
	TransactionTypeGameRefund  TransactionType = "game_refund"
	TransactionTypeBonus       TransactionType = "bonus"
	TransactionTypeAdminCredit TransactionType = "admin_credit"
)

// LedgerEntry is an audit record for a single committed balance change.
type LedgerEntry struct {
	ID           int64           `db:"id"`
	UserID       int64           `db:"user_id"`
	Delta        int64           `db:"delta"`
	BalanceAfter int64           `db:"balance_after"`
	Reason       TransactionType `db:"reason"`
	Metadata     map[string]any  `db:"metadata"`
	CreatedAt    time.Time       `db:"created_at"`
}
