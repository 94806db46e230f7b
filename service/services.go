package service

import (
	"arcadebot/events"
)

// Services bundles the fully wired service layer. Every service shares a
// single per-user lock table so cross-service operations on the same user
// serialize correctly.
type Services struct {
	Ledger *Ledger
	Daily  *DailyClaimGate
	Games  *SessionRegistry
	Admin  *AdminService
	Stats  *StatsService
}

// NewServices wires the service layer over the given store and event bus.
func NewServices(store Store, bus *events.Bus, adminIDs []int64) *Services {
	locks := newUserLocks()
	ledger := NewLedger(store, locks, bus)
	premium := NewPremiumEvaluator(ledger, bus)
	return &Services{
		Ledger: ledger,
		Daily:  NewDailyClaimGate(ledger, store, locks, bus),
		Games:  NewSessionRegistry(ledger, premium, locks, bus),
		Admin:  NewAdminService(ledger, store, adminIDs),
		Stats:  NewStatsService(ledger, store),
	}
}
