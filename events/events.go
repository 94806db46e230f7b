package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"arcadebot/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeUserCreated    EventType = "user_created"
	EventTypeGameSettled    EventType = "game_settled"
	EventTypePremiumGranted EventType = "premium_granted"
	EventTypePremiumRevoked EventType = "premium_revoked"
	EventTypeDailyClaimed   EventType = "daily_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new user creation
type UserCreatedEvent struct {
	UserID         int64
	Username       string
	InitialCredits int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// GameSettledEvent represents a game session reaching a terminal outcome
type GameSettledEvent struct {
	UserID   int64
	GameKind models.GameKind
	Result   models.GameResult
	CostPaid int64
	Payout   int64
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// PremiumGrantedEvent represents a premium grant, either from an admin or a
// winning-streak upgrade. Subscribers use it to notify the affected user.
type PremiumGrantedEvent struct {
	UserID    int64
	Days      int
	GrantedBy string // "admin" or "win_streak"
}

func (e PremiumGrantedEvent) Type() EventType {
	return EventTypePremiumGranted
}

// PremiumRevokedEvent represents an admin premium revocation
type PremiumRevokedEvent struct {
	UserID int64
}

func (e PremiumRevokedEvent) Type() EventType {
	return EventTypePremiumRevoked
}

// DailyClaimedEvent represents a successful daily reward claim
type DailyClaimedEvent struct {
	UserID int64
	Reward int64
	Date   string
}

func (e DailyClaimedEvent) Type() EventType {
	return EventTypeDailyClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously; a failing or panicking handler never affects the mutation
// that emitted the event.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}
