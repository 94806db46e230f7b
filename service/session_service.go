package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"arcadebot/events"
	"arcadebot/games"
	"arcadebot/models"
)

// Settlement is the full result of a terminal game outcome: the outcome
// itself plus anything the win pipeline added on top.
type Settlement struct {
	Outcome        models.Outcome
	BonusAwarded   int64
	BonusExtras    string
	PremiumGranted bool
	Balance        int64
}

// StartResult reports a started game. Games that resolve in a single step
// (slots, and a natural blackjack deal) return a nil Session and a non-nil
// Settlement; everything else returns a live Session awaiting actions.
type StartResult struct {
	Session    *models.GameSession
	Settlement *Settlement
}

// SessionRegistry tracks at most one live game session per user and drives
// the full start/advance/settle lifecycle against the ledger.
type SessionRegistry struct {
	ledger  *Ledger
	premium *PremiumEvaluator
	locks   *userLocks
	bus     *events.Bus

	mu       sync.Mutex
	sessions map[int64]*models.GameSession

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSessionRegistry creates a registry with its own seeded RNG.
func NewSessionRegistry(ledger *Ledger, premium *PremiumEvaluator, locks *userLocks, bus *events.Bus) *SessionRegistry {
	return &SessionRegistry{
		ledger:   ledger,
		premium:  premium,
		locks:    locks,
		bus:      bus,
		sessions: make(map[int64]*models.GameSession),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins a game for the user: it rejects a second concurrent session,
// enforces the premium gate, debits the stake, and creates the session.
// The stake is only debited after every precondition has passed.
func (r *SessionRegistry) Start(ctx context.Context, userID int64, username string, kind models.GameKind) (*StartResult, error) {
	if !games.Known(kind) {
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}

	mu := r.locks.Lock(userID)
	defer mu.Unlock()

	if r.activeSession(userID) != nil {
		return nil, models.ErrSessionAlreadyActive
	}

	user, err := r.ledger.getOrCreateLocked(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	premium, err := r.ledger.isPremiumActiveLocked(ctx, user)
	if err != nil {
		return nil, err
	}
	entry := games.Catalog[kind]
	if entry.PremiumOnly && !premium {
		return nil, models.ErrPremiumRequired
	}
	cost := games.CostFor(kind, premium)

	if err := r.ledger.debitLocked(ctx, user, cost, models.TransactionTypeGameCost, map[string]any{"game": string(kind)}); err != nil {
		return nil, err
	}

	// Slots has no player decisions; spin and settle in one step.
	if kind == models.GameSlots {
		reels := r.withRNG(games.SpinReels)
		outcome := games.ScoreSpin(cost, reels)
		settlement, err := r.settleLocked(ctx, user, kind, cost, outcome)
		if err != nil {
			return nil, err
		}
		return &StartResult{Settlement: settlement}, nil
	}

	sess, err := r.newSession(userID, kind, cost)
	if err != nil {
		return nil, err
	}

	// A natural 21 on the deal pays out immediately without any action.
	if kind == models.GameBlackjack && games.IsNatural(sess) {
		outcome := games.NaturalOutcome(sess)
		settlement, err := r.settleLocked(ctx, user, kind, cost, outcome)
		if err != nil {
			return nil, err
		}
		return &StartResult{Settlement: settlement}, nil
	}

	r.mu.Lock()
	r.sessions[userID] = sess
	r.mu.Unlock()

	log.WithFields(log.Fields{
		"userID":    userID,
		"game":      kind,
		"sessionID": sess.ID,
		"cost":      cost,
	}).Debug("Started game session")
	return &StartResult{Session: sess.Clone()}, nil
}

// Advance applies a player action to the user's live session. A terminal
// outcome settles the session and removes it; a continue outcome leaves the
// session live with the attempt consumed.
func (r *SessionRegistry) Advance(ctx context.Context, userID int64, action models.Action) (*Settlement, error) {
	mu := r.locks.Lock(userID)
	defer mu.Unlock()

	sess := r.activeSession(userID)
	if sess == nil {
		return nil, models.ErrNoActiveSession
	}

	outcome, err := r.withRNGErr(func(rng *rand.Rand) (models.Outcome, error) {
		return games.Resolve(rng, sess, action)
	})
	if err != nil {
		return nil, err
	}

	if !outcome.Terminal() {
		return &Settlement{Outcome: outcome}, nil
	}

	r.removeSession(userID)
	user, err := r.ledger.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.settleLocked(ctx, user, sess.Kind, sess.CostPaid, outcome)
}

// Cancel discards the user's live session without refund and without
// touching the lifetime game counters.
func (r *SessionRegistry) Cancel(ctx context.Context, userID int64) error {
	mu := r.locks.Lock(userID)
	defer mu.Unlock()

	if r.activeSession(userID) == nil {
		return models.ErrNoActiveSession
	}
	r.removeSession(userID)
	log.WithField("userID", userID).Debug("Cancelled game session")
	return nil
}

// ActiveSession returns a copy of the user's live session, or nil.
func (r *SessionRegistry) ActiveSession(userID int64) *models.GameSession {
	if sess := r.activeSession(userID); sess != nil {
		return sess.Clone()
	}
	return nil
}

// settleLocked applies a terminal outcome: pays out, records the result,
// runs the win bonus and the premium upgrade roll. Caller holds the user
// lock and has already removed any live session.
func (r *SessionRegistry) settleLocked(ctx context.Context, user *models.User, kind models.GameKind, costPaid int64, outcome models.Outcome) (*Settlement, error) {
	settlement := &Settlement{Outcome: outcome}

	if outcome.Payout > 0 {
		reason := models.TransactionTypeGamePayout
		if outcome.Result == models.ResultPush {
			reason = models.TransactionTypeGameRefund
		}
		meta := map[string]any{"game": string(kind), "result": string(outcome.Result)}
		if err := r.ledger.creditLocked(ctx, user, outcome.Payout, reason, meta); err != nil {
			return nil, err
		}
	}

	if err := r.ledger.recordGameResultLocked(ctx, user, outcome.Won()); err != nil {
		return nil, err
	}

	if outcome.Won() {
		points, extras, err := r.ledger.awardBonusLocked(ctx, user)
		if err != nil {
			return nil, err
		}
		settlement.BonusAwarded = points
		settlement.BonusExtras = extras

		granted, err := r.premium.evaluateLocked(ctx, user)
		if err != nil {
			return nil, err
		}
		settlement.PremiumGranted = granted
	}

	settlement.Balance = user.Credits
	r.bus.Emit(ctx, events.GameSettledEvent{
		UserID:   user.ID,
		GameKind: kind,
		Result:   outcome.Result,
		CostPaid: costPaid,
		Payout:   outcome.Payout,
	})
	return settlement, nil
}

func (r *SessionRegistry) activeSession(userID int64) *models.GameSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

func (r *SessionRegistry) removeSession(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

func (r *SessionRegistry) newSession(userID int64, kind models.GameKind, cost int64) (*models.GameSession, error) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return games.NewSession(r.rng, userID, kind, cost)
}

func (r *SessionRegistry) withRNG(fn func(*rand.Rand) [3]string) [3]string {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return fn(r.rng)
}

func (r *SessionRegistry) withRNGErr(fn func(*rand.Rand) (models.Outcome, error)) (models.Outcome, error) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return fn(r.rng)
}
