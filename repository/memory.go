package repository

import (
	"context"
	"sync"

	"arcadebot/models"
)

// MemoryStore is an in-memory store used for tests and for running the bot
// without any external storage. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[int64]*models.User
	claims  map[int64]string
	entries []*models.LedgerEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[int64]*models.User),
		claims: make(map[int64]string),
	}
}

// GetUser returns a copy of the stored user, or nil if absent.
func (s *MemoryStore) GetUser(_ context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return user.Clone(), nil
}

// GetUserByUsername returns a copy of the first user with the given
// username, or nil if none matches.
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user.Clone(), nil
		}
	}
	return nil, nil
}

// PutUser stores a copy of the user, replacing any existing record.
func (s *MemoryStore) PutUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user.Clone()
	return nil
}

// AllUsers returns copies of every stored user.
func (s *MemoryStore) AllUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user.Clone())
	}
	return users, nil
}

// AppendLedgerEntry records the audit entry.
func (s *MemoryStore) AppendLedgerEntry(_ context.Context, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	e.ID = int64(len(s.entries) + 1)
	s.entries = append(s.entries, &e)
	return nil
}

// LedgerEntries returns the recorded audit entries for a user, oldest first.
func (s *MemoryStore) LedgerEntries(userID int64) []*models.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.LedgerEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out
}

// LastClaim returns the stored claim date, or "" if the user never claimed.
func (s *MemoryStore) LastClaim(_ context.Context, userID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims[userID], nil
}

// PutClaim records the claim date for the user.
func (s *MemoryStore) PutClaim(_ context.Context, userID int64, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[userID] = date
	return nil
}
