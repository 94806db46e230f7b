package service

import (
	"sync"
)

// userLocks serializes all mutations for a single user while letting
// different users proceed in parallel. Locks are created lazily and never
// removed; the per-user footprint is one mutex for the account's lifetime.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) get(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

// Lock acquires the mutation lock for a user. The caller must Unlock the
// returned mutex when its critical section ends.
func (l *userLocks) Lock(userID int64) *sync.Mutex {
	m := l.get(userID)
	m.Lock()
	return m
}
