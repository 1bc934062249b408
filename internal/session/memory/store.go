package memory

import (
	"context"
	"sync"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/session"
)

// Store is an in-memory implementation of the session balance store
type Store struct {
	mu       sync.Mutex
	balances map[model.SessionID]int64
}

// New creates a new in-memory session store
func New() *Store {
	return &Store{
		balances: make(map[model.SessionID]int64),
	}
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) Balance(ctx context.Context, id model.SessionID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[id]
	if !ok {
		balance = model.StartingBalance
		s.balances[id] = balance
	}
	return balance, nil
}

func (s *Store) AdjustBalance(ctx context.Context, id model.SessionID, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[id]
	if !ok {
		balance = model.StartingBalance
	}

	balance += delta
	if balance < 0 {
		balance = 0
	}
	s.balances[id] = balance
	return balance, nil
}
