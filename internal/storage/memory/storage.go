package memory

import (
	"context"
	"sync"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts    map[model.AccountID]*model.Account
	handleIndex map[string]model.AccountID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:    make(map[model.AccountID]*model.Account),
		handleIndex: make(map[string]model.AccountID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := model.NormalizeHandle(account.Handle)
	if _, ok := s.handleIndex[handle]; ok {
		return model.ErrHandleTaken
	}

	stored := cloneAccount(account)
	stored.Handle = handle
	s.accounts[stored.ID] = stored
	s.handleIndex[handle] = stored.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (s *Storage) GetAccountByHandle(ctx context.Context, handle string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.handleIndex[model.NormalizeHandle(handle)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(s.accounts[id]), nil
}

func (s *Storage) UpdateLinkedIdentity(ctx context.Context, id model.AccountID, link model.LinkedIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	account.Linked = &model.LinkedIdentity{
		SecretHash:  link.SecretHash,
		DisplayName: link.DisplayName,
		ProfileRef:  link.ProfileRef,
	}
	return nil
}

func (s *Storage) LinkedAccounts(ctx context.Context) ([]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var linked []*model.Account
	for _, account := range s.accounts {
		if account.Linked != nil {
			linked = append(linked, cloneAccount(account))
		}
	}
	return linked, nil
}

func (s *Storage) AdjustBalance(ctx context.Context, id model.AccountID, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return 0, model.ErrAccountNotFound
	}

	newBalance := account.Balance + delta
	if newBalance < 0 {
		newBalance = 0
	}
	account.Balance = newBalance
	return newBalance, nil
}

// cloneAccount copies an account so callers cannot mutate stored state
func cloneAccount(a *model.Account) *model.Account {
	clone := *a
	if a.Linked != nil {
		link := *a.Linked
		clone.Linked = &link
	}
	return &clone
}
