package storage

import (
	"context"

	"github.com/versflip/versflip/internal/model"
)

// Storage defines the interface for durable account persistence
type Storage interface {
	// CreateAccount inserts a new account. The handle must already be
	// normalized; returns model.ErrHandleTaken if it is in use.
	CreateAccount(ctx context.Context, account *model.Account) error

	// GetAccount retrieves an account by ID
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)

	// GetAccountByHandle retrieves an account by handle.
	// The handle is normalized before lookup.
	GetAccountByHandle(ctx context.Context, handle string) (*model.Account, error)

	// UpdateLinkedIdentity upserts the linked-identity fields on an
	// existing account. Idempotent.
	UpdateLinkedIdentity(ctx context.Context, id model.AccountID, link model.LinkedIdentity) error

	// LinkedAccounts returns all accounts carrying a linked identity.
	// The stored secret is one-way hashed, so matching a raw secret is a
	// linear scan over this set, O(n) in linked accounts.
	LinkedAccounts(ctx context.Context) ([]*model.Account, error)

	// AdjustBalance atomically applies max(balance + delta, 0) and returns
	// the new balance. The write is committed before this returns.
	AdjustBalance(ctx context.Context, id model.AccountID, delta int64) (int64, error)
}
