package session

import (
	"context"

	"github.com/versflip/versflip/internal/model"
)

// Store holds anonymous, session-scoped balances. A session's balance is
// initialized to the starting grant on first read and vanishes with the
// session; there is no cross-session visibility and no durability
// guarantee beyond the session's own lifetime.
type Store interface {
	// Balance returns the session's balance, initializing it to the
	// starting grant if absent
	Balance(ctx context.Context, id model.SessionID) (int64, error)

	// AdjustBalance applies max(current + delta, 0) and stores the
	// result back, returning the new balance
	AdjustBalance(ctx context.Context, id model.SessionID, delta int64) (int64, error)
}
