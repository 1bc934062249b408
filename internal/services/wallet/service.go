package wallet

import (
	"context"
	"log/slog"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/session"
	"github.com/versflip/versflip/internal/storage"
)

// Service is the single code path permitted to change a balance. Every
// increase and decrease, losses included, flows through Apply, which
// dispatches on the identity context to the durable account store or the
// anonymous session store. Both stores clamp at zero; that clamp, not
// caller validation, is the final guard against negative balances.
type Service struct {
	storage  storage.Storage
	sessions session.Store
	logger   *slog.Logger
}

// New creates a new wallet service
func New(storage storage.Storage, sessions session.Store, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		sessions: sessions,
		logger:   logger,
	}
}

// Apply applies a signed credit delta to the identity's balance source
// and returns the new balance. The write is committed before return.
func (s *Service) Apply(ctx context.Context, identity model.IdentityContext, delta int64) (int64, error) {
	var (
		newBalance int64
		err        error
	)
	if identity.IsAccount() {
		newBalance, err = s.storage.AdjustBalance(ctx, identity.AccountID(), delta)
	} else {
		newBalance, err = s.sessions.AdjustBalance(ctx, identity.SessionID(), delta)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Info("balance adjusted",
		slog.String("identity", identity.Key()),
		slog.Int64("delta", delta),
		slog.Int64("new_balance", newBalance),
	)

	return newBalance, nil
}

// CurrentBalance reads the identity's balance without changing it.
// Anonymous sessions are seeded with the starting grant on first read.
func (s *Service) CurrentBalance(ctx context.Context, identity model.IdentityContext) (int64, error) {
	if identity.IsAccount() {
		account, err := s.storage.GetAccount(ctx, identity.AccountID())
		if err != nil {
			return 0, err
		}
		return account.Balance, nil
	}
	return s.sessions.Balance(ctx, identity.SessionID())
}
