package wager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/services/plinko"
	"github.com/versflip/versflip/internal/services/wallet"
)

// Controller orchestrates a wager: read balance, resolve, apply delta.
// The three steps run inside a per-identity critical section so two
// concurrent wagers on the same balance cannot both read the same stale
// value and stomp each other's settlement. Different identities do not
// contend.
type Controller struct {
	wallet *wallet.Service
	plinko *plinko.Service
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewController creates a new wager controller
func NewController(wallet *wallet.Service, plinko *plinko.Service, logger *slog.Logger) *Controller {
	return &Controller{
		wallet: wallet,
		plinko: plinko,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// PlaceWager resolves one wager against the identity's balance and
// settles it. Validation failures leave the balance untouched; the
// settlement write is committed before the result is returned.
func (c *Controller) PlaceWager(ctx context.Context, identity model.IdentityContext, stake int64, risk model.RiskProfile) (*model.WagerResult, error) {
	lock := c.lockFor(identity)
	lock.Lock()
	defer lock.Unlock()

	balance, err := c.wallet.CurrentBalance(ctx, identity)
	if err != nil {
		return nil, err
	}

	outcome, err := c.plinko.Resolve(stake, risk, balance)
	if err != nil {
		return nil, err
	}

	newBalance, err := c.wallet.Apply(ctx, identity, outcome.Delta)
	if err != nil {
		return nil, err
	}

	c.logger.Info("wager resolved",
		slog.String("identity", identity.Key()),
		slog.Int64("stake", stake),
		slog.String("risk", string(outcome.Risk)),
		slog.Int("landing_slot", outcome.LandingSlot),
		slog.Float64("multiplier", outcome.Multiplier),
		slog.Int64("delta", outcome.Delta),
		slog.Int64("new_balance", newBalance),
	)

	return &model.WagerResult{
		Outcome:    *outcome,
		NewBalance: newBalance,
	}, nil
}

// lockFor returns the mutex serializing wagers for one identity.
// Locks are never reclaimed; the map grows with distinct identities,
// which is acceptable at play-money scale.
func (c *Controller) lockFor(identity model.IdentityContext) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := identity.Key()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}
