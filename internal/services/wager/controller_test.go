package wager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/versflip/versflip/internal/dependencies/mocks"
	"github.com/versflip/versflip/internal/dependencies/random"
	"github.com/versflip/versflip/internal/model"
	sessionmemory "github.com/versflip/versflip/internal/session/memory"
	"github.com/versflip/versflip/internal/services/plinko"
	"github.com/versflip/versflip/internal/services/wallet"
	storagememory "github.com/versflip/versflip/internal/storage/memory"
	"github.com/versflip/versflip/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *storagememory.Storage
	wallet     *wallet.Service
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = storagememory.New()
	s.wallet = wallet.New(s.storage, sessionmemory.New(), testutil.NopLogger())
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.wallet, plinko.New(s.random), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createAccount(handle string, balance int64) model.IdentityContext {
	account := &model.Account{
		ID:        model.AccountID("acc-" + handle),
		Handle:    handle,
		Balance:   balance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.Require().NoError(s.storage.CreateAccount(s.ctx, account))
	return model.AccountIdentity(account.ID)
}

func (s *ControllerSuite) TestPlaceWagerSettlesLoss() {
	identity := s.createAccount("alice", 1000)

	// Empty mock queue drops the chip all the way left into slot 0,
	// which pays nothing on the risky table
	result, err := s.controller.PlaceWager(s.ctx, identity, 100, model.RiskRisky)
	s.Require().NoError(err)

	s.Equal(int64(-100), result.Outcome.Delta)
	s.Equal(int64(900), result.NewBalance)

	balance, err := s.wallet.CurrentBalance(s.ctx, identity)
	s.Require().NoError(err)
	s.Equal(int64(900), balance)
}

func (s *ControllerSuite) TestPlaceWagerSettlesWin() {
	identity := s.createAccount("alice", 1000)
	s.random.QueueIntn(0, 1, 0, 1, 0, 1, 0, 1)

	result, err := s.controller.PlaceWager(s.ctx, identity, 100, model.RiskRisky)
	s.Require().NoError(err)

	s.Equal(4, result.Outcome.LandingSlot)
	s.Equal(int64(300), result.Outcome.Delta)
	s.Equal(int64(1300), result.NewBalance)
}

func (s *ControllerSuite) TestPlaceWagerWorksForAnonymousSession() {
	identity := model.AnonymousIdentity("anon_abc")

	result, err := s.controller.PlaceWager(s.ctx, identity, 200, model.RiskSafe)
	s.Require().NoError(err)

	s.Equal(int64(model.StartingBalance)+result.Outcome.Delta, result.NewBalance)
}

func (s *ControllerSuite) TestPlaceWagerRejectsZeroStake() {
	identity := s.createAccount("alice", 1000)

	_, err := s.controller.PlaceWager(s.ctx, identity, 0, model.RiskBalanced)
	s.ErrorIs(err, model.ErrNonPositiveStake)

	balance, err := s.wallet.CurrentBalance(s.ctx, identity)
	s.Require().NoError(err)
	s.Equal(int64(1000), balance)
}

func (s *ControllerSuite) TestPlaceWagerRejectsStakeOverBalance() {
	identity := s.createAccount("alice", 1000)

	_, err := s.controller.PlaceWager(s.ctx, identity, 1001, model.RiskBalanced)
	s.ErrorIs(err, model.ErrInsufficientBalance)

	balance, err := s.wallet.CurrentBalance(s.ctx, identity)
	s.Require().NoError(err)
	s.Equal(int64(1000), balance)
}

func (s *ControllerSuite) TestPlaceWagerFailsForUnknownAccount() {
	_, err := s.controller.PlaceWager(s.ctx, model.AccountIdentity("nope"), 100, model.RiskBalanced)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ControllerSuite) TestConcurrentWagersSettleSerially() {
	// Real randomness so the two outcomes are independent; the invariant
	// is that both settle against each other's result, never against a
	// stale read of the same starting balance.
	controller := NewController(s.wallet, plinko.New(random.New()), testutil.NopLogger())
	identity := s.createAccount("alice", 1000)

	const workers = 2
	deltas := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := controller.PlaceWager(s.ctx, identity, 500, model.RiskSafe)
			if err != nil {
				errs[i] = err
				return
			}
			deltas[i] = result.Outcome.Delta
		}(i)
	}
	wg.Wait()

	// A 500 stake on safe loses at most 200, so the survivor's balance
	// always covers the second wager and both must succeed
	var total int64
	for i := 0; i < workers; i++ {
		s.Require().NoError(errs[i])
		total += deltas[i]
	}

	balance, err := s.wallet.CurrentBalance(s.ctx, identity)
	s.Require().NoError(err)
	s.Equal(int64(1000)+total, balance)
}

func (s *ControllerSuite) TestConcurrentWagersOnDistinctIdentitiesDoNotInterfere() {
	controller := NewController(s.wallet, plinko.New(random.New()), testutil.NopLogger())
	alice := s.createAccount("alice", 1000)
	bob := s.createAccount("bob", 1000)

	var wg sync.WaitGroup
	results := make(map[string]*model.WagerResult)
	var mu sync.Mutex

	for _, identity := range []model.IdentityContext{alice, bob} {
		wg.Add(1)
		go func(identity model.IdentityContext) {
			defer wg.Done()
			result, err := controller.PlaceWager(s.ctx, identity, 100, model.RiskBalanced)
			s.NoError(err)
			mu.Lock()
			results[identity.Key()] = result
			mu.Unlock()
		}(identity)
	}
	wg.Wait()

	for _, identity := range []model.IdentityContext{alice, bob} {
		result := results[identity.Key()]
		s.Require().NotNil(result)
		s.Equal(int64(1000)+result.Outcome.Delta, result.NewBalance)
	}
}
