package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/versflip/versflip/internal/model"
	sessionredis "github.com/versflip/versflip/internal/session/redis"
)

type FactorySuite struct {
	suite.Suite
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) TestNewDefaultsToMemoryBackends() {
	app, err := New(Config{})
	s.Require().NoError(err)

	s.NotNil(app.Storage)
	s.NotNil(app.Sessions)
	s.NotNil(app.AuthService)
	s.NotNil(app.PlinkoService)
	s.NotNil(app.WalletService)
	s.NotNil(app.WagerController)
}

func (s *FactorySuite) TestNewWiresWorkingServices() {
	app, err := New(Config{StorageType: StorageTypeMemory})
	s.Require().NoError(err)

	ctx := context.Background()
	session, err := app.AuthService.Register(ctx, "alice", "password123")
	s.Require().NoError(err)

	result, err := app.WagerController.PlaceWager(ctx, session.Identity(), 100, model.RiskBalanced)
	s.Require().NoError(err)
	s.Equal(int64(model.StartingBalance)+result.Outcome.Delta, result.NewBalance)
}

func (s *FactorySuite) TestNewWithSQLiteStorage() {
	app, err := New(Config{
		StorageType: StorageTypeSQLite,
		SQLitePath:  filepath.Join(s.T().TempDir(), "versflip.db"),
	})
	s.Require().NoError(err)

	session, err := app.AuthService.Register(context.Background(), "alice", "password123")
	s.Require().NoError(err)
	s.Equal("alice", session.Handle)
}

func (s *FactorySuite) TestNewWithRedisSessions() {
	mini := miniredis.RunT(s.T())

	cfg := sessionredis.DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()

	app, err := New(Config{
		SessionStoreType: SessionStoreTypeRedis,
		RedisConfig:      &cfg,
	})
	s.Require().NoError(err)

	balance, err := app.Sessions.Balance(context.Background(), "anon_abc")
	s.Require().NoError(err)
	s.Equal(int64(model.StartingBalance), balance)
}

func (s *FactorySuite) TestNewRejectsUnknownStorageType() {
	_, err := New(Config{StorageType: "cassandra"})
	s.Error(err)
}

func (s *FactorySuite) TestNewRejectsUnknownSessionStoreType() {
	_, err := New(Config{SessionStoreType: "memcached"})
	s.Error(err)
}

func (s *FactorySuite) TestNewRejectsRedisWithoutConfig() {
	_, err := New(Config{SessionStoreType: SessionStoreTypeRedis})
	s.Error(err)
}

func (s *FactorySuite) TestNewRejectsSQLiteWithoutPath() {
	_, err := New(Config{StorageType: StorageTypeSQLite})
	s.Error(err)
}
