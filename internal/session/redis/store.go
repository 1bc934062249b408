package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/session"
)

// Key prefix for all session balance data
const keyPrefix = "versflip"

// balanceKey returns the Redis key for a session's anonymous balance
func balanceKey(id model.SessionID) string {
	return fmt.Sprintf("%s:anon:balance:%s", keyPrefix, id)
}

// Store is a Redis-backed implementation of the session balance store
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis session store
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis session store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) Balance(ctx context.Context, id model.SessionID) (int64, error) {
	if err := s.ensure(ctx, id); err != nil {
		return 0, err
	}

	balance, err := s.client.Get(ctx, balanceKey(id)).Int64()
	if err != nil {
		return 0, err
	}

	s.client.Expire(ctx, balanceKey(id), s.cfg.BalanceTTL)
	return balance, nil
}

// adjustScript applies max(balance + delta, 0) and refreshes the TTL in a
// single atomic step, so a concurrent adjustment can never observe a
// negative intermediate balance.
var adjustScript = redis.NewScript(`
local balance = redis.call("INCRBY", KEYS[1], ARGV[1])
if balance < 0 then
	balance = 0
	redis.call("SET", KEYS[1], balance)
end
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return balance
`)

func (s *Store) AdjustBalance(ctx context.Context, id model.SessionID, delta int64) (int64, error) {
	if err := s.ensure(ctx, id); err != nil {
		return 0, err
	}

	return adjustScript.Run(ctx, s.client, []string{balanceKey(id)}, delta, s.cfg.BalanceTTL.Milliseconds()).Int64()
}

// ensure seeds the starting grant for sessions without a stored balance
func (s *Store) ensure(ctx context.Context, id model.SessionID) error {
	return s.client.SetNX(ctx, balanceKey(id), model.StartingBalance, s.cfg.BalanceTTL).Err()
}
