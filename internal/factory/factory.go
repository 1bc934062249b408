package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/versflip/versflip/internal/dependencies/clock"
	"github.com/versflip/versflip/internal/dependencies/random"
	"github.com/versflip/versflip/internal/services/auth"
	"github.com/versflip/versflip/internal/services/plinko"
	"github.com/versflip/versflip/internal/services/wager"
	"github.com/versflip/versflip/internal/services/wallet"
	"github.com/versflip/versflip/internal/session"
	sessionmemory "github.com/versflip/versflip/internal/session/memory"
	sessionredis "github.com/versflip/versflip/internal/session/redis"
	"github.com/versflip/versflip/internal/storage"
	storagememory "github.com/versflip/versflip/internal/storage/memory"
	storagesqlite "github.com/versflip/versflip/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
)

// Session store type constants
const (
	SessionStoreTypeMemory = "memory"
	SessionStoreTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService     *auth.Service
	PlinkoService   *plinko.Service
	WalletService   *wallet.Service
	WagerController *wager.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the account store backend ("memory" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
	// SessionStoreType selects the anonymous balance backend ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStoreType string
	// RedisConfig holds Redis connection settings (required if SessionStoreType is "redis")
	RedisConfig *sessionredis.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create account storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = storagememory.New()
	case StorageTypeSQLite:
		sqliteStore, err := storagesqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'sqlite'")
	}

	// Create session balance store based on type
	var sessions session.Store
	sessionStoreType := cfg.SessionStoreType
	if sessionStoreType == "" {
		sessionStoreType = SessionStoreTypeMemory
	}

	switch sessionStoreType {
	case SessionStoreTypeMemory:
		sessions = sessionmemory.New()
	case SessionStoreTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionStoreType is redis")
		}
		redisStore, err := sessionredis.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		sessions = redisStore
	default:
		return nil, errors.New("invalid SessionStoreType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, sessions, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	sessions session.Store,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, clk, rnd, authCfg)
	plinkoService := plinko.New(rnd)
	walletService := wallet.New(store, sessions, logger)
	wagerController := wager.NewController(walletService, plinkoService, logger)

	return &App{
		Storage:         store,
		Sessions:        sessions,
		Clock:           clk,
		Random:          rnd,
		AuthService:     authService,
		PlinkoService:   plinkoService,
		WalletService:   walletService,
		WagerController: wagerController,
	}
}
