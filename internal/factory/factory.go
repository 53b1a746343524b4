package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tallyhq/tally/internal/dependencies/clock"
	"github.com/tallyhq/tally/internal/dependencies/random"
	"github.com/tallyhq/tally/internal/services/board"
	"github.com/tallyhq/tally/internal/services/profile"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/internal/storage/memory"
	redisstorage "github.com/tallyhq/tally/internal/storage/redis"
	"github.com/tallyhq/tally/internal/sync"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Gateway

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	ProfileService *profile.Service
	Broadcaster    sync.Broadcaster
	Syncer         *sync.Syncer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired. The memory
// backend pairs with the in-process hub; the redis backend pairs with redis
// pub/sub so snapshots cross process boundaries.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var store storage.Gateway
	var broadcaster sync.Broadcaster

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		broadcaster = sync.NewHub(logger)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		broadcaster = sync.NewRedisBroadcaster(redisStore.Client(), logger)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, broadcaster, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Gateway, broadcaster sync.Broadcaster, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	boardService := board.New(clk, rnd)
	profileService := profile.New(store, clk, rnd, logger)
	syncer := sync.NewSyncer(store, broadcaster, boardService, profileService, clk, rnd, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		BoardService:   boardService,
		ProfileService: profileService,
		Broadcaster:    broadcaster,
		Syncer:         syncer,
	}
}
