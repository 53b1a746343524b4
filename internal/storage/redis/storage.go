package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// Storage is a Redis-backed implementation of the persistence gateway.
// Every record is a whole JSON blob replaced on write; there is no
// read-modify-write atomicity across contexts, and concurrent upserts for
// the same board race with last-write-wins at the store.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
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

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Client exposes the underlying connection so components like the pub/sub
// broadcaster can share it
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Ensure Storage implements the interface
var _ storage.Gateway = (*Storage)(nil)

// Shared board records

func (s *Storage) GetSharedBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	data, err := s.client.Get(ctx, sharedBoardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) UpsertSharedBoard(ctx context.Context, board *model.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sharedBoardKey(board.ID), data, 0).Err()
}

// Root aggregates

func (s *Storage) GetRootState(ctx context.Context, profile model.ProfileID) (*model.RootState, error) {
	data, err := s.client.Get(ctx, rootKey(profile)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRootNotFound
		}
		return nil, err
	}

	var root model.RootState
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (s *Storage) SaveRootState(ctx context.Context, profile model.ProfileID, root *model.RootState) error {
	data, err := json.Marshal(root)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, rootKey(profile), data, 0).Err()
}

// User identities

func (s *Storage) GetUser(ctx context.Context, profile model.ProfileID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(profile)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) SaveUser(ctx context.Context, profile model.ProfileID, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, userKey(profile), data, 0).Err()
}
