package memory

import (
	"context"
	"sync"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// Storage is an in-memory implementation of the persistence gateway.
// Values are deep-copied on the way in and out so callers never share
// backing slices with the store.
type Storage struct {
	mu sync.RWMutex

	sharedBoards map[model.BoardID]*model.Board
	roots        map[model.ProfileID]*model.RootState
	users        map[model.ProfileID]*model.User
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sharedBoards: make(map[model.BoardID]*model.Board),
		roots:        make(map[model.ProfileID]*model.RootState),
		users:        make(map[model.ProfileID]*model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.Gateway = (*Storage)(nil)

// Shared board records

func (s *Storage) GetSharedBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.sharedBoards[id]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	return board.Clone(), nil
}

func (s *Storage) UpsertSharedBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sharedBoards[board.ID] = board.Clone()
	return nil
}

// Root aggregates

func (s *Storage) GetRootState(ctx context.Context, profile model.ProfileID) (*model.RootState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.roots[profile]
	if !ok {
		return nil, model.ErrRootNotFound
	}
	return cloneRoot(root), nil
}

func (s *Storage) SaveRootState(ctx context.Context, profile model.ProfileID, root *model.RootState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[profile] = cloneRoot(root)
	return nil
}

// User identities

func (s *Storage) GetUser(ctx context.Context, profile model.ProfileID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[profile]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) SaveUser(ctx context.Context, profile model.ProfileID, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[profile] = &u
	return nil
}

func cloneRoot(root *model.RootState) *model.RootState {
	c := *root
	c.Boards = make([]model.Board, len(root.Boards))
	for i := range root.Boards {
		c.Boards[i] = *root.Boards[i].Clone()
	}
	return &c
}
