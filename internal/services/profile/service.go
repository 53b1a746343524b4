// Package profile manages the per-profile root aggregate: the locally
// persisted list of boards, the selected board, and the user identity
// generated once per profile.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/dependencies/clock"
	"github.com/tallyhq/tally/internal/dependencies/random"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

const (
	boardIDPrefix   = "bd_"
	editTokenPrefix = "tok_"

	// DefaultUserName is assigned to a freshly generated identity
	DefaultUserName = "Player"
)

// Service manages profile-scoped state
type Service struct {
	gateway storage.Gateway
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new profile Service
func New(gateway storage.Gateway, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "profile")),
	}
}

// EnsureUser returns the profile's user identity, generating and persisting
// one on first use. The id is the basis of the board ownership check.
func (s *Service) EnsureUser(ctx context.Context, profile model.ProfileID) (*model.User, error) {
	user, err := s.gateway.GetUser(ctx, profile)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		// Unreadable identity blob degrades to a fresh identity rather
		// than failing the caller
		s.logger.Warn("user identity unreadable, regenerating",
			slog.String("profile", string(profile)),
			slog.String("error", err.Error()))
	}

	user = &model.User{
		ID:   model.UserID(uuid.NewString()),
		Name: DefaultUserName,
	}
	if err := s.gateway.SaveUser(ctx, profile, user); err != nil {
		s.logger.Warn("user identity save failed",
			slog.String("profile", string(profile)),
			slog.String("error", err.Error()))
	}
	return user, nil
}

// LoadRoot returns the profile's root state. A missing or unreadable blob
// seeds a fresh default; this call never fails.
func (s *Service) LoadRoot(ctx context.Context, profile model.ProfileID) *model.RootState {
	user, _ := s.EnsureUser(ctx, profile)

	root, err := s.gateway.GetRootState(ctx, profile)
	if err != nil {
		if !errors.Is(err, model.ErrRootNotFound) {
			s.logger.Warn("root state unreadable, using default",
				slog.String("profile", string(profile)),
				slog.String("error", err.Error()))
		}
		return &model.RootState{CurrentUser: *user}
	}

	// The identity blob is authoritative over whatever the root carries
	root.CurrentUser = *user
	return root
}

// SaveRoot persists the root state best-effort: a write failure is logged
// and swallowed, never surfaced
func (s *Service) SaveRoot(ctx context.Context, profile model.ProfileID, root *model.RootState) {
	if err := s.gateway.SaveRootState(ctx, profile, root); err != nil {
		s.logger.Warn("root state save failed",
			slog.String("profile", string(profile)),
			slog.String("error", err.Error()))
	}
}

// CreateBoard creates a board owned by the profile's user, prepends it to
// the local board list, selects it, and writes the shared record through so
// a share link works immediately. The edit token is generated here, once,
// and never rotates except on ownership transfer.
func (s *Service) CreateBoard(ctx context.Context, profile model.ProfileID, name string) (*model.Board, error) {
	root := s.LoadRoot(ctx, profile)
	now := s.clock.Now()

	board := model.Board{
		ID:        model.BoardID(s.random.ID(boardIDPrefix)),
		Name:      name,
		OwnerID:   root.CurrentUser.ID,
		EditToken: s.random.ID(editTokenPrefix),
		CreatedAt: now,
		UpdatedAt: now,
	}

	root.PutBoard(board)
	root.SelectedBoardID = board.ID
	s.SaveRoot(ctx, profile, root)

	if err := s.gateway.UpsertSharedBoard(ctx, &board); err != nil {
		s.logger.Warn("shared record write failed",
			slog.String("board", string(board.ID)),
			slog.String("error", err.Error()))
	}

	return &board, nil
}

// SelectBoard marks a locally present board as selected
func (s *Service) SelectBoard(ctx context.Context, profile model.ProfileID, id model.BoardID) error {
	root := s.LoadRoot(ctx, profile)
	if root.FindBoard(id) == nil {
		return model.ErrBoardNotFound
	}
	root.SelectedBoardID = id
	s.SaveRoot(ctx, profile, root)
	return nil
}

// ReplaceRoot wholesale-replaces the profile's root state (import). The
// profile's own identity survives the replacement.
func (s *Service) ReplaceRoot(ctx context.Context, profile model.ProfileID, root *model.RootState) {
	user, _ := s.EnsureUser(ctx, profile)
	root.CurrentUser = *user
	s.SaveRoot(ctx, profile, root)
}
