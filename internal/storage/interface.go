package storage

import (
	"context"

	"github.com/tallyhq/tally/internal/model"
)

// Gateway defines the key-value persistence interface the application
// depends on. Shared board records are one blob per board, replaced whole
// on every write: last writer wins, no field-level merge. Root state and
// user identity are one blob per profile.
type Gateway interface {
	// Shared board records, reachable by id for link-based sharing
	GetSharedBoard(ctx context.Context, id model.BoardID) (*model.Board, error)
	UpsertSharedBoard(ctx context.Context, board *model.Board) error

	// Per-profile root aggregate
	GetRootState(ctx context.Context, profile model.ProfileID) (*model.RootState, error)
	SaveRootState(ctx context.Context, profile model.ProfileID, root *model.RootState) error

	// Per-profile user identity, generated once and reused across sessions
	GetUser(ctx context.Context, profile model.ProfileID) (*model.User, error)
	SaveUser(ctx context.Context, profile model.ProfileID, user *model.User) error
}
