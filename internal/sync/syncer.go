package sync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tallyhq/tally/internal/dependencies/clock"
	"github.com/tallyhq/tally/internal/dependencies/random"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/access"
	"github.com/tallyhq/tally/internal/services/board"
	"github.com/tallyhq/tally/internal/services/profile"
	"github.com/tallyhq/tally/internal/storage"
)

const editTokenPrefix = "tok_"

// Ref is an external board reference: the id selects the board, the
// optional token carries edit capability. A share link is exactly this
// pair.
type Ref struct {
	BoardID model.BoardID
	Token   string
}

// Syncer orchestrates every board operation for a profile: capability
// gating, the local root round-trip, the write-through to the shared
// record, and the snapshot broadcast. There is no conflict resolution
// anywhere in here: each observable race resolves to the last write
// observed, independently per board id.
type Syncer struct {
	gateway     storage.Gateway
	broadcaster Broadcaster
	boards      *board.Service
	profiles    *profile.Service
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewSyncer creates a new Syncer
func NewSyncer(
	gateway storage.Gateway,
	broadcaster Broadcaster,
	boards *board.Service,
	profiles *profile.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Syncer {
	return &Syncer{
		gateway:     gateway,
		broadcaster: broadcaster,
		boards:      boards,
		profiles:    profiles,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "sync")),
	}
}

// Open resolves a board reference for a profile. The shared record is
// fetched once, here: if found it wholesale-replaces the local copy, or is
// prepended when the board was not local yet. A fetch failure degrades to
// the local copy. Staying current after Open relies on Subscribe, or on a
// fresh Open. Returns the board and whether the caller holds edit
// capability.
func (s *Syncer) Open(ctx context.Context, profileID model.ProfileID, ref Ref) (*model.Board, bool, error) {
	root := s.profiles.LoadRoot(ctx, profileID)

	shared, err := s.gateway.GetSharedBoard(ctx, ref.BoardID)
	if err != nil && !errors.Is(err, model.ErrBoardNotFound) {
		s.logger.Warn("shared record fetch failed, using local copy",
			slog.String("board", string(ref.BoardID)),
			slog.String("error", err.Error()))
	}

	if shared != nil {
		root.PutBoard(*shared)
	} else if root.FindBoard(ref.BoardID) == nil {
		return nil, false, model.ErrBoardNotFound
	}

	root.SelectedBoardID = ref.BoardID
	s.profiles.SaveRoot(ctx, profileID, root)

	b := root.FindBoard(ref.BoardID)
	return b.Clone(), access.CanEdit(b, root.CurrentUser.ID, ref.Token), nil
}

// AddPlayer appends a player to the board
func (s *Syncer) AddPlayer(ctx context.Context, profileID model.ProfileID, ref Ref, name string) (*model.Player, error) {
	var player model.Player
	_, err := s.mutate(ctx, profileID, ref, true, func(b *model.Board) error {
		player = s.boards.AddPlayer(&b.State, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// SetPlayerPhoto replaces a player's photo. Unknown player ids are a no-op
// for state but reported to the caller. This operation is not capability
// gated.
func (s *Syncer) SetPlayerPhoto(ctx context.Context, profileID model.ProfileID, ref Ref, playerID model.PlayerID, photo string) error {
	_, err := s.mutate(ctx, profileID, ref, false, func(b *model.Board) error {
		if !s.boards.SetPlayerPhoto(&b.State, playerID, photo) {
			return model.ErrPlayerNotFound
		}
		return nil
	})
	return err
}

// AddActivity appends an activity type to the board
func (s *Syncer) AddActivity(ctx context.Context, profileID model.ProfileID, ref Ref, name string) (*model.ActivityType, error) {
	var activity model.ActivityType
	_, err := s.mutate(ctx, profileID, ref, true, func(b *model.Board) error {
		activity = s.boards.AddActivity(&b.State, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// AddScore validates the entry at the boundary and records it at the head
// of the history
func (s *Syncer) AddScore(ctx context.Context, profileID model.ProfileID, ref Ref, entry model.ScoreEntry) (*model.ScoreEntry, error) {
	var recorded model.ScoreEntry
	_, err := s.mutate(ctx, profileID, ref, true, func(b *model.Board) error {
		if err := s.boards.ValidateEntry(&b.State, entry); err != nil {
			return err
		}
		recorded = s.boards.AddScore(&b.State, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recorded, nil
}

// RemoveLastScore removes the most recently recorded entry
func (s *Syncer) RemoveLastScore(ctx context.Context, profileID model.ProfileID, ref Ref) error {
	_, err := s.mutate(ctx, profileID, ref, true, func(b *model.Board) error {
		s.boards.RemoveLastScore(&b.State)
		return nil
	})
	return err
}

// ClearAllScores empties the board's score history
func (s *Syncer) ClearAllScores(ctx context.Context, profileID model.ProfileID, ref Ref) error {
	_, err := s.mutate(ctx, profileID, ref, true, func(b *model.Board) error {
		s.boards.ClearAllScores(&b.State)
		return nil
	})
	return err
}

// TransferOwner hands the board to a new owner. Only the current owner
// qualifies; token possession deliberately does not. The edit token is
// rotated on transfer so the previous owner keeps no residual bearer
// capability.
func (s *Syncer) TransferOwner(ctx context.Context, profileID model.ProfileID, ref Ref, newOwner model.UserID) error {
	root := s.profiles.LoadRoot(ctx, profileID)
	b := root.FindBoard(ref.BoardID)
	if b == nil {
		return model.ErrBoardNotFound
	}
	if !access.CanTransfer(b, root.CurrentUser.ID) {
		return model.ErrNotOwner
	}

	b.OwnerID = newOwner
	b.EditToken = s.random.ID(editTokenPrefix)
	b.UpdatedAt = s.clock.Now()

	s.persistAndBroadcast(ctx, profileID, root, b)
	return nil
}

// Subscribe opens a live feed of board snapshots for a profile. Every
// inbound snapshot unconditionally replaces the profile's local copy before
// delivery; applying an identical snapshot twice is a no-op on derived
// output. Cancel stops the feed; the returned channel is never closed.
func (s *Syncer) Subscribe(ctx context.Context, profileID model.ProfileID, id model.BoardID) (<-chan *model.Board, func(), error) {
	ch := make(chan *model.Board, subscriberBuffer)

	cancel, err := s.broadcaster.Subscribe(ctx, id, func(b *model.Board) {
		root := s.profiles.LoadRoot(context.Background(), profileID)
		root.PutBoard(*b.Clone())
		s.profiles.SaveRoot(context.Background(), profileID, root)

		select {
		case ch <- b:
		default:
			s.logger.Warn("live feed snapshot dropped - receiver lagging",
				slog.String("board", string(id)))
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return ch, cancel, nil
}

// mutate runs one locally-originated mutation: resolve the board in the
// profile's root, gate it when required, apply, then persist and broadcast.
// The returned board is a snapshot of the post-mutation state.
func (s *Syncer) mutate(ctx context.Context, profileID model.ProfileID, ref Ref, gated bool, fn func(*model.Board) error) (*model.Board, error) {
	root := s.profiles.LoadRoot(ctx, profileID)
	b := root.FindBoard(ref.BoardID)
	if b == nil {
		return nil, model.ErrBoardNotFound
	}
	if gated && !access.CanEdit(b, root.CurrentUser.ID, ref.Token) {
		return nil, model.ErrEditNotAllowed
	}

	if err := fn(b); err != nil {
		return nil, err
	}
	b.UpdatedAt = s.clock.Now()

	s.persistAndBroadcast(ctx, profileID, root, b)
	return b.Clone(), nil
}

// persistAndBroadcast is the write path every mutation shares: best-effort
// local root save, write-through of the shared record so fetch-by-link sees
// the latest state, and a snapshot broadcast to sibling contexts. Storage
// failures degrade to log lines, never to caller errors.
func (s *Syncer) persistAndBroadcast(ctx context.Context, profileID model.ProfileID, root *model.RootState, b *model.Board) {
	s.profiles.SaveRoot(ctx, profileID, root)

	if err := s.gateway.UpsertSharedBoard(ctx, b); err != nil {
		s.logger.Warn("shared record write-through failed",
			slog.String("board", string(b.ID)),
			slog.String("error", err.Error()))
	}
	if err := s.broadcaster.Publish(ctx, b); err != nil {
		s.logger.Warn("snapshot broadcast failed",
			slog.String("board", string(b.ID)),
			slog.String("error", err.Error()))
	}
}
