// Package board implements the mutation operations on a board's state.
// Capability gating and persistence live a level up in the sync layer;
// the operations here only transform in-memory state.
package board

import (
	"fmt"
	"math"

	"github.com/tallyhq/tally/internal/dependencies/clock"
	"github.com/tallyhq/tally/internal/dependencies/random"
	"github.com/tallyhq/tally/internal/model"
)

// ID prefixes keep the entity kind readable in exports and logs
const (
	playerIDPrefix   = "pl_"
	activityIDPrefix = "ac_"
	scoreIDPrefix    = "sc_"
)

// Service applies mutations to board state
type Service struct {
	clock  clock.Clock
	random random.Random
}

// New creates a new board Service
func New(clock clock.Clock, random random.Random) *Service {
	return &Service{
		clock:  clock,
		random: random,
	}
}

// AddPlayer appends a new player with a fresh id and no photo
func (s *Service) AddPlayer(state *model.BoardState, name string) model.Player {
	player := model.Player{
		ID:   model.PlayerID(s.random.ID(playerIDPrefix)),
		Name: name,
	}
	state.Players = append(state.Players, player)
	return player
}

// SetPlayerPhoto replaces the addressed player's photo field; an empty
// photo clears it. No-op when the id is unknown.
func (s *Service) SetPlayerPhoto(state *model.BoardState, id model.PlayerID, photo string) bool {
	player := state.FindPlayer(id)
	if player == nil {
		return false
	}
	player.Photo = photo
	return true
}

// AddActivity appends a new activity type with a fresh id
func (s *Service) AddActivity(state *model.BoardState, name string) model.ActivityType {
	activity := model.ActivityType{
		ID:   model.ActivityID(s.random.ID(activityIDPrefix)),
		Name: name,
	}
	state.Activities = append(state.Activities, activity)
	return activity
}

// AddScore records a score entry at the head of the history. The entry's id
// and timestamp are always assigned here; anything the caller supplied for
// them is ignored. Scores stay newest-first.
func (s *Service) AddScore(state *model.BoardState, entry model.ScoreEntry) model.ScoreEntry {
	entry.ID = model.ScoreID(s.random.ID(scoreIDPrefix))
	entry.Timestamp = s.clock.Now().UnixMilli()
	state.Scores = append([]model.ScoreEntry{entry}, state.Scores...)
	return entry
}

// RemoveLastScore removes the most recently recorded entry, the head of the
// history. No-op on an empty history.
func (s *Service) RemoveLastScore(state *model.BoardState) bool {
	if len(state.Scores) == 0 {
		return false
	}
	state.Scores = state.Scores[1:]
	return true
}

// ClearAllScores empties the score history; players and activities survive
func (s *Service) ClearAllScores(state *model.BoardState) {
	state.Scores = nil
}

// ValidateEntry is the submission boundary for AddScore: an activity must be
// selected and known, at least two participants are required, every
// participant needs a known player and a finite points value, and player ids
// must be pairwise distinct within the entry. AddScore itself does not
// re-validate; callers that bypass this boundary get the documented
// defined-but-unusual standings behavior instead of an error.
func (s *Service) ValidateEntry(state *model.BoardState, entry model.ScoreEntry) error {
	if entry.ActivityID == "" {
		return fmt.Errorf("%w: no activity selected", model.ErrInvalidScore)
	}
	if state.FindActivity(entry.ActivityID) == nil {
		return fmt.Errorf("%w: unknown activity %q", model.ErrInvalidScore, entry.ActivityID)
	}
	if len(entry.Participants) < 2 {
		return fmt.Errorf("%w: at least two participants required", model.ErrInvalidScore)
	}

	seen := make(map[model.PlayerID]bool, len(entry.Participants))
	for _, p := range entry.Participants {
		if p.PlayerID == "" {
			return fmt.Errorf("%w: participant without a player", model.ErrInvalidScore)
		}
		if state.FindPlayer(p.PlayerID) == nil {
			return fmt.Errorf("%w: unknown player %q", model.ErrInvalidScore, p.PlayerID)
		}
		if math.IsNaN(p.Points) || math.IsInf(p.Points, 0) {
			return fmt.Errorf("%w: points for %q must be a finite number", model.ErrInvalidScore, p.PlayerID)
		}
		if seen[p.PlayerID] {
			return fmt.Errorf("%w: player %q listed twice", model.ErrInvalidScore, p.PlayerID)
		}
		seen[p.PlayerID] = true
	}
	return nil
}
