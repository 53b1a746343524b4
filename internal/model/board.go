package model

import "time"

// BoardID uniquely identifies a board
type BoardID string

// UserID identifies the user behind a profile; the basis of board ownership
type UserID string

// ProfileID identifies one local profile, the unit of local persistence
type ProfileID string

// User is the identity attached to a profile
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// BoardState is the aggregate of players, activities and scores for one board.
// Scores are kept newest-first: the head is the most recently recorded entry.
type BoardState struct {
	Players    []Player       `json:"players"`
	Activities []ActivityType `json:"activities"`
	Scores     []ScoreEntry   `json:"scores"`
}

// FindPlayer returns the player with the given id, or nil
func (s *BoardState) FindPlayer(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// FindActivity returns the activity with the given id, or nil
func (s *BoardState) FindActivity(id ActivityID) *ActivityType {
	for i := range s.Activities {
		if s.Activities[i].ID == id {
			return &s.Activities[i]
		}
	}
	return nil
}

// Board is one independently shareable leaderboard instance
type Board struct {
	ID        BoardID    `json:"id"`
	Name      string     `json:"name"`
	OwnerID   UserID     `json:"ownerId"`
	EditToken string     `json:"editToken"`
	State     BoardState `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the board. Storage and broadcast hand out
// clones so no two contexts share backing slices.
func (b *Board) Clone() *Board {
	c := *b
	c.State = BoardState{
		Players:    make([]Player, len(b.State.Players)),
		Activities: make([]ActivityType, len(b.State.Activities)),
		Scores:     make([]ScoreEntry, len(b.State.Scores)),
	}
	copy(c.State.Players, b.State.Players)
	copy(c.State.Activities, b.State.Activities)
	for i, e := range b.State.Scores {
		c.State.Scores[i] = e.Clone()
	}
	return &c
}

// RootState is the top-level persisted aggregate for one profile
type RootState struct {
	Boards          []Board `json:"boards"`
	SelectedBoardID BoardID `json:"selectedBoardId,omitempty"`
	CurrentUser     User    `json:"currentUser"`
}

// FindBoard returns the board with the given id, or nil
func (r *RootState) FindBoard(id BoardID) *Board {
	for i := range r.Boards {
		if r.Boards[i].ID == id {
			return &r.Boards[i]
		}
	}
	return nil
}

// PutBoard replaces the local copy of the board if one exists, otherwise
// prepends it to the board list
func (r *RootState) PutBoard(b Board) {
	for i := range r.Boards {
		if r.Boards[i].ID == b.ID {
			r.Boards[i] = b
			return
		}
	}
	r.Boards = append([]Board{b}, r.Boards...)
}
