package model

// PlayerID uniquely identifies a player within a board
type PlayerID string

// ActivityID uniquely identifies an activity type within a board
type ActivityID string

// Player represents a ranked participant on a board.
// Photo, when set, is an inline data-URL-encoded JPEG (see services/photo).
// Players are never deleted; score entries may only ever dangle after a
// cross-board import or storage corruption.
type Player struct {
	ID    PlayerID `json:"id"`
	Name  string   `json:"name"`
	Photo string   `json:"photo,omitempty"`
}

// ActivityType is a kind of match that can be recorded on a board
type ActivityType struct {
	ID   ActivityID `json:"id"`
	Name string     `json:"name"`
}
