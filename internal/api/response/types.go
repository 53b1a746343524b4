package response

import (
	"time"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/standings"
)

// Player represents a player in API responses
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:    string(p.ID),
		Name:  p.Name,
		Photo: p.Photo,
	}
}

// Activity represents an activity type in API responses
type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivityFromModel converts a model.ActivityType
func ActivityFromModel(a model.ActivityType) Activity {
	return Activity{
		ID:   string(a.ID),
		Name: a.Name,
	}
}

// Participant is one player's raw points within a score entry
type Participant struct {
	PlayerID string  `json:"player_id"`
	Points   float64 `json:"points"`
}

// Score represents a recorded match in API responses. Legacy single-player
// entries are surfaced through the same normalized shape the standings use.
type Score struct {
	ID           string        `json:"id"`
	ActivityID   string        `json:"activity_id"`
	Timestamp    int64         `json:"timestamp"`
	Participants []Participant `json:"participants"`
}

// ScoreFromModel converts a model.ScoreEntry
func ScoreFromModel(e model.ScoreEntry) Score {
	normalized := standings.Normalize(e)
	participants := make([]Participant, len(normalized))
	for i, p := range normalized {
		participants[i] = Participant{
			PlayerID: string(p.PlayerID),
			Points:   p.Points,
		}
	}
	return Score{
		ID:           string(e.ID),
		ActivityID:   string(e.ActivityID),
		Timestamp:    e.Timestamp,
		Participants: participants,
	}
}

// Board represents a full board in API responses
type Board struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	OwnerID    string     `json:"owner_id"`
	Players    []Player   `json:"players"`
	Activities []Activity `json:"activities"`
	Scores     []Score    `json:"scores"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CanEdit    bool       `json:"can_edit"`
}

// BoardFromModel converts a model.Board. The edit token never appears in a
// board response; it is only handed out by the share endpoint.
func BoardFromModel(b *model.Board, canEdit bool) Board {
	players := make([]Player, len(b.State.Players))
	for i, p := range b.State.Players {
		players[i] = PlayerFromModel(p)
	}
	activities := make([]Activity, len(b.State.Activities))
	for i, a := range b.State.Activities {
		activities[i] = ActivityFromModel(a)
	}
	scores := make([]Score, len(b.State.Scores))
	for i, e := range b.State.Scores {
		scores[i] = ScoreFromModel(e)
	}
	return Board{
		ID:         string(b.ID),
		Name:       b.Name,
		OwnerID:    string(b.OwnerID),
		Players:    players,
		Activities: activities,
		Scores:     scores,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
		CanEdit:    canEdit,
	}
}

// BoardSummary is the list-view shape of a board
type BoardSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// BoardList is the response for listing a profile's boards
type BoardList struct {
	Boards []BoardSummary `json:"boards"`
	User   User           `json:"user"`
}

// BoardListFromRoot converts a root state into the list view
func BoardListFromRoot(root *model.RootState) BoardList {
	boards := make([]BoardSummary, len(root.Boards))
	for i := range root.Boards {
		boards[i] = BoardSummary{
			ID:       string(root.Boards[i].ID),
			Name:     root.Boards[i].Name,
			Selected: root.Boards[i].ID == root.SelectedBoardID,
		}
	}
	return BoardList{
		Boards: boards,
		User:   UserFromModel(root.CurrentUser),
	}
}

// User represents a profile's identity
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserFromModel converts a model.User
func UserFromModel(u model.User) User {
	return User{
		ID:   string(u.ID),
		Name: u.Name,
	}
}

// ShareLink is the response for the share endpoint
type ShareLink struct {
	BoardID   string `json:"board_id"`
	EditToken string `json:"edit_token"`
}

// StandingsRow is one leaderboard row
type StandingsRow struct {
	Player Player `json:"player"`
	Points int    `json:"points"`
}

// StandingsFromRows converts leaderboard rows
func StandingsFromRows(rows []standings.Row) []StandingsRow {
	out := make([]StandingsRow, len(rows))
	for i, row := range rows {
		out[i] = StandingsRow{
			Player: PlayerFromModel(row.Player),
			Points: row.Points,
		}
	}
	return out
}
