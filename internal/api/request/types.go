package request

// CreateBoardRequest is the request body for creating a board
type CreateBoardRequest struct {
	Name string `json:"name"`
}

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// AddActivityRequest is the request body for adding an activity type
type AddActivityRequest struct {
	Name string `json:"name"`
}

// Participant is one player's raw points in a score submission
type Participant struct {
	PlayerID string  `json:"player_id"`
	Points   float64 `json:"points"`
}

// AddScoreRequest is the request body for recording a match
type AddScoreRequest struct {
	ActivityID   string        `json:"activity_id"`
	Participants []Participant `json:"participants"`
}

// TransferRequest is the request body for transferring board ownership
type TransferRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}
