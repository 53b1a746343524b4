package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Board:
		o.printBoard(v)
	case BoardList:
		o.printBoardList(v)
	case Player:
		o.printPlayer(v)
	case Activity:
		o.printActivity(v)
	case Score:
		o.printScore(v)
	case []StandingsRow:
		o.printStandings(v)
	case ShareLink:
		o.printShareLink(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

// Activity response type
type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Participant response type
type Participant struct {
	PlayerID string  `json:"player_id"`
	Points   float64 `json:"points"`
}

// Score response type
type Score struct {
	ID           string        `json:"id"`
	ActivityID   string        `json:"activity_id"`
	Timestamp    int64         `json:"timestamp"`
	Participants []Participant `json:"participants"`
}

// Board response type
type Board struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	OwnerID    string     `json:"owner_id"`
	Players    []Player   `json:"players"`
	Activities []Activity `json:"activities"`
	Scores     []Score    `json:"scores"`
	CanEdit    bool       `json:"can_edit"`
}

// BoardSummary response type
type BoardSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// User response type
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BoardList response type
type BoardList struct {
	Boards []BoardSummary `json:"boards"`
	User   User           `json:"user"`
}

// ShareLink response type
type ShareLink struct {
	BoardID   string `json:"board_id"`
	EditToken string `json:"edit_token"`
}

// StandingsRow response type
type StandingsRow struct {
	Player Player `json:"player"`
	Points int    `json:"points"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	photoStr := "no"
	if p.Photo != "" {
		photoStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Photo: %s\n", photoStr)
}

func (o *Output) printActivity(a Activity) {
	fmt.Printf("Activity: %s (%s)\n", a.Name, a.ID)
}

func (o *Output) printScore(s Score) {
	ts := time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04:05")
	fmt.Printf("Score: %s\n", s.ID)
	fmt.Printf("Activity: %s\n", s.ActivityID)
	fmt.Printf("Recorded: %s\n", ts)
	for _, p := range s.Participants {
		fmt.Printf("  - %s: %g\n", p.PlayerID, p.Points)
	}
}

func (o *Output) printBoard(b Board) {
	editStr := "read-only"
	if b.CanEdit {
		editStr = "editable"
	}
	fmt.Printf("Board: %s (%s)\n", b.Name, b.ID)
	fmt.Printf("Owner: %s\n", b.OwnerID)
	fmt.Printf("Access: %s\n", editStr)

	fmt.Printf("Players (%d):\n", len(b.Players))
	for _, p := range b.Players {
		fmt.Printf("  - %s (%s)\n", p.Name, p.ID)
	}

	fmt.Printf("Activities (%d):\n", len(b.Activities))
	for _, a := range b.Activities {
		fmt.Printf("  - %s (%s)\n", a.Name, a.ID)
	}

	fmt.Printf("Scores: %d recorded\n", len(b.Scores))
}

func (o *Output) printBoardList(l BoardList) {
	fmt.Printf("User: %s (%s)\n", l.User.Name, l.User.ID)
	fmt.Printf("Boards (%d):\n", len(l.Boards))
	for _, b := range l.Boards {
		selectedStr := ""
		if b.Selected {
			selectedStr = " [selected]"
		}
		fmt.Printf("  - %s (%s)%s\n", b.Name, b.ID, selectedStr)
	}
}

func (o *Output) printShareLink(s ShareLink) {
	fmt.Printf("Board: %s\n", s.BoardID)
	fmt.Printf("Edit token: %s\n", s.EditToken)
	fmt.Printf("Share link: %s/api/v1/boards/%s?token=%s\n", cfg.ServerURL, s.BoardID, s.EditToken)
}

func (o *Output) printStandings(rows []StandingsRow) {
	fmt.Println("Standings:")
	for i, row := range rows {
		fmt.Printf("  %d. %s - %d pts\n", i+1, row.Player.Name, row.Points)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
