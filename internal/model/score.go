package model

// ScoreID uniquely identifies a score entry within a board
type ScoreID string

// Participant is one (player, raw points) pair within a score entry
type Participant struct {
	PlayerID PlayerID `json:"playerId"`
	Points   float64  `json:"points"`
}

// ScoreEntry records the outcome of a single match. Entries are immutable
// once recorded; the only removals are "undo most recent" and "clear all".
//
// Two wire shapes are accepted on read: the general multi-party shape with
// Participants set, and a legacy two-party shape carrying a single
// playerId/points pair at the top level. LegacyPlayerID/LegacyPoints exist
// only to keep the legacy shape readable; new entries always populate
// Participants.
type ScoreEntry struct {
	ID           ScoreID       `json:"id"`
	ActivityID   ActivityID    `json:"activityId"`
	Timestamp    int64         `json:"timestamp"` // epoch millis
	Participants []Participant `json:"participants,omitempty"`

	LegacyPlayerID PlayerID `json:"playerId,omitempty"`
	LegacyPoints   *float64 `json:"points,omitempty"`
}

// Clone returns a deep copy of the entry
func (e ScoreEntry) Clone() ScoreEntry {
	c := e
	if e.Participants != nil {
		c.Participants = make([]Participant, len(e.Participants))
		copy(c.Participants, e.Participants)
	}
	if e.LegacyPoints != nil {
		p := *e.LegacyPoints
		c.LegacyPoints = &p
	}
	return c
}
