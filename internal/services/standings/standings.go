// Package standings turns a board's score history into ranked standings
// under the win/draw/loss point rule. Everything here is pure and
// reentrant: safe to call from any context without coordination.
package standings

import (
	"math"
	"sort"

	"github.com/tallyhq/tally/internal/model"
)

// Standings points awarded per match outcome
const (
	WinPoints  = 2
	DrawPoints = 1
)

// Normalize canonicalizes a score entry into its participant list.
// The general multi-party shape is returned unchanged, order preserved.
// The legacy single-party shape becomes a one-element list when its points
// value is a finite number. Anything else normalizes to an empty list and
// is inert for standings; malformed entries never raise an error.
func Normalize(e model.ScoreEntry) []model.Participant {
	if e.Participants != nil {
		return e.Participants
	}
	if e.LegacyPlayerID != "" && e.LegacyPoints != nil && isFinite(*e.LegacyPoints) {
		return []model.Participant{{PlayerID: e.LegacyPlayerID, Points: *e.LegacyPoints}}
	}
	return nil
}

// Delta computes the standings points a single entry awards per player.
// A match needs at least two sides to produce an outcome, so entries with
// fewer than two participants award nothing. The sole participant at the
// maximum raw points takes WinPoints; if several share the maximum, each of
// them takes DrawPoints. Ties are exact float equality, no epsilon.
//
// A caller that bypasses boundary validation can record duplicate player
// ids within one entry; the fold below simply accumulates twice under the
// same key. Defined, if unusual.
func Delta(e model.ScoreEntry) map[model.PlayerID]int {
	result := make(map[model.PlayerID]int)

	participants := Normalize(e)
	if len(participants) < 2 {
		return result
	}

	maxPoints := participants[0].Points
	for _, p := range participants[1:] {
		if p.Points > maxPoints {
			maxPoints = p.Points
		}
	}

	var top []model.PlayerID
	for _, p := range participants {
		if p.Points == maxPoints {
			top = append(top, p.PlayerID)
		}
	}

	if len(top) == 1 {
		result[top[0]] += WinPoints
		return result
	}
	for _, id := range top {
		result[id] += DrawPoints
	}
	return result
}

// Compute folds Delta over the entire score history. Addition commutes, so
// the result is independent of entry order. Players with no awarded points
// are absent from the mapping; display treats absence as zero. The fold is
// recomputed from scratch on every read, never incrementally maintained.
func Compute(history []model.ScoreEntry) map[model.PlayerID]int {
	totals := make(map[model.PlayerID]int)
	for _, e := range history {
		for id, pts := range Delta(e) {
			totals[id] += pts
		}
	}
	return totals
}

// Row is one display line of the leaderboard
type Row struct {
	Player model.Player `json:"player"`
	Points int          `json:"points"`
}

// Leaderboard produces display rows for every player on the board, sorted
// by descending standings points. Ties preserve the players' relative order
// in the player list (stable sort).
func Leaderboard(players []model.Player, history []model.ScoreEntry) []Row {
	totals := Compute(history)

	rows := make([]Row, len(players))
	for i, p := range players {
		rows[i] = Row{Player: p, Points: totals[p.ID]}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Points > rows[j].Points
	})
	return rows
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
