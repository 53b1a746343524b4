package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/tally/internal/api/apierr"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/request"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/standings"
	"github.com/tallyhq/tally/internal/sync"
)

// ScoreHandler handles score recording and standings endpoints
type ScoreHandler struct {
	syncer *sync.Syncer
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(syncer *sync.Syncer) *ScoreHandler {
	return &ScoreHandler{syncer: syncer}
}

// Add handles POST /api/v1/boards/{id}/scores
func (h *ScoreHandler) Add(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	var req request.AddScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	participants := make([]model.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = model.Participant{
			PlayerID: model.PlayerID(p.PlayerID),
			Points:   p.Points,
		}
	}

	entry := model.ScoreEntry{
		ActivityID:   model.ActivityID(req.ActivityID),
		Participants: participants,
	}

	recorded, err := h.syncer.AddScore(r.Context(), profileID, boardRef(r), entry)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ScoreFromModel(*recorded))
}

// RemoveLast handles DELETE /api/v1/boards/{id}/scores/last
func (h *ScoreHandler) RemoveLast(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	if err := h.syncer.RemoveLastScore(r.Context(), profileID, boardRef(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Clear handles DELETE /api/v1/boards/{id}/scores
func (h *ScoreHandler) Clear(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	if err := h.syncer.ClearAllScores(r.Context(), profileID, boardRef(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Standings handles GET /api/v1/boards/{id}/standings
func (h *ScoreHandler) Standings(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	board, _, err := h.syncer.Open(r.Context(), profileID, boardRef(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	rows := standings.Leaderboard(board.State.Players, board.State.Scores)
	response.JSON(w, http.StatusOK, response.StandingsFromRows(rows))
}
