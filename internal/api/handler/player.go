package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tallyhq/tally/internal/api/apierr"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/request"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/photo"
	"github.com/tallyhq/tally/internal/sync"
)

// maxPhotoUploadBytes bounds the raw upload, not the stored form
const maxPhotoUploadBytes = 8 << 20

// PlayerHandler handles player and activity endpoints
type PlayerHandler struct {
	syncer *sync.Syncer
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(syncer *sync.Syncer) *PlayerHandler {
	return &PlayerHandler{syncer: syncer}
}

// AddPlayer handles POST /api/v1/boards/{id}/players
func (h *PlayerHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	player, err := h.syncer.AddPlayer(r.Context(), profileID, boardRef(r), req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(*player))
}

// SetPhoto handles PUT /api/v1/boards/{id}/players/{player_id}/photo
// The body is the raw image upload; it is scaled down and stored as a data
// URL on the player.
func (h *PlayerHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())
	vars := mux.Vars(r)
	playerID := model.PlayerID(vars["player_id"])

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes))
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("could not read upload"))
		return
	}

	dataURL, err := photo.Process(data)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.syncer.SetPlayerPhoto(r.Context(), profileID, boardRef(r), playerID, dataURL); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// AddActivity handles POST /api/v1/boards/{id}/activities
func (h *PlayerHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	var req request.AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	activity, err := h.syncer.AddActivity(r.Context(), profileID, boardRef(r), req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ActivityFromModel(*activity))
}
