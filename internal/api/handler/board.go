package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tallyhq/tally/internal/api/apierr"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/request"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/access"
	"github.com/tallyhq/tally/internal/services/profile"
	"github.com/tallyhq/tally/internal/sync"
)

// BoardHandler handles board lifecycle endpoints
type BoardHandler struct {
	syncer   *sync.Syncer
	profiles *profile.Service
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(syncer *sync.Syncer, profiles *profile.Service) *BoardHandler {
	return &BoardHandler{
		syncer:   syncer,
		profiles: profiles,
	}
}

// boardRef builds the board reference from the route and the request's
// token, if any
func boardRef(r *http.Request) sync.Ref {
	return sync.Ref{
		BoardID: model.BoardID(mux.Vars(r)["id"]),
		Token:   middleware.ExtractToken(r),
	}
}

// Create handles POST /api/v1/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	var req request.CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	board, err := h.profiles.CreateBoard(r.Context(), profileID, req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.BoardFromModel(board, true))
}

// List handles GET /api/v1/boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	root := h.profiles.LoadRoot(r.Context(), profileID)
	response.JSON(w, http.StatusOK, response.BoardListFromRoot(root))
}

// Get handles GET /api/v1/boards/{id}
// This is the share-link fetch: it pulls the latest shared record, makes it
// the local copy and selects the board.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	board, canEdit, err := h.syncer.Open(r.Context(), profileID, boardRef(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BoardFromModel(board, canEdit))
}

// Select handles POST /api/v1/boards/{id}/select
func (h *BoardHandler) Select(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())
	id := model.BoardID(mux.Vars(r)["id"])

	if err := h.profiles.SelectBoard(r.Context(), profileID, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Share handles GET /api/v1/boards/{id}/share
// The edit token only leaves the server here, and only to callers who
// already hold edit capability.
func (h *BoardHandler) Share(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())
	ref := boardRef(r)

	root := h.profiles.LoadRoot(r.Context(), profileID)
	board := root.FindBoard(ref.BoardID)
	if board == nil {
		apierr.WriteError(w, model.ErrBoardNotFound)
		return
	}
	if !access.CanEdit(board, root.CurrentUser.ID, ref.Token) {
		apierr.WriteError(w, model.ErrEditNotAllowed)
		return
	}

	response.JSON(w, http.StatusOK, response.ShareLink{
		BoardID:   string(board.ID),
		EditToken: board.EditToken,
	})
}

// Transfer handles POST /api/v1/boards/{id}/transfer
func (h *BoardHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	var req request.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.NewOwnerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("new_owner_id is required"))
		return
	}

	err := h.syncer.TransferOwner(r.Context(), profileID, boardRef(r), model.UserID(req.NewOwnerID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
