package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tallyhq/tally/internal/api/apierr"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/services/export"
	"github.com/tallyhq/tally/internal/services/profile"
)

// maxImportBytes bounds an import upload
const maxImportBytes = 32 << 20

// ExportHandler handles export and import endpoints
type ExportHandler struct {
	profiles *profile.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(profiles *profile.Service) *ExportHandler {
	return &ExportHandler{profiles: profiles}
}

// Export handles GET /api/v1/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	root := h.profiles.LoadRoot(r.Context(), profileID)
	data, err := export.Root(root)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="tally-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportBoard handles GET /api/v1/boards/{id}/export
// The dump is the interchange shape, edit token included, so it can be
// re-imported elsewhere as-is.
func (h *ExportHandler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())
	id := model.BoardID(mux.Vars(r)["id"])

	root := h.profiles.LoadRoot(r.Context(), profileID)
	board := root.FindBoard(id)
	if board == nil {
		apierr.WriteError(w, model.ErrBoardNotFound)
		return
	}

	data, err := export.Board(board)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tally-board-%s.json"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/v1/import
// A body that fails to parse leaves the profile's state untouched.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.MustGetProfile(r.Context())

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("could not read upload"))
		return
	}

	root, err := export.ParseRoot(data)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.profiles.ReplaceRoot(r.Context(), profileID, root)

	replaced := h.profiles.LoadRoot(r.Context(), profileID)
	response.JSON(w, http.StatusOK, response.BoardListFromRoot(replaced))
}
