package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tallyhq/tally/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeBoardNotFound   = "BOARD_NOT_FOUND"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeEditNotAllowed  = "EDIT_NOT_ALLOWED"
	CodeNotOwner        = "NOT_OWNER"
	CodeInvalidScore    = "INVALID_SCORE"
	CodeMalformedImport = "MALFORMED_IMPORT"
	CodeImageDecode     = "IMAGE_DECODE_FAILED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrBoardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBoardNotFound, "Board not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrEditNotAllowed):
		return &httpError{http.StatusForbidden, APIError{CodeEditNotAllowed, "Editing requires ownership or the board's edit token"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Only the owner can perform this action"}}
	case errors.Is(err, model.ErrInvalidScore):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidScore, "Invalid score entry"}}
	case errors.Is(err, model.ErrMalformedImport):
		return &httpError{http.StatusBadRequest, APIError{CodeMalformedImport, "Import data is malformed"}}
	case errors.Is(err, model.ErrImageDecode):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeImageDecode, "Image could not be decoded"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
