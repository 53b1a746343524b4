// Package access derives edit capability for a board. The edit token is a
// bearer capability: whoever presents the exact token string edits with the
// same strength as the owner, regardless of identity.
package access

import "github.com/tallyhq/tally/internal/model"

// CanEdit reports whether the caller may mutate the board: either the
// caller is the owner, or the presented token matches the board's edit
// token. An empty presented token never grants anything.
func CanEdit(board *model.Board, userID model.UserID, presentedToken string) bool {
	if board == nil {
		return false
	}
	if userID != "" && userID == board.OwnerID {
		return true
	}
	return presentedToken != "" && presentedToken == board.EditToken
}

// CanTransfer reports whether the caller may transfer board ownership.
// This is deliberately stricter than CanEdit: only the owner qualifies,
// token possession is not enough.
func CanTransfer(board *model.Board, userID model.UserID) bool {
	if board == nil {
		return false
	}
	return userID != "" && userID == board.OwnerID
}
