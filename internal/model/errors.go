package model

import "errors"

// Common errors used across the application
var (
	// Board errors
	ErrBoardNotFound  = errors.New("board not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Capability errors
	ErrEditNotAllowed = errors.New("edit capability required")
	ErrNotOwner       = errors.New("only the board owner can perform this action")

	// Score submission errors
	ErrInvalidScore = errors.New("invalid score entry")

	// Interchange errors
	ErrMalformedImport = errors.New("malformed import payload")

	// Photo errors
	ErrImageDecode = errors.New("image could not be decoded")

	// Persistence errors
	ErrRootNotFound = errors.New("root state not found")
	ErrUserNotFound = errors.New("user not found")
)
