// Package export serializes state for backup and moves it between
// profiles. The wire shape is the persisted JSON shape, so an export taken
// from one installation imports into any other.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/tallyhq/tally/internal/model"
)

// Root dumps the full root state as indented JSON
func Root(root *model.RootState) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling root state: %w", err)
	}
	return data, nil
}

// Board dumps a single board as indented JSON
func Board(board *model.Board) ([]byte, error) {
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling board: %w", err)
	}
	return data, nil
}

// ParseRoot decodes an exported root state. Anything that does not decode
// into the expected shape is rejected up front, so a failed import never
// gets far enough to touch existing state.
func ParseRoot(data []byte) (*model.RootState, error) {
	var root model.RootState
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedImport, err)
	}
	for _, b := range root.Boards {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: board with empty id", model.ErrMalformedImport)
		}
	}
	return &root, nil
}
