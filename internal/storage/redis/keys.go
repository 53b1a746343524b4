package redis

import (
	"fmt"

	"github.com/tallyhq/tally/internal/model"
)

// Key prefix for profile-scoped data
const keyPrefix = "tally"

// sharedBoardKey returns the Redis key for a shared board record. The key
// is deliberately unprefixed: any client that knows a board id can reach
// the record, which is the whole point of link-based sharing.
func sharedBoardKey(id model.BoardID) string {
	return fmt.Sprintf("shared-board:%s", id)
}

// rootKey returns the Redis key for a profile's root aggregate
func rootKey(profile model.ProfileID) string {
	return fmt.Sprintf("%s:root:%s", keyPrefix, profile)
}

// userKey returns the Redis key for a profile's user identity
func userKey(profile model.ProfileID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, profile)
}
