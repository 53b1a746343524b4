// Package sync reconciles the concurrent sources of truth for a board:
// the profile-local persisted copy, live broadcast from sibling contexts,
// and the shared record fetched via a share link. The reconciliation policy
// is last-writer-wins per board id, never a merge.
package sync

import (
	"context"

	"github.com/tallyhq/tally/internal/model"
)

// Broadcaster is the pub/sub channel used to fan out full board snapshots
// to every context observing the same board id. Delivery is best-effort and
// at-most-once: subscribers that are slow or absent simply miss messages,
// and the open-time re-fetch compensates. The payload is always a whole
// Board; receivers replace their copy unconditionally, which makes repeated
// delivery of an identical snapshot a no-op.
type Broadcaster interface {
	// Publish fans the board snapshot out to subscribers of its id
	Publish(ctx context.Context, board *model.Board) error

	// Subscribe registers fn for snapshots of the given board id and
	// returns an unsubscribe function. After unsubscribe returns, fn is
	// never invoked again.
	Subscribe(ctx context.Context, id model.BoardID, fn func(*model.Board)) (func(), error)
}
