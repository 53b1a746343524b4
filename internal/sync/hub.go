package sync

import (
	"context"
	"log/slog"
	stdsync "sync"

	"github.com/tallyhq/tally/internal/model"
)

// subscriberBuffer bounds how far a slow subscriber may lag before
// snapshots are dropped for it
const subscriberBuffer = 16

type subscriber struct {
	ch       chan *model.Board
	done     chan struct{}
	wg       stdsync.WaitGroup
	stopOnce stdsync.Once
}

// Hub is the in-process Broadcaster: one logical channel per board id,
// named by the id itself. Snapshots published for an id are delivered to
// every registered subscriber of that id.
type Hub struct {
	mu     stdsync.RWMutex
	subs   map[model.BoardID]map[*subscriber]bool
	logger *slog.Logger
}

// NewHub creates a new in-process Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[model.BoardID]map[*subscriber]bool),
		logger: logger.With(slog.String("component", "sync-hub")),
	}
}

// Ensure Hub implements Broadcaster
var _ Broadcaster = (*Hub)(nil)

// Publish delivers a snapshot of the board to every subscriber of its id.
// Subscribers with a full buffer are skipped, not blocked on.
func (h *Hub) Publish(ctx context.Context, board *model.Board) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.subs[board.ID] {
		select {
		case sub.ch <- board.Clone():
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("board snapshot dropped - subscriber buffer full",
			slog.String("board", string(board.ID)),
			slog.Int("dropped", dropped))
	}
	return nil
}

// Subscribe registers fn for snapshots of the board id. The returned
// unsubscribe function blocks until the delivery goroutine has stopped, so
// fn is never invoked after it returns.
func (h *Hub) Subscribe(ctx context.Context, id model.BoardID, fn func(*model.Board)) (func(), error) {
	sub := &subscriber{
		ch:   make(chan *model.Board, subscriberBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[*subscriber]bool)
	}
	h.subs[id][sub] = true
	count := len(h.subs[id])
	h.mu.Unlock()

	h.logger.Info("subscriber registered",
		slog.String("board", string(id)),
		slog.Int("total_subscribers", count))

	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		for {
			select {
			case board := <-sub.ch:
				fn(board)
			case <-sub.done:
				return
			}
		}
	}()

	cancel := func() {
		sub.stopOnce.Do(func() {
			h.mu.Lock()
			if h.subs[id] != nil {
				delete(h.subs[id], sub)
				if len(h.subs[id]) == 0 {
					delete(h.subs, id)
				}
			}
			h.mu.Unlock()

			close(sub.done)
			sub.wg.Wait()
			h.logger.Info("subscriber unregistered", slog.String("board", string(id)))
		})
	}
	return cancel, nil
}

// SubscriberCount returns the number of subscribers for a board id
func (h *Hub) SubscriberCount(id model.BoardID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}
