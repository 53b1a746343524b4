package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/redis/go-redis/v9"

	"github.com/tallyhq/tally/internal/model"
)

// RedisBroadcaster is the cross-process Broadcaster, backed by Redis
// pub/sub. Redis pub/sub is fire-and-forget: a context that is not
// subscribed at publish time misses the message, which matches the
// at-most-once contract.
type RedisBroadcaster struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisBroadcaster creates a Broadcaster on the given Redis client
func NewRedisBroadcaster(client redis.UniversalClient, logger *slog.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
		logger: logger.With(slog.String("component", "sync-redis")),
	}
}

// Ensure RedisBroadcaster implements Broadcaster
var _ Broadcaster = (*RedisBroadcaster)(nil)

// channelName derives the pub/sub channel deterministically from the
// board id, so sibling contexts converge on the same channel
func channelName(id model.BoardID) string {
	return fmt.Sprintf("board-sync:%s", id)
}

// Publish sends the whole board snapshot on the board's channel
func (b *RedisBroadcaster) Publish(ctx context.Context, board *model.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName(board.ID), data).Err()
}

// Subscribe listens on the board's channel and invokes fn per snapshot.
// Payloads that fail to decode are skipped.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, id model.BoardID, fn func(*model.Board)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, channelName(id))

	// Confirm the subscription before returning so the caller never
	// misses a snapshot published after Subscribe succeeds
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	var wg stdsync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range pubsub.Channel() {
			var board model.Board
			if err := json.Unmarshal([]byte(msg.Payload), &board); err != nil {
				b.logger.Warn("undecodable board snapshot skipped",
					slog.String("board", string(id)),
					slog.String("error", err.Error()))
				continue
			}
			fn(&board)
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
		wg.Wait()
	}
	return cancel, nil
}
