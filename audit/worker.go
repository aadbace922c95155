package audit

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"eletralog/live"
)

// StartEventWorker forwards published audit entries to websocket viewers
// of the audit page. Runs until ctx is cancelled.
func StartEventWorker(ctx context.Context, rdb *redis.Client) {
	sub := rdb.Subscribe(ctx, Channel)
	ch := sub.Channel()

	log.Println("audit: event worker listening")
	for {
		select {
		case <-ctx.Done():
			_ = sub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			live.Broadcast("audit", []byte(msg.Payload))
		}
	}
}
