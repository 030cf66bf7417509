package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisChannel implements Channel over Redis Pub/Sub. Redis Pub/Sub is
// fire-and-forget, which matches the contract: a subscriber that misses a
// message still converges on the next refetch.
type RedisChannel struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisChannel(client *redis.Client, log zerolog.Logger) *RedisChannel {
	return &RedisChannel{client: client, log: log}
}

func (c *RedisChannel) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	pipe.Publish(ctx, TenantScope(e.TenantID).Channel(), payload)
	pipe.Publish(ctx, OrderScope(e.EntityID).Channel(), payload)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisChannel) Subscribe(ctx context.Context, s Scope) (<-chan Event, func(), error) {
	sub := c.client.Subscribe(ctx, s.Channel())
	// Force the SUBSCRIBE round trip so a bad connection fails here, not
	// silently in the receive loop.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				c.log.Warn().Err(err).Str("channel", msg.Channel).Msg("notify: dropping malformed event")
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return out, stop, nil
}
