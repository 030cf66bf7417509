package notify

import (
	"context"
	"sync"
)

// MemoryChannel is an in-process Channel used by tests and by single-node
// deployments that do not run Redis.
type MemoryChannel struct {
	mu   sync.Mutex
	subs map[string][]chan Event
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{subs: make(map[string][]chan Event)}
}

func (c *MemoryChannel) Publish(ctx context.Context, e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, scope := range []Scope{TenantScope(e.TenantID), OrderScope(e.EntityID)} {
		for _, ch := range c.subs[scope.Channel()] {
			// A slow subscriber drops the signal; it will catch up on
			// its next refetch, same as a missed Redis message.
			select {
			case ch <- e:
			default:
			}
		}
	}
	return nil
}

func (c *MemoryChannel) Subscribe(ctx context.Context, s Scope) (<-chan Event, func(), error) {
	ch := make(chan Event, 16)
	c.mu.Lock()
	c.subs[s.Channel()] = append(c.subs[s.Channel()], ch)
	c.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			c.mu.Lock()
			list := c.subs[s.Channel()]
			for i, sub := range list {
				if sub == ch {
					c.subs[s.Channel()] = append(list[:i], list[i+1:]...)
					break
				}
			}
			c.mu.Unlock()
			close(ch)
		})
	}

	// The watcher must not outlive the subscription: a caller that stops
	// with a background context would otherwise pin this goroutine forever.
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()
	return ch, stop, nil
}
