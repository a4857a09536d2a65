package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/event"
)

type Notification struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RelayConfig struct {
	EventBus *event.Bus
	// Redis is optional. Without it notifications are only logged.
	Redis  Redis
	Prefix string
}

// Relay forwards board events to Redis pub/sub so that displays can follow
// a board. Each event goes to the channel of its board and to the aggregate
// channel.
type Relay struct {
	redis  Redis
	prefix string
}

func NewRelay(c RelayConfig) *Relay {
	r := &Relay{
		redis:  c.Redis,
		prefix: c.Prefix,
	}

	c.EventBus.SubscribeAll(domain.EventNames, func(ctx context.Context, e event.Event) error {
		if err := r.Publish(ctx, e); err != nil {
			slog.WarnContext(ctx, "pubsub: relay failed", "event", e.Name(), "error", err)
		}
		return nil
	})

	return r
}

// Publish sends one notification. Errors are returned to the caller, which
// decides whether they matter.
func (r *Relay) Publish(ctx context.Context, e event.Event) error {
	b, err := json.Marshal(Notification{
		Event: e.Name(),
		Data:  e,
	})
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", e.Name(), err)
	}

	if r.redis == nil {
		slog.DebugContext(ctx, "pubsub: notification", "event", e.Name(), "payload", string(b))
		return nil
	}

	var eg errgroup.Group
	for _, ch := range r.channels(e) {
		eg.Go(func() error {
			return r.redis.Publish(ctx, ch, b).Err()
		})
	}

	return eg.Wait()
}

func (r *Relay) channels(e event.Event) []string {
	scope := domain.VariantQuiz
	if s, ok := e.(domain.Scoped); ok {
		scope = s.Scope()
	}

	return []string{
		BoardChannel(r.prefix, scope),
		fmt.Sprintf("%s:boards", r.prefix),
	}
}

// BoardChannel names the pub/sub channel of one board.
func BoardChannel(prefix string, v domain.Variant) string {
	return fmt.Sprintf("%s:board:%s", prefix, v)
}
