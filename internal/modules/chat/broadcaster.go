package chat

import (
	"context"
	"encoding/json"
	"log/slog"

	"shugly/internal/cache"
)

// EventsChannel is the Redis channel chat events travel on between API replicas.
const EventsChannel = "chat:events"

// Broadcaster pushes an event to every connection of the recipients, wherever they are connected.
type Broadcaster interface {
	Broadcast(ctx context.Context, recipients []string, ev Event)
}

// LocalBroadcaster delivers to this process only.
type LocalBroadcaster struct {
	hub *Hub
}

func NewLocalBroadcaster(hub *Hub) *LocalBroadcaster {
	return &LocalBroadcaster{hub: hub}
}

func (b *LocalBroadcaster) Broadcast(_ context.Context, recipients []string, ev Event) {
	for _, id := range recipients {
		b.hub.Deliver(id, ev)
	}
}

type envelope struct {
	To    []string `json:"to"`
	Event Event    `json:"event"`
}

// RedisBroadcaster publishes events on EventsChannel; every replica running Run delivers
// them to its own connections.
type RedisBroadcaster struct {
	redis *cache.RedisClient
	hub   *Hub
}

func NewRedisBroadcaster(redis *cache.RedisClient, hub *Hub) *RedisBroadcaster {
	return &RedisBroadcaster{redis: redis, hub: hub}
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, recipients []string, ev Event) {
	if err := b.redis.Publish(ctx, EventsChannel, envelope{To: recipients, Event: ev}); err != nil {
		slog.WarnContext(ctx, "chat event publish failed, delivering locally", "type", ev.Type, "error", err)
		for _, id := range recipients {
			b.hub.Deliver(id, ev)
		}
	}
}

// Run blocks until ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) {
	b.redis.Subscribe(ctx, EventsChannel, b.handle)
}

func (b *RedisBroadcaster) handle(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("malformed chat event", "error", err)
		return
	}
	for _, id := range env.To {
		b.hub.Deliver(id, env.Event)
	}
}
