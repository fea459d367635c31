package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

// ReportEventsChannel is the Redis channel report events travel on.
const ReportEventsChannel = "reports:events"

// EventPublisher announces report lifecycle changes.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.ReportEvent) error
}

// EventHub fans events out to the websocket connections of this instance.
// It also serves as the publisher when Redis is not configured.
type EventHub struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]chan models.ReportEvent
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[uint64]chan models.ReportEvent)}
}

// Subscribe registers a listener. The returned cancel func must be called
// to release it; the channel is closed by cancel.
func (h *EventHub) Subscribe(buffer int) (<-chan models.ReportEvent, func()) {
	ch := make(chan models.ReportEvent, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast delivers ev to every listener. Slow listeners miss events
// rather than blocking the sender.
func (h *EventHub) Broadcast(ev models.ReportEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *EventHub) Publish(_ context.Context, ev models.ReportEvent) error {
	h.Broadcast(ev)
	return nil
}

// Subscribers is the number of registered listeners.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// RedisEvents publishes events on ReportEventsChannel and relays what it
// receives there to the local hub, so every instance sees every event.
type RedisEvents struct {
	client *redis.Client
	hub    *EventHub
}

func NewRedisEvents(client *redis.Client, hub *EventHub) *RedisEvents {
	return &RedisEvents{client: client, hub: hub}
}

func (r *RedisEvents) Publish(ctx context.Context, ev models.ReportEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, ReportEventsChannel, data).Err()
}

// Run relays events from Redis until ctx is done, resubscribing with
// exponential backoff after errors.
func (r *RedisEvents) Run(ctx context.Context) {
	backoff := time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		err := r.relay(ctx, func() { backoff = time.Second })
		if ctx.Err() != nil {
			return
		}
		log.Printf("Redis report event subscriber error: %v", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (r *RedisEvents) relay(ctx context.Context, onMessage func()) error {
	pubsub := r.client.Subscribe(ctx, ReportEventsChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	log.Printf("✅ Report event subscriber started (channel: %s)", ReportEventsChannel)

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		onMessage()

		var ev models.ReportEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("failed to unmarshal report event: %v", err)
			continue
		}
		r.hub.Broadcast(ev)
	}
}

// publishEvent is best-effort: failures are logged and swallowed.
func publishEvent(ctx context.Context, pub EventPublisher, ev models.ReportEvent) {
	if pub == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Printf("⚠️  Failed to publish %s event: %v", ev.Type, err)
	}
}
