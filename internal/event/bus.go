// Package event provides the in-process publish/subscribe bus plugins use to
// decouple side effects (metrics, logging) from request handling.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/plugin"
)

// Compile-time interface guard.
var _ plugin.EventBus = (*Bus)(nil)

// subscription is one registered handler.
type subscription struct {
	id      int
	handler plugin.EventHandler
}

// Bus is a thread-safe in-process event bus. Handlers run synchronously on
// Publish and on a goroutine per event on PublishAsync; a panicking handler
// never takes the publisher down.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	byTopic  map[string][]subscription
	wildcard []subscription
	logger   *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		byTopic: make(map[string][]subscription),
		logger:  logger,
	}
}

// Subscribe registers handler for a single topic. The returned function
// removes the subscription.
func (b *Bus) Subscribe(topic string, handler plugin.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.byTopic[topic] = append(b.byTopic[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byTopic[topic] = removeSub(b.byTopic[topic], id)
	}
}

// SubscribeAll registers handler for every topic.
func (b *Bus) SubscribeAll(handler plugin.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.wildcard = append(b.wildcard, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = removeSub(b.wildcard, id)
	}
}

// Publish delivers event synchronously to topic and wildcard subscribers.
func (b *Bus) Publish(ctx context.Context, event plugin.Event) error {
	for _, sub := range b.snapshot(event.Topic) {
		b.deliver(ctx, sub, event)
	}
	return nil
}

// PublishAsync delivers event on a separate goroutine and returns
// immediately.
func (b *Bus) PublishAsync(ctx context.Context, event plugin.Event) {
	subs := b.snapshot(event.Topic)
	go func() {
		for _, sub := range subs {
			b.deliver(ctx, sub, event)
		}
	}()
}

// snapshot copies the relevant handlers so delivery happens without holding
// the lock.
func (b *Bus) snapshot(topic string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := make([]subscription, 0, len(b.byTopic[topic])+len(b.wildcard))
	subs = append(subs, b.byTopic[topic]...)
	subs = append(subs, b.wildcard...)
	return subs
}

// deliver invokes one handler, recovering panics.
func (b *Bus) deliver(ctx context.Context, sub subscription, event plugin.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.Any("panic", r),
			)
		}
	}()
	sub.handler(ctx, event)
}

func removeSub(subs []subscription, id int) []subscription {
	out := subs[:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
