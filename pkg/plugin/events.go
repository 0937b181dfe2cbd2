package plugin

import (
	"context"
	"time"
)

// Event is a message published on the in-process bus.
type Event struct {
	// Topic is a dotted name like "cellar.wine.added".
	Topic string
	// Source is the publishing plugin's name.
	Source string
	// Timestamp is when the event was published.
	Timestamp time.Time
	// Payload carries topic-specific data.
	Payload any
}

// EventHandler processes a delivered event.
type EventHandler func(ctx context.Context, event Event)

// EventBus is the in-process publish/subscribe bus shared by plugins.
type EventBus interface {
	// Publish delivers an event synchronously to all subscribers.
	Publish(ctx context.Context, event Event) error

	// PublishAsync delivers an event without waiting for handlers.
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for one topic and returns an
	// unsubscribe function.
	Subscribe(topic string, handler EventHandler) func()

	// SubscribeAll registers a handler for every topic.
	SubscribeAll(handler EventHandler) func()
}
