// Package eventbus is a small in-process publish/subscribe bus used to
// fan out client-state change notifications (cart updates, favorites
// updates) to interested components.
package eventbus

import (
	"context"
	"sync"

	"github.com/artvia/artvia-backend/pkg/logger"
)

// Topics published by the client-state managers.
const (
	TopicCartUpdated      = "cartUpdated"
	TopicFavoritesUpdated = "favoritesUpdated"
)

// Handler receives the payload published on a topic.
type Handler func(payload any)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers published events synchronously, in subscription order.
// A panicking handler is recovered and logged; remaining handlers still run.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscription
	logg   *logger.Logger
}

// New builds an empty bus. logg may be nil.
func New(logg *logger.Logger) *Bus {
	return &Bus{
		subs: map[string][]subscription{},
		logg: logg,
	}
}

// Subscribe registers handler for topic and returns an unsubscribe func.
// Calling the returned func more than once is harmless.
func (b *Bus) Subscribe(topic string, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(topic, id)
		})
	}
}

func (b *Bus) unsubscribe(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every current subscriber of topic, in the
// order they subscribed, on the caller's goroutine.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(topic, s, payload)
	}
}

func (b *Bus) deliver(topic string, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil && b.logg != nil {
			ctx := b.logg.WithFields(context.Background(), map[string]any{
				"topic": topic,
				"panic": r,
			})
			b.logg.Warn(ctx, "event handler panicked")
		}
	}()
	s.handler(payload)
}

// SubscriberCount reports how many handlers are registered for topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
