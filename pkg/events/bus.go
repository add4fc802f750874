package events

import (
	"sync"

	"github.com/jscyril/flowaudio/api"
)

// Handler receives events published on the bus
type Handler func(api.Event)

// Subscription identifies a registered handler
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler Handler
}

// Bus delivers events synchronously to handlers in subscription order
type Bus struct {
	subscribers map[api.EventType][]subscriber
	nextID      Subscription
	closed      bool
	mu          sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[api.EventType][]subscriber),
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(eventType api.EventType, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if !b.closed {
		b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{id: id, handler: h})
	}
	return id
}

// SubscribeAll registers a handler for every event type
func (b *Bus) SubscribeAll(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.closed {
		return id
	}
	for _, eventType := range api.AllEventTypes() {
		b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{id: id, handler: h})
	}
	return id
}

// Publish calls every handler subscribed to the event's type.
// Handlers may publish or subscribe themselves; new subscriptions
// take effect from the next Publish.
func (b *Bus) Publish(event api.Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers[event.Type]))
	copy(subs, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Unsubscribe removes a handler from every event type it was registered for
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		kept := subs[:0:0]
		for _, s := range subs {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(b.subscribers, eventType)
		} else {
			b.subscribers[eventType] = kept
		}
	}
}

// Len returns the number of handlers subscribed to an event type
func (b *Bus) Len(eventType api.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// Close drops every subscription; later subscriptions are ignored
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.subscribers = make(map[api.EventType][]subscriber)
}
