// Package events is the in-process pub/sub used to invalidate cached views
// after invoice batches land.
package events

import "sync"

// Handler receives the topic it subscribed to.
type Handler func(topic string)

// Bus fans topics out to subscribers synchronously. Handlers must be cheap;
// anything slow should hand off to its own goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish invokes every handler registered for the topic.
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[topic]...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(topic)
	}
}
