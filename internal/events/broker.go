// Path: internal/events/broker.go
package events

import (
	"sync"
	"time"
)

// Topic names.
const (
	// TopicTrackedRefresh announces a completed background refresh of a
	// tracked query.
	TopicTrackedRefresh = "tracked:refresh"
)

// RefreshNotice is the payload published after the scheduler (or an
// immediate track-time refresh) repopulates the cache for a query.
type RefreshNotice struct {
	QueryTerm string    `json:"query_term"`
	Results   int       `json:"results"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event represents a message passed through the broker.
type Event struct {
	Topic string
	Data  any
}

// Broker implements a simple in-memory pub/sub system.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe creates a new subscription to a topic.
// It returns a read-only channel where events for that topic will be sent.
func (b *Broker) Subscribe(topic string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 8) // Buffered channel to prevent blocking publishers
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broker) Unsubscribe(topic string, sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[topic]
	for i, ch := range subs {
		if ch == sub {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends an event to all subscribers of a topic.
func (b *Broker) Publish(topic string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{Topic: topic, Data: data}
	for _, ch := range b.subscribers[topic] {
		// Non-blocking send; a slow subscriber drops events rather than
		// stalling the publisher.
		select {
		case ch <- event:
		default:
		}
	}
}
