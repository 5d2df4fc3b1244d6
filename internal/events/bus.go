// Package events carries hunt state-change notifications from the tracker to
// its observers: the SSE endpoint, metrics, and the optional NATS mirror.
package events

import (
	"sync"
	"time"
)

// Type identifies a kind of hunt event.
type Type string

const (
	TypeItemFound      Type = "item_found"
	TypeItemCleared    Type = "item_cleared"
	TypeReset          Type = "reset"
	TypeSubmitStarted  Type = "submit_started"
	TypeSubmitFinished Type = "submit_finished"
)

// Event is one hunt state-change notification.
type Event struct {
	Type       Type      `json:"type"`
	ItemID     string    `json:"item_id,omitempty"`
	FoundCount int       `json:"found_count"`
	Total      int       `json:"total"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Bus fans hunt events out to subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe creates a subscription channel for hunt events.
// Returns a channel that will receive events and a function to unsubscribe.
func (b *Bus) Subscribe() (chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16) // Buffered channel to prevent blocking
	b.subscribers = append(b.subscribers, ch)

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		for i, sub := range b.subscribers {
			if sub == ch {
				// Remove by replacing with last element and truncating
				b.subscribers[i] = b.subscribers[len(b.subscribers)-1]
				b.subscribers = b.subscribers[:len(b.subscribers)-1]
				close(ch)
				break
			}
		}
	}

	return ch, unsubscribe
}

// Publish sends an event to all subscribers. Slow subscribers whose buffers
// are full miss the event rather than blocking the publisher.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
