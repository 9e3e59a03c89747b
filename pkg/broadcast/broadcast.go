// Package broadcast is an in-process per-user publish/subscribe registry.
//
// Stream endpoints (SSE, WebSocket) subscribe with a user ID and block on
// the returned channel; the outbox dispatcher publishes events as they are
// committed. A subscriber that cannot keep up has its oldest pending event
// dropped rather than blocking the publisher.
package broadcast

import (
	"sync"
)

// Event is a single push notification delivered to stream subscribers.
type Event struct {
	// Name is the stream event name, e.g. "notifications" or "orders".
	Name string
	// Payload is JSON-marshalable event data.
	Payload any
}

// subscriberBuffer is the channel capacity per subscriber. One user rarely
// has more than a handful of undelivered events in flight.
const subscriberBuffer = 16

type subscriber struct {
	userID uint
	ch     chan Event
}

// Hub fans events out to per-user subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[*subscriber]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[*subscriber]struct{})}
}

// Default is the process-wide hub used by the stream controllers and the
// outbox dispatcher.
var Default = NewHub()

// Subscribe registers a listener for events addressed to userID.
// The returned cancel func must be called when the client disconnects.
func (h *Hub) Subscribe(userID uint) (<-chan Event, func()) {
	sub := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every active subscription of userID.
// Delivery is best-effort: a full subscriber buffer drops its oldest
// event to make room, so a stalled client never blocks the publisher.
func (h *Hub) Publish(userID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

// PublishAll sends the event to every connected user, regardless of ID.
func (h *Hub) PublishAll(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.subs {
		for sub := range set {
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscriptions for userID.
func (h *Hub) SubscriberCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
