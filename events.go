package main

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const eventWriteWait = 10 * time.Second

// subscriber is one websocket observer. The mutex serializes writes to the
// connection; gorilla connections allow one concurrent writer only.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// EventHub fans planning and collision events out to websocket observers.
type EventHub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

// NewEventHub creates an empty hub
func NewEventHub() *EventHub {
	return &EventHub{subscribers: make(map[*subscriber]struct{})}
}

// Subscribe registers a connection and returns its subscriber handle
func (h *EventHub) Subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()
	log.Printf("🔌 Event subscriber connected (%d total)", count)
	return sub
}

// Unsubscribe removes a subscriber and closes its connection
func (h *EventHub) Unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// SubscriberCount returns the number of connected observers
func (h *EventHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends an event to every subscriber, dropping subscribers whose
// connections fail
func (h *EventHub) Broadcast(event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(payload); err != nil {
			log.Printf("dropping event subscriber: %v", err)
			h.Unsubscribe(sub)
		}
	}
}

// planEvent reports the outcome of a planning call.
type planEvent struct {
	Type       string  `json:"type"`
	Success    bool    `json:"success"`
	Strategy   string  `json:"strategy,omitempty"`
	Waypoints  int     `json:"waypoints"`
	PathLength float64 `json:"pathLength"`
	DurationMS float64 `json:"durationMs"`
}

// collisionEvent reports a caller-recorded collision.
type collisionEvent struct {
	Type     string `json:"type"`
	Position Point  `json:"position"`
	Count    int    `json:"collisionCount"`
}

// marginEvent reports a safety-margin change.
type marginEvent struct {
	Type           string  `json:"type"`
	CurrentMargin  float64 `json:"currentMargin"`
	CollisionCount int     `json:"collisionCount"`
}
