package events

import (
	"context"
	"encoding/json"
	"sync"
)

// EventType represents the type of event
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventPeriodActivated    EventType = "period_activated"
)

// Event represents a server-sent event
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// EventBus manages SSE subscriptions and broadcasts events
type EventBus struct {
	subscribers map[string]chan Event
	mu          sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (eb *EventBus) Subscribe(ctx context.Context, id string) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Buffered so a slow consumer never blocks a publisher
	ch := make(chan Event, 10)
	eb.subscribers[id] = ch

	go func() {
		<-ctx.Done()
		eb.Unsubscribe(id)
	}()

	return ch
}

// Unsubscribe removes a subscriber
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if ch, exists := eb.subscribers[id]; exists {
		close(ch)
		delete(eb.subscribers, id)
	}
}

// Publish sends an event to all subscribers without blocking
func (eb *EventBus) Publish(eventType EventType, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	event := Event{
		Type: eventType,
		Data: data,
	}

	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Skip subscribers with a full channel
		}
	}
}

// PublishOrderCreated publishes an order created event
func (eb *EventBus) PublishOrderCreated(order interface{}) {
	eb.Publish(EventOrderCreated, order)
}

// PublishOrderStatusChanged publishes an order status change event
func (eb *EventBus) PublishOrderStatusChanged(orderID, status string) {
	eb.Publish(EventOrderStatusChanged, map[string]string{
		"order_id": orderID,
		"status":   status,
	})
}

// PublishPeriodActivated publishes a period activation event
func (eb *EventBus) PublishPeriodActivated(periodID, name string) {
	eb.Publish(EventPeriodActivated, map[string]string{
		"period_id": periodID,
		"name":      name,
	})
}

// FormatSSE formats an event as a Server-Sent Event string
func FormatSSE(event Event) (string, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return "", err
	}

	return "event: " + string(event.Type) + "\ndata: " + string(data) + "\n\n", nil
}
