package events_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/primecut-foods/butchery-api/internal/events"
)

func TestSubscriberOutlivesItsCreator(t *testing.T) {
	bus := events.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The subscription is created by a function that has long returned
	// by the time anything is published, like a streaming response body
	// whose writer runs after its handler. The channel must still be
	// open and deliverable.
	subscribe := func() <-chan events.Event {
		return bus.Subscribe(ctx, "dashboard-1")
	}
	ch := subscribe()

	bus.PublishOrderCreated(map[string]string{"id": "ord-1"})

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed before any event was delivered")
		}
		if event.Type != events.EventOrderCreated {
			t.Fatalf("event type = %q, want %q", event.Type, events.EventOrderCreated)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestCancelledSubscriptionClosesChannel(t *testing.T) {
	bus := events.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch := bus.Subscribe(ctx, "dashboard-2")
	cancel()

	// Unsubscribe runs on a goroutine watching the context
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel still open after context cancellation")
		}
	}
}

func TestPublishSkipsFullSubscriber(t *testing.T) {
	bus := events.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus.Subscribe(ctx, "slow-consumer")

	// More events than the subscriber buffer holds; Publish must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			bus.PublishOrderStatusChanged("ord-1", "Delivered")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
}

func TestFormatSSE(t *testing.T) {
	out, err := events.FormatSSE(events.Event{
		Type: events.EventPeriodActivated,
		Data: map[string]string{"period_id": "per-1"},
	})
	if err != nil {
		t.Fatalf("FormatSSE: %v", err)
	}
	if !strings.HasPrefix(out, "event: period_activated\n") {
		t.Fatalf("unexpected SSE framing: %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Fatalf("SSE message not terminated with blank line: %q", out)
	}
}
