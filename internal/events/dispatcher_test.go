package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventUserCreated, func(ctx context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	dispatcher.Subscribe(EventUserDeleted, func(ctx context.Context, event Event) error {
		t.Error("handler for a different event type must not fire")
		return nil
	})

	event := Event{ID: "e1", Type: EventUserCreated, UserID: "u1", Timestamp: time.Now()}
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(received) != 1 || received[0].ID != "e1" {
		t.Fatalf("received %v", received)
	}
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondFired bool
	dispatcher.Subscribe(EventUserUpdated, func(ctx context.Context, event Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventUserUpdated, func(ctx context.Context, event Event) error {
		secondFired = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventUserUpdated}); err != nil {
		t.Fatalf("Publish must not surface handler errors: %v", err)
	}
	if !secondFired {
		t.Error("second handler must run despite the first failing")
	}
}
