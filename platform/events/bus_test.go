package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"videosummary_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncDeliversToAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var mu sync.Mutex
	var received []string

	for _, id := range []string{"first", "second"} {
		id := id
		bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, id)
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"}); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if len(received) != 2 {
		t.Errorf("handlers invoked = %d, want 2", len(received))
	}
}

func TestPublishSyncReturnsHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	wantErr := errors.New("handler failed")
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		return wantErr
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	if !errors.Is(err, wantErr) {
		t.Errorf("PublishSync() error = %v, want %v", err, wantErr)
	}
}

func TestPublishIgnoresEventsWithoutSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	// must not panic or block
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "nobody.listens"})
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, event Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}
