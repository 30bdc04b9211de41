package events

import (
	"context"
	"testing"
)

func TestMemoryBusDeliversPerStream(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	var got []string
	_ = bus.Subscribe(ctx, StreamGeneration, func(e Event) { got = append(got, e.Type) })
	_ = bus.Subscribe(ctx, "events:other", func(e Event) { t.Errorf("unexpected delivery: %v", e) })

	_ = bus.Publish(ctx, StreamGeneration, Event{Type: EventPlatformGenerated})
	_ = bus.Publish(ctx, StreamGeneration, Event{Type: EventGenerationCompleted})

	if len(got) != 2 || got[0] != EventPlatformGenerated || got[1] != EventGenerationCompleted {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), StreamGeneration, Event{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
