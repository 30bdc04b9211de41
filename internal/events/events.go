package events

import "context"

// StreamGeneration carries progress of generation runs.
const StreamGeneration = "events:generation"

// Event types
const (
	EventPlatformGenerated   = "platform_generated"
	EventPlatformFailed      = "platform_failed"
	EventGenerationCompleted = "generation_completed"
)

type Event struct {
	Type    string         `json:"type"`
	Subject string         `json:"subject,omitempty"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
