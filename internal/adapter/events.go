package adapter

import "time"

// Event names published by the adapter.
const (
	EventLoadStart     = "load_start"
	EventLoadReady     = "load_ready"
	EventLoadFailed    = "load_failed"
	EventGenerateStart = "generate_start"
	EventGenerateDone  = "generate_done"
	EventFallback      = "fallback"
	EventSchemaSkip    = "schema_skip"
)

// Event represents an adapter lifecycle event.
// CallID is set for generation events only.
type Event struct {
	Name   string
	CallID string
	Time   time.Time
	Fields map[string]any
}

// EventPublisher receives events from the adapter. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans an event out to several publishers in order.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}
