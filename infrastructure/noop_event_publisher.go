package infrastructure

import (
	"pointsdesk/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing. Useful for
// tests and one-off admin tooling where audit events should not flow.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
