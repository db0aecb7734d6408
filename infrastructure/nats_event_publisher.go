package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"pointsdesk/domain/events"
)

const auditStreamName = "pointsdesk_audit"

// eventEnvelope is the wire format wrapping every published audit event
type eventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// subjectFor maps an event type to its NATS subject
func subjectFor(eventType events.EventType) string {
	return "pointsdesk.audit." + string(eventType)
}

// allSubjects returns every subject the audit stream must cover
func allSubjects() []string {
	return []string{"pointsdesk.audit.>"}
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	natsClient *NATSClient
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient) *NATSEventPublisher {
	return &NATSEventPublisher{natsClient: natsClient}
}

// Publish wraps the event in an envelope and sends it to the audit stream
func (p *NATSEventPublisher) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := eventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "pointsdesk",
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := subjectFor(event.Type())
	if err := p.natsClient.Publish(context.Background(), subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published audit event")

	return nil
}

// EnsureAuditStream ensures the audit stream exists with the correct subjects
func (p *NATSEventPublisher) EnsureAuditStream() error {
	return p.natsClient.EnsureStream(auditStreamName, allSubjects())
}
