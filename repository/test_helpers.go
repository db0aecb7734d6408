package repository

import (
	"context"

	"pointsdesk/database"
	"pointsdesk/domain/events"
	"pointsdesk/domain/interfaces"
)

// recordingPublisher is a transactional publisher for tests. It keeps the
// buffer/flush/discard mechanics and records what would have been published.
type recordingPublisher struct {
	pending   []events.Event
	Flushed   []events.Event
	Discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.Flushed = append(p.Flushed, p.pending...)
	p.pending = p.pending[:0]
	return nil
}

func (p *recordingPublisher) Discard() {
	p.Discarded += len(p.pending)
	p.pending = p.pending[:0]
}

// NewTestUnitOfWorkFactory creates a unit of work factory for tests with a
// fresh recording publisher per unit of work
func NewTestUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return &recordingPublisher{}
	})
}
