package infrastructure

import (
	"pointsdesk/database"
	"pointsdesk/domain/interfaces"
	"pointsdesk/repository"
)

// NewUnitOfWorkFactory wires the repository unit of work factory with a
// transactional publisher per unit of work, so audit events ride along with
// the transaction that produced them.
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) interfaces.UnitOfWorkFactory {
	return repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return NewTransactionalPublisher(eventPublisher)
	})
}
