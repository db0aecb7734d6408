package interfaces

import "context"

// UnitOfWork defines the interface for transactional repository operations.
// All repositories obtained from one unit of work share a single database
// transaction; audit events published through EventBus are buffered and
// flushed only after a successful commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	CustomerRepository() CustomerRepository
	LedgerRepository() LedgerRepository
	LineItemRepository() LineItemRepository
	MatchRepository() MatchRepository
	DormancyRecordRepository() DormancyRecordRepository
	SettlementReportRepository() SettlementReportRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransactionalEventPublisher buffers events until the owning transaction
// resolves: Flush after commit, Discard after rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
