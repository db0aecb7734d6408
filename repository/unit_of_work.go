package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pointsdesk/database"
	"pointsdesk/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface. All repositories it hands
// out share one pgx transaction; events go through the transactional
// publisher and only reach subscribers after a successful commit.
type unitOfWork struct {
	db           *database.DB
	tx           pgx.Tx
	ctx          context.Context
	publisher    interfaces.TransactionalEventPublisher
	customerRepo interfaces.CustomerRepository
	ledgerRepo   interfaces.LedgerRepository
	itemRepo     interfaces.LineItemRepository
	matchRepo    interfaces.MatchRepository
	dormancyRepo interfaces.DormancyRecordRepository
	reportRepo   interfaces.SettlementReportRepository
}

type unitOfWorkFactory struct {
	db           *database.DB
	newPublisher func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a UnitOfWork factory. newPublisher is called
// once per unit of work so each transaction buffers its own events.
func NewUnitOfWorkFactory(db *database.DB, newPublisher func() interfaces.TransactionalEventPublisher) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:           db,
		newPublisher: newPublisher,
	}
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: f.newPublisher(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.customerRepo = newCustomerRepository(tx)
	u.ledgerRepo = newLedgerRepository(tx)
	u.itemRepo = newLineItemRepository(tx)
	u.matchRepo = newMatchRepository(tx)
	u.dormancyRepo = newDormancyRecordRepository(tx)
	u.reportRepo = newSettlementReportRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events are best-effort once the transaction has committed.
	_ = u.publisher.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.publisher.Discard()

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) CustomerRepository() interfaces.CustomerRepository {
	return u.customerRepo
}

func (u *unitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return u.ledgerRepo
}

func (u *unitOfWork) LineItemRepository() interfaces.LineItemRepository {
	return u.itemRepo
}

func (u *unitOfWork) MatchRepository() interfaces.MatchRepository {
	return u.matchRepo
}

func (u *unitOfWork) DormancyRecordRepository() interfaces.DormancyRecordRepository {
	return u.dormancyRepo
}

func (u *unitOfWork) SettlementReportRepository() interfaces.SettlementReportRepository {
	return u.reportRepo
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}
