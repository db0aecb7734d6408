package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
)

// CustomerRepository defines the interface for customer data access.
// ApplyDelta is the single balance mutation primitive in the system; every
// balance change flows through it via the ledger's approval paths.
type CustomerRepository interface {
	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id int64) (*entities.Customer, error)

	// Create creates a new customer with zero balances
	Create(ctx context.Context, memberNumber, name string) (*entities.Customer, error)

	// GetBalances returns the customer's general and betting balances
	GetBalances(ctx context.Context, id int64) (general int64, betting int64, err error)

	// ApplyDelta atomically adds delta to one balance and returns the new
	// value. Fails with InsufficientBalanceError if the result would be
	// negative, leaving the balance untouched. Also refreshes the
	// customer's last-activity timestamp.
	ApplyDelta(ctx context.Context, id int64, category entities.PointCategory, delta int64) (int64, error)

	// GetDormant returns customers with no activity since cutoff and a
	// positive balance, oldest activity first
	GetDormant(ctx context.Context, cutoff time.Time) ([]*entities.Customer, error)
}

// LedgerRepository defines the interface for ledger entry data access.
// State transitions are conditional updates so a racing duplicate call
// observes zero affected rows instead of clobbering the first.
type LedgerRepository interface {
	// Create persists a new entry in the pending state
	Create(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByID retrieves an entry by ID
	GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error)

	// MarkApproved transitions pending -> approved, recording the approver.
	// Fails with AlreadyProcessedError if the entry is not pending.
	MarkApproved(ctx context.Context, id int64, approvedBy int64) error

	// MarkRejected transitions pending -> rejected.
	// Fails with AlreadyProcessedError if the entry is not pending.
	MarkRejected(ctx context.Context, id int64, rejectedBy int64) error

	// MarkReversed transitions approved -> reversed.
	// Fails with NotApprovedError if the entry is not approved.
	MarkReversed(ctx context.Context, id int64) error

	// GetByCustomer returns a customer's entries, newest first
	GetByCustomer(ctx context.Context, customerID int64, limit int) ([]*entities.LedgerEntry, error)

	// SumApprovedByKind returns the total absolute amount and count of
	// approved entries of the given kind created within [from, to)
	SumApprovedByKind(ctx context.Context, kind entities.EntryKind, from, to time.Time) (total int64, count int, err error)
}

// LineItemRepository defines the interface for betting line item data access
type LineItemRepository interface {
	// Create persists a new line item in the pending status
	Create(ctx context.Context, item *entities.BettingLineItem) error

	// GetByID retrieves a line item by ID
	GetByID(ctx context.Context, id int64) (*entities.BettingLineItem, error)

	// GetByTicket returns all line items on a ticket
	GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BettingLineItem, error)

	// GetOpenByMatch returns the match's line items still awaiting settlement
	GetOpenByMatch(ctx context.Context, matchID int64) ([]*entities.BettingLineItem, error)

	// CountByMatch returns how many line items reference the match at all
	CountByMatch(ctx context.Context, matchID int64) (int, error)

	// UpdateOdds stores quoted odds and the recomputed potential payout
	UpdateOdds(ctx context.Context, id int64, odds decimal.Decimal, potentialPayout int64) error

	// MarkSettled stamps the item with its settlement status
	MarkSettled(ctx context.Context, id int64, status entities.LineItemStatus) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// Create persists a new scheduled match
	Create(ctx context.Context, match *entities.Match) error

	// GetByID retrieves a match by ID
	GetByID(ctx context.Context, id int64) (*entities.Match, error)

	// Update updates a match's odds and lifecycle flags
	Update(ctx context.Context, match *entities.Match) error

	// MarkSettled stamps the match finished with its result and settler
	MarkSettled(ctx context.Context, id int64, result entities.MatchOutcome, settledBy int64) error
}

// DormancyRecordRepository defines the interface for confiscation audit records
type DormancyRecordRepository interface {
	// Create persists an immutable confiscation record
	Create(ctx context.Context, record *entities.DormancyRecord) error

	// GetByCustomer returns a customer's confiscation history, newest first
	GetByCustomer(ctx context.Context, customerID int64) ([]*entities.DormancyRecord, error)
}

// SettlementReportRepository defines the interface for monthly report storage
type SettlementReportRepository interface {
	// Create persists a monthly report
	Create(ctx context.Context, report *entities.SettlementReport) error

	// GetByMonth returns the report for a month, nil if none calculated yet
	GetByMonth(ctx context.Context, year, month int) (*entities.SettlementReport, error)
}

// EventPublisher defines the interface for publishing audit events
type EventPublisher interface {
	Publish(event events.Event) error
}
