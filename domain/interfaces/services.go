package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"pointsdesk/domain/entities"
)

// LedgerService governs the lifecycle of point movements
type LedgerService interface {
	// CreateEntry normalizes the amount's sign from the kind and persists
	// a pending entry
	CreateEntry(ctx context.Context, customerID int64, amount int64, category entities.PointCategory, kind entities.EntryKind, reason string, originTicketID *int64, requestedBy int64) (*entities.LedgerEntry, error)

	// Approve applies a pending entry to its balance and records the
	// approver. The balance write and the state transition happen in one
	// logical unit; on InsufficientBalanceError the entry stays pending.
	Approve(ctx context.Context, entryID int64, approvedBy int64) error

	// Reject declines a pending entry without touching any balance
	Reject(ctx context.Context, entryID int64, rejectedBy int64) error

	// Reverse creates and approves a negated copy of an approved entry and
	// marks the original reversed
	Reverse(ctx context.Context, entryID int64, reason string, operatorID int64) (*entities.LedgerEntry, error)
}

// BettingService handles bet intake and match lifecycle
type BettingService interface {
	// PlaceBet creates a line item plus its paired pending stake debit
	PlaceBet(ctx context.Context, ticketID, customerID, matchID int64, choice entities.MatchOutcome, stake int64, placedBy int64) (*entities.BettingLineItem, error)

	// SetOdds quotes odds for a line item through the odds policy and
	// recomputes its potential payout
	SetOdds(ctx context.Context, itemID int64, rawOdds decimal.Decimal, setBy int64) (*entities.BettingLineItem, error)

	// CloseBetting stops further bets on a match
	CloseBetting(ctx context.Context, matchID int64) error

	// VerifyMatch confirms a finished match's result ahead of settlement
	VerifyMatch(ctx context.Context, matchID int64, verifiedBy int64) error
}

// SettlementService resolves all open bets on a finished match
type SettlementService interface {
	// Settle runs one settlement pass. Idempotent at the match level:
	// retrying a fully settled match returns an empty summary.
	Settle(ctx context.Context, matchID int64, result entities.MatchOutcome, settledBy int64) (*entities.SettlementSummary, error)
}

// DormancyService finds and confiscates dormant balances
type DormancyService interface {
	// FindDormant lists customers inactive beyond the threshold with a
	// positive balance
	FindDormant(ctx context.Context, thresholdMonths int) ([]*entities.Customer, *entities.DormancyStats, error)

	// Confiscate zeroes one customer's balances through the ledger and
	// writes a DormancyRecord
	Confiscate(ctx context.Context, customerID int64, reason string, operatorID int64) (*entities.DormancyRecord, error)
}

// ReportService produces monthly settlement reports
type ReportService interface {
	// Calculate computes and persists the report for a month, at most once
	Calculate(ctx context.Context, year, month int, calculatedBy int64) (*entities.SettlementReport, error)
}

// OddsPolicy adjusts raw provider odds before they are offered. The margin
// lives here so settlement math stays independent of the house edge.
type OddsPolicy interface {
	AdjustOdds(raw decimal.Decimal) decimal.Decimal
}
