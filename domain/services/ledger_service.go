package services

import (
	"context"
	"fmt"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
	"pointsdesk/domain/interfaces"
)

type ledgerService struct {
	customerRepo   interfaces.CustomerRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service. The repositories must be
// scoped to a single unit of work so the balance write and the entry state
// transition commit or roll back together.
func NewLedgerService(customerRepo interfaces.CustomerRepository, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher) interfaces.LedgerService {
	return &ledgerService{
		customerRepo:   customerRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *ledgerService) CreateEntry(ctx context.Context, customerID int64, amount int64, category entities.PointCategory, kind entities.EntryKind, reason string, originTicketID *int64, requestedBy int64) (*entities.LedgerEntry, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, &entities.NotFoundError{Entity: "customer", ID: customerID}
	}

	entry := &entities.LedgerEntry{
		CustomerID:     customerID,
		Amount:         entities.NormalizeAmount(amount, kind),
		Category:       category,
		Kind:           kind,
		State:          entities.EntryStatePending,
		Reason:         reason,
		OriginTicketID: originTicketID,
		RequestedBy:    requestedBy,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return entry, nil
}

func (s *ledgerService) Approve(ctx context.Context, entryID int64, approvedBy int64) error {
	entry, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to get ledger entry: %w", err)
	}
	if entry == nil {
		return &entities.NotFoundError{Entity: "ledger entry", ID: entryID}
	}
	if !entry.IsPending() {
		return &entities.AlreadyProcessedError{EntryID: entryID, State: entry.State}
	}

	general, betting, err := s.customerRepo.GetBalances(ctx, entry.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to get balances: %w", err)
	}
	balanceBefore := general
	if entry.Category == entities.CategoryBetting {
		balanceBefore = betting
	}

	// The delta is applied with a guarded update so the non-negative check
	// and the write are a single atomic statement. On failure the entry
	// stays pending and nothing has changed.
	newBalance, err := s.customerRepo.ApplyDelta(ctx, entry.CustomerID, entry.Category, entry.Amount)
	if err != nil {
		return err
	}

	if err := s.ledgerRepo.MarkApproved(ctx, entryID, approvedBy); err != nil {
		return err
	}

	if err := s.eventPublisher.Publish(events.EntryApprovedEvent{
		EntryID:       entryID,
		CustomerID:    entry.CustomerID,
		Category:      entry.Category,
		Amount:        entry.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  newBalance,
		ApprovedBy:    approvedBy,
	}); err != nil {
		return fmt.Errorf("failed to publish approval event: %w", err)
	}

	return nil
}

func (s *ledgerService) Reject(ctx context.Context, entryID int64, rejectedBy int64) error {
	entry, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to get ledger entry: %w", err)
	}
	if entry == nil {
		return &entities.NotFoundError{Entity: "ledger entry", ID: entryID}
	}
	if !entry.IsPending() {
		return &entities.AlreadyProcessedError{EntryID: entryID, State: entry.State}
	}

	if err := s.ledgerRepo.MarkRejected(ctx, entryID, rejectedBy); err != nil {
		return err
	}

	if err := s.eventPublisher.Publish(events.EntryRejectedEvent{
		EntryID:    entryID,
		CustomerID: entry.CustomerID,
		RejectedBy: rejectedBy,
	}); err != nil {
		return fmt.Errorf("failed to publish rejection event: %w", err)
	}

	return nil
}

func (s *ledgerService) Reverse(ctx context.Context, entryID int64, reason string, operatorID int64) (*entities.LedgerEntry, error) {
	original, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	if original == nil {
		return nil, &entities.NotFoundError{Entity: "ledger entry", ID: entryID}
	}
	if !original.IsApproved() {
		return nil, &entities.NotApprovedError{EntryID: entryID, State: original.State}
	}

	reversal := &entities.LedgerEntry{
		CustomerID:     original.CustomerID,
		Amount:         -original.Amount,
		Category:       original.Category,
		Kind:           reversalKind(original),
		State:          entities.EntryStatePending,
		Reason:         reason,
		OriginTicketID: original.OriginTicketID,
		RequestedBy:    operatorID,
		ReversalOfID:   &original.ID,
	}
	if err := s.ledgerRepo.Create(ctx, reversal); err != nil {
		return nil, fmt.Errorf("failed to create reversal entry: %w", err)
	}

	// If the reversal would drive the balance negative the error propagates
	// and the enclosing transaction rolls the reversal row back, leaving
	// the original untouched for manual intervention.
	if _, err := s.customerRepo.ApplyDelta(ctx, original.CustomerID, original.Category, reversal.Amount); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.MarkApproved(ctx, reversal.ID, operatorID); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.MarkReversed(ctx, original.ID); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.EntryReversedEvent{
		OriginalEntryID: original.ID,
		ReversalEntryID: reversal.ID,
		CustomerID:      original.CustomerID,
		Amount:          reversal.Amount,
		ReversedBy:      operatorID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish reversal event: %w", err)
	}

	reversal.State = entities.EntryStateApproved
	reversal.ApprovedBy = &operatorID
	return reversal, nil
}

// reversalKind picks the entry kind whose sign rule matches a negated copy
// of the original: reversing a credit debits the balance and vice versa.
func reversalKind(original *entities.LedgerEntry) entities.EntryKind {
	if original.IsCredit() {
		return entities.KindUse
	}
	return entities.KindRefund
}
