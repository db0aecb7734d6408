package services

import (
	"context"
	"fmt"
	"time"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
	"pointsdesk/domain/interfaces"
)

type dormancyService struct {
	customerRepo   interfaces.CustomerRepository
	ledgerRepo     interfaces.LedgerRepository
	dormancyRepo   interfaces.DormancyRecordRepository
	eventPublisher interfaces.EventPublisher
}

func NewDormancyService(
	customerRepo interfaces.CustomerRepository,
	ledgerRepo interfaces.LedgerRepository,
	dormancyRepo interfaces.DormancyRecordRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.DormancyService {
	return &dormancyService{
		customerRepo:   customerRepo,
		ledgerRepo:     ledgerRepo,
		dormancyRepo:   dormancyRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *dormancyService) FindDormant(ctx context.Context, thresholdMonths int) ([]*entities.Customer, *entities.DormancyStats, error) {
	if thresholdMonths <= 0 {
		return nil, nil, &entities.ValidationError{Msg: "dormancy threshold must be positive"}
	}

	cutoff := time.Now().UTC().AddDate(0, -thresholdMonths, 0)
	customers, err := s.customerRepo.GetDormant(ctx, cutoff)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list dormant customers: %w", err)
	}

	stats := &entities.DormancyStats{TotalDormant: len(customers)}
	for _, c := range customers {
		stats.TotalBalance += c.GeneralBalance + c.BettingBalance
	}
	if stats.TotalDormant > 0 {
		stats.AverageBalance = stats.TotalBalance / int64(stats.TotalDormant)
	}
	return customers, stats, nil
}

// Confiscate zeroes the customer's balances through ordinary ledger entries
// so the confiscation shows up in the same audit trail as every other
// movement. Both entries and the dormancy record commit together.
func (s *dormancyService) Confiscate(ctx context.Context, customerID int64, reason string, operatorID int64) (*entities.DormancyRecord, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, &entities.NotFoundError{Entity: "customer", ID: customerID}
	}
	if !customer.HasPositiveBalance() {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("customer %d has no points to confiscate", customerID)}
	}

	record := &entities.DormancyRecord{
		CustomerID:  customerID,
		Reason:      reason,
		PerformedBy: operatorID,
	}

	if customer.GeneralBalance > 0 {
		entryID, err := s.confiscateBalance(ctx, customer, entities.CategoryGeneral, customer.GeneralBalance, reason, operatorID)
		if err != nil {
			return nil, err
		}
		record.ConfiscatedGeneral = customer.GeneralBalance
		record.GeneralEntryID = &entryID
	}
	if customer.BettingBalance > 0 {
		entryID, err := s.confiscateBalance(ctx, customer, entities.CategoryBetting, customer.BettingBalance, reason, operatorID)
		if err != nil {
			return nil, err
		}
		record.ConfiscatedBetting = customer.BettingBalance
		record.BettingEntryID = &entryID
	}

	if err := s.dormancyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create dormancy record: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PointsConfiscatedEvent{
		CustomerID:         customerID,
		ConfiscatedGeneral: record.ConfiscatedGeneral,
		ConfiscatedBetting: record.ConfiscatedBetting,
		Reason:             reason,
		PerformedBy:        operatorID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish confiscation event: %w", err)
	}

	return record, nil
}

func (s *dormancyService) confiscateBalance(ctx context.Context, customer *entities.Customer, category entities.PointCategory, balance int64, reason string, operatorID int64) (int64, error) {
	entry := &entities.LedgerEntry{
		CustomerID:  customer.ID,
		Amount:      entities.NormalizeAmount(balance, entities.KindUse),
		Category:    category,
		Kind:        entities.KindUse,
		State:       entities.EntryStatePending,
		Reason:      reason,
		RequestedBy: operatorID,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to create confiscation entry: %w", err)
	}
	if _, err := s.customerRepo.ApplyDelta(ctx, customer.ID, category, entry.Amount); err != nil {
		return 0, err
	}
	if err := s.ledgerRepo.MarkApproved(ctx, entry.ID, operatorID); err != nil {
		return 0, err
	}
	return entry.ID, nil
}
