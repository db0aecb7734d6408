package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
)

// ConfiscationBatch confiscates dormant balances for a set of customers.
// Each customer gets their own transaction; one failure is recorded and the
// batch moves on.
type ConfiscationBatch struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func NewConfiscationBatch(uowFactory interfaces.UnitOfWorkFactory) *ConfiscationBatch {
	return &ConfiscationBatch{uowFactory: uowFactory}
}

func (b *ConfiscationBatch) Run(ctx context.Context, customerIDs []int64, reason string, operatorID int64) *entities.ConfiscationReport {
	report := &entities.ConfiscationReport{}

	for _, customerID := range customerIDs {
		outcome := entities.ConfiscationOutcome{CustomerID: customerID}

		record, err := b.confiscateOne(ctx, customerID, reason, operatorID)
		if err != nil {
			log.WithFields(log.Fields{
				"customer_id": customerID,
			}).Errorf("Failed to confiscate dormant balance: %v", err)
			outcome.Err = err.Error()
			report.FailCount++
		} else {
			outcome.Record = record
			report.SuccessCount++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	log.WithFields(log.Fields{
		"total":      len(customerIDs),
		"successful": report.SuccessCount,
		"failed":     report.FailCount,
	}).Info("Completed confiscation batch")

	return report
}

func (b *ConfiscationBatch) confiscateOne(ctx context.Context, customerID int64, reason string, operatorID int64) (*entities.DormancyRecord, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewDormancyService(
		uow.CustomerRepository(),
		uow.LedgerRepository(),
		uow.DormancyRecordRepository(),
		uow.EventBus(),
	)
	record, err := svc.Confiscate(ctx, customerID, reason, operatorID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confiscation: %w", err)
	}
	return record, nil
}
