package services

import (
	"context"
	"fmt"
	"time"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
)

type reportService struct {
	ledgerRepo interfaces.LedgerRepository
	reportRepo interfaces.SettlementReportRepository
}

func NewReportService(ledgerRepo interfaces.LedgerRepository, reportRepo interfaces.SettlementReportRepository) interfaces.ReportService {
	return &reportService{
		ledgerRepo: ledgerRepo,
		reportRepo: reportRepo,
	}
}

// Calculate totals the month's approved charges and refunds and persists
// the resulting report. A month is calculated at most once; a repeat call
// fails without touching the stored report.
func (s *reportService) Calculate(ctx context.Context, year, month int, calculatedBy int64) (*entities.SettlementReport, error) {
	if month < 1 || month > 12 {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("invalid month: %d", month)}
	}
	if year < 2000 {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("invalid year: %d", year)}
	}

	existing, err := s.reportRepo.GetByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}
	if existing != nil {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("settlement report for %04d-%02d already calculated", year, month)}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	revenue, chargeCount, err := s.ledgerRepo.SumApprovedByKind(ctx, entities.KindCharge, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum charges: %w", err)
	}
	refunds, refundCount, err := s.ledgerRepo.SumApprovedByKind(ctx, entities.KindRefund, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum refunds: %w", err)
	}

	report := &entities.SettlementReport{
		Year:         year,
		Month:        month,
		Revenue:      revenue,
		Refunds:      refunds,
		NetRevenue:   revenue - refunds,
		ChargeCount:  chargeCount,
		RefundCount:  refundCount,
		CalculatedBy: calculatedBy,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create settlement report: %w", err)
	}
	return report, nil
}
