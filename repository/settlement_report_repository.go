package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// SettlementReportRepository implements the SettlementReportRepository interface
type SettlementReportRepository struct {
	q Queryable
}

// NewSettlementReportRepository creates a new settlement report repository
func NewSettlementReportRepository(db *database.DB) *SettlementReportRepository {
	return &SettlementReportRepository{q: db.Pool}
}

// newSettlementReportRepository creates a settlement report repository bound to a transaction
func newSettlementReportRepository(tx Queryable) *SettlementReportRepository {
	return &SettlementReportRepository{q: tx}
}

// Create persists a monthly report. The unique (year, month) constraint
// backs up the service-level duplicate check.
func (r *SettlementReportRepository) Create(ctx context.Context, report *entities.SettlementReport) error {
	query := `
		INSERT INTO settlement_reports (year, month, revenue, refunds, net_revenue, charge_count, refund_count, calculated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		report.Year,
		report.Month,
		report.Revenue,
		report.Refunds,
		report.NetRevenue,
		report.ChargeCount,
		report.RefundCount,
		report.CalculatedBy,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create settlement report: %w", err)
	}
	return nil
}

// GetByMonth returns the report for a month, nil if none calculated yet
func (r *SettlementReportRepository) GetByMonth(ctx context.Context, year, month int) (*entities.SettlementReport, error) {
	query := `
		SELECT id, year, month, revenue, refunds, net_revenue, charge_count, refund_count, calculated_by, created_at
		FROM settlement_reports
		WHERE year = $1 AND month = $2`

	var report entities.SettlementReport
	err := r.q.QueryRow(ctx, query, year, month).Scan(
		&report.ID,
		&report.Year,
		&report.Month,
		&report.Revenue,
		&report.Refunds,
		&report.NetRevenue,
		&report.ChargeCount,
		&report.RefundCount,
		&report.CalculatedBy,
		&report.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement report: %w", err)
	}
	return &report, nil
}
