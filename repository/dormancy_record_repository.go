package repository

import (
	"context"
	"fmt"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// DormancyRecordRepository implements the DormancyRecordRepository interface
type DormancyRecordRepository struct {
	q Queryable
}

// NewDormancyRecordRepository creates a new dormancy record repository
func NewDormancyRecordRepository(db *database.DB) *DormancyRecordRepository {
	return &DormancyRecordRepository{q: db.Pool}
}

// newDormancyRecordRepository creates a dormancy record repository bound to a transaction
func newDormancyRecordRepository(tx Queryable) *DormancyRecordRepository {
	return &DormancyRecordRepository{q: tx}
}

// Create persists an immutable confiscation record
func (r *DormancyRecordRepository) Create(ctx context.Context, record *entities.DormancyRecord) error {
	query := `
		INSERT INTO dormancy_records (customer_id, confiscated_general, confiscated_betting, reason, performed_by, general_entry_id, betting_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		record.CustomerID,
		record.ConfiscatedGeneral,
		record.ConfiscatedBetting,
		record.Reason,
		record.PerformedBy,
		record.GeneralEntryID,
		record.BettingEntryID,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dormancy record: %w", err)
	}
	return nil
}

// GetByCustomer returns a customer's confiscation history, newest first
func (r *DormancyRecordRepository) GetByCustomer(ctx context.Context, customerID int64) ([]*entities.DormancyRecord, error) {
	query := `
		SELECT id, customer_id, confiscated_general, confiscated_betting, reason, performed_by, general_entry_id, betting_entry_id, created_at
		FROM dormancy_records
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dormancy records: %w", err)
	}
	defer rows.Close()

	var records []*entities.DormancyRecord
	for rows.Next() {
		var rec entities.DormancyRecord
		err := rows.Scan(
			&rec.ID,
			&rec.CustomerID,
			&rec.ConfiscatedGeneral,
			&rec.ConfiscatedBetting,
			&rec.Reason,
			&rec.PerformedBy,
			&rec.GeneralEntryID,
			&rec.BettingEntryID,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dormancy record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
