package entities

import "time"

// DormancyRecord is the immutable audit trail of one confiscation event
type DormancyRecord struct {
	ID                  int64     `db:"id"`
	CustomerID          int64     `db:"customer_id"`
	ConfiscatedGeneral  int64     `db:"confiscated_general"`
	ConfiscatedBetting  int64     `db:"confiscated_betting"`
	Reason              string    `db:"reason"`
	PerformedBy         int64     `db:"performed_by"`
	GeneralEntryID      *int64    `db:"general_entry_id"`
	BettingEntryID      *int64    `db:"betting_entry_id"`
	CreatedAt           time.Time `db:"created_at"`
}

// TotalConfiscated returns the combined points taken in this event
func (r *DormancyRecord) TotalConfiscated() int64 {
	return r.ConfiscatedGeneral + r.ConfiscatedBetting
}

// ConfiscationOutcome is the per-customer result of a confiscation batch
type ConfiscationOutcome struct {
	CustomerID int64
	Record     *DormancyRecord
	Err        string
}

// ConfiscationReport aggregates the outcomes of one confiscation batch.
// A single customer's failure never aborts the batch.
type ConfiscationReport struct {
	Outcomes     []ConfiscationOutcome
	SuccessCount int
	FailCount    int
}

// DormancyStats summarizes the dormant account listing
type DormancyStats struct {
	TotalDormant   int
	TotalBalance   int64
	AverageBalance int64
}
