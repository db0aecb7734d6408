package entities

import "time"

// SettlementItemResult records what happened to a single line item during a
// settlement pass
type SettlementItemResult struct {
	ItemID     int64
	CustomerID int64
	Status     LineItemStatus
	Stake      int64
	Payout     int64
	Err        string
}

// Failed returns true if the item could not be settled
func (r SettlementItemResult) Failed() bool {
	return r.Err != ""
}

// SettlementSummary aggregates one settlement pass over a match. Items are
// committed independently; Failed and Skipped report the items that did not
// settle, distinct from those that did.
type SettlementSummary struct {
	MatchID     int64
	Result      MatchOutcome
	TotalStake  int64
	TotalPayout int64
	Profit      int64
	WinCount    int
	LoseCount   int
	Items       []SettlementItemResult
	Skipped     []int64
	Failed      []SettlementItemResult
}

// Empty returns true when the pass found nothing to settle, which is the
// no-op result of retrying an already-settled match
func (s *SettlementSummary) Empty() bool {
	return len(s.Items) == 0 && len(s.Skipped) == 0 && len(s.Failed) == 0
}

// SettlementReport is the persisted monthly revenue report: approved charges
// minus approved refunds for the month. Calculated at most once per month.
type SettlementReport struct {
	ID           int64     `db:"id"`
	Year         int       `db:"year"`
	Month        int       `db:"month"`
	Revenue      int64     `db:"revenue"`
	Refunds      int64     `db:"refunds"`
	NetRevenue   int64     `db:"net_revenue"`
	ChargeCount  int       `db:"charge_count"`
	RefundCount  int       `db:"refund_count"`
	CalculatedBy int64     `db:"calculated_by"`
	CreatedAt    time.Time `db:"created_at"`
}
