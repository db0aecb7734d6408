package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemStatus represents the settlement status of a betting line item
type LineItemStatus string

const (
	LineItemPending  LineItemStatus = "pending"
	LineItemWon      LineItemStatus = "won"
	LineItemLost     LineItemStatus = "lost"
	LineItemRefunded LineItemStatus = "refunded"
)

func (s LineItemStatus) String() string {
	return string(s)
}

// BettingLineItem is one leg of a customer's bet ticket. It is created
// together with a paired pending ledger entry debiting the betting balance
// by the stake amount.
type BettingLineItem struct {
	ID              int64            `db:"id"`
	TicketID        int64            `db:"ticket_id"`
	Reference       string           `db:"reference"`
	CustomerID      int64            `db:"customer_id"`
	MatchID         int64            `db:"match_id"`
	Choice          MatchOutcome     `db:"choice"`
	StakeAmount     int64            `db:"stake_amount"`
	Odds            *decimal.Decimal `db:"odds"`
	PotentialPayout int64            `db:"potential_payout"`
	Status          LineItemStatus   `db:"status"`
	StakeEntryID    *int64           `db:"stake_entry_id"`
	SettledAt       *time.Time       `db:"settled_at"`
	CreatedAt       time.Time        `db:"created_at"`
}

// IsOpen returns true while the item still awaits settlement
func (i *BettingLineItem) IsOpen() bool {
	return i.Status == LineItemPending
}

// HasOdds returns true once a manager has quoted odds for the item
func (i *BettingLineItem) HasOdds() bool {
	return i.Odds != nil
}

// PayoutFor computes floor(stake * odds) for the item's stored odds.
// Returns 0 when no odds are set.
func (i *BettingLineItem) PayoutFor() int64 {
	if i.Odds == nil {
		return 0
	}
	return ComputePayout(i.StakeAmount, *i.Odds)
}

// RecomputePotentialPayout refreshes the cached payout after an odds change
func (i *BettingLineItem) RecomputePotentialPayout() {
	i.PotentialPayout = i.PayoutFor()
}

// Validate performs basic validation on the line item
func (i *BettingLineItem) Validate() error {
	if i.StakeAmount <= 0 {
		return &ValidationError{Msg: "stake amount must be positive"}
	}
	if !i.Choice.Valid() {
		return &ValidationError{Msg: "unknown bet choice: " + string(i.Choice)}
	}
	return nil
}

// ComputePayout returns floor(stake * odds) in points
func ComputePayout(stake int64, odds decimal.Decimal) int64 {
	return decimal.NewFromInt(stake).Mul(odds).Floor().IntPart()
}
