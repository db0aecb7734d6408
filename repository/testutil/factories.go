package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"pointsdesk/domain/entities"
)

// NewTestEntry builds a pending ledger entry with default values
func NewTestEntry(customerID, amount int64, kind entities.EntryKind) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		CustomerID:  customerID,
		Amount:      entities.NormalizeAmount(amount, kind),
		Category:    entities.CategoryGeneral,
		Kind:        kind,
		State:       entities.EntryStatePending,
		Reason:      "test entry",
		RequestedBy: 800,
	}
}

// NewTestMatch builds an open match with quoted odds
func NewTestMatch() *entities.Match {
	home := decimal.NewFromFloat(2.4)
	away := decimal.NewFromFloat(2.9)
	draw := decimal.NewFromFloat(3.1)
	return &entities.Match{
		HomeTeam: "Urawa",
		AwayTeam: "Kashima",
		League:   "J1",
		StartsAt: time.Now().UTC().Add(24 * time.Hour),
		HomeOdds: &home,
		AwayOdds: &away,
		DrawOdds: &draw,
	}
}

// NewTestLineItem builds a pending line item for the given match
func NewTestLineItem(customerID, matchID int64, reference string) *entities.BettingLineItem {
	odds := decimal.NewFromFloat(2.4)
	return &entities.BettingLineItem{
		TicketID:        1,
		Reference:       reference,
		CustomerID:      customerID,
		MatchID:         matchID,
		Choice:          entities.OutcomeHome,
		StakeAmount:     1000,
		Odds:            &odds,
		PotentialPayout: 2400,
		Status:          entities.LineItemPending,
	}
}
