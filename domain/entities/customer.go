package entities

import "time"

// Customer represents an inmate account with two independent point balances.
// Balances are mutated only through approved ledger entries or confiscation.
type Customer struct {
	ID             int64     `db:"id"`
	MemberNumber   string    `db:"member_number"`
	Name           string    `db:"name"`
	GeneralBalance int64     `db:"general_balance"`
	BettingBalance int64     `db:"betting_balance"`
	LastActivityAt time.Time `db:"last_activity_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// BalanceFor returns the balance for the given category
func (c *Customer) BalanceFor(category PointCategory) int64 {
	if category == CategoryBetting {
		return c.BettingBalance
	}
	return c.GeneralBalance
}

// HasPositiveBalance returns true if either balance holds points
func (c *Customer) HasPositiveBalance() bool {
	return c.GeneralBalance > 0 || c.BettingBalance > 0
}

// InactiveSince reports whether the customer has had no activity since cutoff
func (c *Customer) InactiveSince(cutoff time.Time) bool {
	return c.LastActivityAt.Before(cutoff)
}
