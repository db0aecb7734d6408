package entities

import (
	"time"
)

// PointCategory selects which of a customer's two balances an entry affects
type PointCategory string

const (
	CategoryGeneral PointCategory = "general"
	CategoryBetting PointCategory = "betting"
)

// Valid reports whether the category is one of the recognized values
func (c PointCategory) Valid() bool {
	return c == CategoryGeneral || c == CategoryBetting
}

func (c PointCategory) String() string {
	return string(c)
}

// EntryKind represents the kind of point movement
type EntryKind string

const (
	KindCharge   EntryKind = "charge"
	KindUse      EntryKind = "use"
	KindRefund   EntryKind = "refund"
	KindExchange EntryKind = "exchange"
)

// Valid reports whether the kind is one of the recognized values
func (k EntryKind) Valid() bool {
	switch k {
	case KindCharge, KindUse, KindRefund, KindExchange:
		return true
	}
	return false
}

// IsCredit returns true for kinds that increase a balance
func (k EntryKind) IsCredit() bool {
	return k == KindCharge || k == KindRefund
}

func (k EntryKind) String() string {
	return string(k)
}

// EntryState represents the lifecycle state of a ledger entry
type EntryState string

const (
	EntryStatePending  EntryState = "pending"
	EntryStateApproved EntryState = "approved"
	EntryStateRejected EntryState = "rejected"
	EntryStateReversed EntryState = "reversed"
)

func (s EntryState) String() string {
	return string(s)
}

// NormalizeAmount applies the sign an entry's amount must carry for its kind.
// Charge and refund entries are stored positive, everything else negative.
func NormalizeAmount(amount int64, kind EntryKind) int64 {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	if kind.IsCredit() {
		return abs
	}
	return -abs
}

// LedgerEntry represents one signed point movement on a customer balance
type LedgerEntry struct {
	ID             int64         `db:"id"`
	CustomerID     int64         `db:"customer_id"`
	Amount         int64         `db:"amount"`
	Category       PointCategory `db:"category"`
	Kind           EntryKind     `db:"kind"`
	State          EntryState    `db:"state"`
	Reason         string        `db:"reason"`
	OriginTicketID *int64        `db:"origin_ticket_id"`
	RequestedBy    int64         `db:"requested_by"`
	ApprovedBy     *int64        `db:"approved_by"`
	ReversalOfID   *int64        `db:"reversal_of_id"`
	CreatedAt      time.Time     `db:"created_at"`
	ProcessedAt    *time.Time    `db:"processed_at"`
}

// IsPending returns true if the entry has not been processed yet
func (e *LedgerEntry) IsPending() bool {
	return e.State == EntryStatePending
}

// IsApproved returns true if the entry has been applied to a balance
func (e *LedgerEntry) IsApproved() bool {
	return e.State == EntryStateApproved
}

// IsCredit returns true if applying the entry increases the balance
func (e *LedgerEntry) IsCredit() bool {
	return e.Amount > 0
}

// Validate performs basic validation on the entry
func (e *LedgerEntry) Validate() error {
	if e.Amount == 0 {
		return &ValidationError{Msg: "entry amount cannot be zero"}
	}
	if !e.Category.Valid() {
		return &ValidationError{Msg: "unknown point category: " + string(e.Category)}
	}
	if !e.Kind.Valid() {
		return &ValidationError{Msg: "unknown entry kind: " + string(e.Kind)}
	}
	if e.Kind.IsCredit() && e.Amount < 0 {
		return &ValidationError{Msg: "credit entry must carry a positive amount"}
	}
	if !e.Kind.IsCredit() && e.Amount > 0 {
		return &ValidationError{Msg: "debit entry must carry a negative amount"}
	}
	return nil
}
