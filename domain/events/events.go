package events

import "pointsdesk/domain/entities"

// EventType represents different types of audit events in the system
type EventType string

const (
	EventTypeEntryApproved     EventType = "entry_approved"
	EventTypeEntryRejected     EventType = "entry_rejected"
	EventTypeEntryReversed     EventType = "entry_reversed"
	EventTypeBetPlaced         EventType = "bet_placed"
	EventTypeMatchSettled      EventType = "match_settled"
	EventTypePointsConfiscated EventType = "points_confiscated"
)

// Event is the base interface for all audit events
type Event interface {
	Type() EventType
}

// EntryApprovedEvent records a ledger entry being applied to a balance
type EntryApprovedEvent struct {
	EntryID       int64
	CustomerID    int64
	Category      entities.PointCategory
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
	ApprovedBy    int64
}

func (e EntryApprovedEvent) Type() EventType {
	return EventTypeEntryApproved
}

// EntryRejectedEvent records a pending entry being declined
type EntryRejectedEvent struct {
	EntryID    int64
	CustomerID int64
	RejectedBy int64
}

func (e EntryRejectedEvent) Type() EventType {
	return EventTypeEntryRejected
}

// EntryReversedEvent records an approved entry being reversed
type EntryReversedEvent struct {
	OriginalEntryID int64
	ReversalEntryID int64
	CustomerID      int64
	Amount          int64
	ReversedBy      int64
}

func (e EntryReversedEvent) Type() EventType {
	return EventTypeEntryReversed
}

// BetPlacedEvent records a new betting line item and its stake debit
type BetPlacedEvent struct {
	ItemID     int64
	TicketID   int64
	CustomerID int64
	MatchID    int64
	Choice     entities.MatchOutcome
	Stake      int64
	PlacedBy   int64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// MatchSettledEvent records a completed settlement pass over a match
type MatchSettledEvent struct {
	MatchID     int64
	Result      entities.MatchOutcome
	TotalStake  int64
	TotalPayout int64
	WinCount    int
	LoseCount   int
	SettledBy   int64
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// PointsConfiscatedEvent records a dormant balance confiscation
type PointsConfiscatedEvent struct {
	CustomerID         int64
	ConfiscatedGeneral int64
	ConfiscatedBetting int64
	Reason             string
	PerformedBy        int64
}

func (e PointsConfiscatedEvent) Type() EventType {
	return EventTypePointsConfiscated
}
