package entities

import "fmt"

// ValidationError indicates malformed input from the caller
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InsufficientBalanceError indicates an operation would drive a balance negative.
// The financial state is unchanged when this is returned.
type InsufficientBalanceError struct {
	CustomerID int64
	Category   PointCategory
	Balance    int64
	Requested  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance for customer %d: have %d, need %d",
		e.Category, e.CustomerID, e.Balance, -e.Requested)
}

// AlreadyProcessedError indicates a state transition was attempted on an
// entry that is no longer pending, typically a duplicate or racing call
type AlreadyProcessedError struct {
	EntryID int64
	State   EntryState
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("ledger entry %d already processed (state: %s)", e.EntryID, e.State)
}

// NotApprovedError indicates a reversal was attempted on an entry that
// never reached the approved state
type NotApprovedError struct {
	EntryID int64
	State   EntryState
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("ledger entry %d is not approved (state: %s)", e.EntryID, e.State)
}

// NotFoundError indicates a referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}
