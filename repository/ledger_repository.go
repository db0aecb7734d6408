package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// LedgerRepository implements the LedgerRepository interface
type LedgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepository creates a ledger repository bound to a transaction
func newLedgerRepository(tx Queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

const ledgerColumns = `id, customer_id, amount, category, kind, state, reason, origin_ticket_id, requested_by, approved_by, reversal_of_id, created_at, processed_at`

func scanLedgerEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var e entities.LedgerEntry
	var category, kind, state string
	err := row.Scan(
		&e.ID,
		&e.CustomerID,
		&e.Amount,
		&category,
		&kind,
		&state,
		&e.Reason,
		&e.OriginTicketID,
		&e.RequestedBy,
		&e.ApprovedBy,
		&e.ReversalOfID,
		&e.CreatedAt,
		&e.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = entities.PointCategory(category)
	e.Kind = entities.EntryKind(kind)
	e.State = entities.EntryState(state)
	return &e, nil
}

// Create persists a new entry in the pending state
func (r *LedgerRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (customer_id, amount, category, kind, state, reason, origin_ticket_id, requested_by, reversal_of_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		entry.CustomerID,
		entry.Amount,
		string(entry.Category),
		string(entry.Kind),
		string(entry.State),
		entry.Reason,
		entry.OriginTicketID,
		entry.RequestedBy,
		entry.ReversalOfID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by ID
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`

	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return entry, nil
}

// MarkApproved transitions pending -> approved. The state predicate is in
// the UPDATE, so a racing duplicate call sees zero rows instead of silently
// re-approving.
func (r *LedgerRepository) MarkApproved(ctx context.Context, id int64, approvedBy int64) error {
	query := `
		UPDATE ledger_entries
		SET state = 'approved', approved_by = $2, processed_at = NOW()
		WHERE id = $1 AND state = 'pending'`

	tag, err := r.q.Exec(ctx, query, id, approvedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry approved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notPendingError(ctx, id)
	}
	return nil
}

// MarkRejected transitions pending -> rejected
func (r *LedgerRepository) MarkRejected(ctx context.Context, id int64, rejectedBy int64) error {
	query := `
		UPDATE ledger_entries
		SET state = 'rejected', approved_by = $2, processed_at = NOW()
		WHERE id = $1 AND state = 'pending'`

	tag, err := r.q.Exec(ctx, query, id, rejectedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry rejected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notPendingError(ctx, id)
	}
	return nil
}

// MarkReversed transitions approved -> reversed
func (r *LedgerRepository) MarkReversed(ctx context.Context, id int64) error {
	query := `
		UPDATE ledger_entries
		SET state = 'reversed'
		WHERE id = $1 AND state = 'approved'`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark entry reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		state, err := r.currentState(ctx, id)
		if err != nil {
			return err
		}
		return &entities.NotApprovedError{EntryID: id, State: state}
	}
	return nil
}

// GetByCustomer returns a customer's entries, newest first
func (r *LedgerRepository) GetByCustomer(ctx context.Context, customerID int64, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SumApprovedByKind returns the total absolute amount and count of approved
// entries of the given kind created within [from, to)
func (r *LedgerRepository) SumApprovedByKind(ctx context.Context, kind entities.EntryKind, from, to time.Time) (int64, int, error) {
	query := `
		SELECT COALESCE(SUM(ABS(amount)), 0), COUNT(*)
		FROM ledger_entries
		WHERE kind = $1 AND state = 'approved' AND created_at >= $2 AND created_at < $3`

	var total int64
	var count int
	err := r.q.QueryRow(ctx, query, string(kind), from, to).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return total, count, nil
}

func (r *LedgerRepository) currentState(ctx context.Context, id int64) (entities.EntryState, error) {
	var state string
	err := r.q.QueryRow(ctx, `SELECT state FROM ledger_entries WHERE id = $1`, id).Scan(&state)
	if err == pgx.ErrNoRows {
		return "", &entities.NotFoundError{Entity: "ledger entry", ID: id}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry state: %w", err)
	}
	return entities.EntryState(state), nil
}

func (r *LedgerRepository) notPendingError(ctx context.Context, id int64) error {
	state, err := r.currentState(ctx, id)
	if err != nil {
		return err
	}
	return &entities.AlreadyProcessedError{EntryID: id, State: state}
}
