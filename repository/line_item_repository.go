package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// LineItemRepository implements the LineItemRepository interface
type LineItemRepository struct {
	q Queryable
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *database.DB) *LineItemRepository {
	return &LineItemRepository{q: db.Pool}
}

// newLineItemRepository creates a line item repository bound to a transaction
func newLineItemRepository(tx Queryable) *LineItemRepository {
	return &LineItemRepository{q: tx}
}

const lineItemColumns = `id, ticket_id, reference, customer_id, match_id, choice, stake_amount, odds, potential_payout, status, stake_entry_id, settled_at, created_at`

func scanLineItem(row pgx.Row) (*entities.BettingLineItem, error) {
	var i entities.BettingLineItem
	var choice, status string
	var odds decimal.NullDecimal
	err := row.Scan(
		&i.ID,
		&i.TicketID,
		&i.Reference,
		&i.CustomerID,
		&i.MatchID,
		&choice,
		&i.StakeAmount,
		&odds,
		&i.PotentialPayout,
		&status,
		&i.StakeEntryID,
		&i.SettledAt,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Choice = entities.MatchOutcome(choice)
	i.Status = entities.LineItemStatus(status)
	if odds.Valid {
		i.Odds = &odds.Decimal
	}
	return &i, nil
}

// Create persists a new line item in the pending status
func (r *LineItemRepository) Create(ctx context.Context, item *entities.BettingLineItem) error {
	query := `
		INSERT INTO betting_line_items (ticket_id, reference, customer_id, match_id, choice, stake_amount, odds, potential_payout, status, stake_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	var odds decimal.NullDecimal
	if item.Odds != nil {
		odds = decimal.NullDecimal{Decimal: *item.Odds, Valid: true}
	}

	err := r.q.QueryRow(ctx, query,
		item.TicketID,
		item.Reference,
		item.CustomerID,
		item.MatchID,
		string(item.Choice),
		item.StakeAmount,
		odds,
		item.PotentialPayout,
		string(item.Status),
		item.StakeEntryID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create line item: %w", err)
	}
	return nil
}

// GetByID retrieves a line item by ID
func (r *LineItemRepository) GetByID(ctx context.Context, id int64) (*entities.BettingLineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM betting_line_items WHERE id = $1`

	item, err := scanLineItem(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return item, nil
}

// GetByTicket returns all line items on a ticket
func (r *LineItemRepository) GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BettingLineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM betting_line_items WHERE ticket_id = $1 ORDER BY id`
	return r.queryItems(ctx, query, ticketID)
}

// GetOpenByMatch returns the match's line items still awaiting settlement
func (r *LineItemRepository) GetOpenByMatch(ctx context.Context, matchID int64) ([]*entities.BettingLineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM betting_line_items WHERE match_id = $1 AND status = 'pending' ORDER BY id`
	return r.queryItems(ctx, query, matchID)
}

// CountByMatch returns how many line items reference the match at all
func (r *LineItemRepository) CountByMatch(ctx context.Context, matchID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM betting_line_items WHERE match_id = $1`, matchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count line items: %w", err)
	}
	return count, nil
}

// UpdateOdds stores quoted odds and the recomputed potential payout
func (r *LineItemRepository) UpdateOdds(ctx context.Context, id int64, odds decimal.Decimal, potentialPayout int64) error {
	query := `
		UPDATE betting_line_items
		SET odds = $2, potential_payout = $3
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.q.Exec(ctx, query, id, odds, potentialPayout)
	if err != nil {
		return fmt.Errorf("failed to update odds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("line item %d is not open for an odds change", id)
	}
	return nil
}

// MarkSettled stamps the item with its settlement status. Only open items
// can be stamped, so a concurrent settlement pass cannot double-settle.
func (r *LineItemRepository) MarkSettled(ctx context.Context, id int64, status entities.LineItemStatus) error {
	query := `
		UPDATE betting_line_items
		SET status = $2, settled_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to mark line item settled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("line item %d is already settled", id)
	}
	return nil
}

func (r *LineItemRepository) queryItems(ctx context.Context, query string, arg any) ([]*entities.BettingLineItem, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []*entities.BettingLineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
