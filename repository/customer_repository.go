package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// CustomerRepository implements the CustomerRepository interface
type CustomerRepository struct {
	q Queryable
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{q: db.Pool}
}

// newCustomerRepository creates a customer repository bound to a transaction
func newCustomerRepository(tx Queryable) *CustomerRepository {
	return &CustomerRepository{q: tx}
}

const customerColumns = `id, member_number, name, general_balance, betting_balance, last_activity_at, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entities.Customer, error) {
	var c entities.Customer
	err := row.Scan(
		&c.ID,
		&c.MemberNumber,
		&c.Name,
		&c.GeneralBalance,
		&c.BettingBalance,
		&c.LastActivityAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*entities.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// Create creates a new customer with zero balances
func (r *CustomerRepository) Create(ctx context.Context, memberNumber, name string) (*entities.Customer, error) {
	query := `
		INSERT INTO customers (member_number, name)
		VALUES ($1, $2)
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.q.QueryRow(ctx, query, memberNumber, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// GetBalances returns the customer's general and betting balances
func (r *CustomerRepository) GetBalances(ctx context.Context, id int64) (int64, int64, error) {
	query := `SELECT general_balance, betting_balance FROM customers WHERE id = $1`

	var general, betting int64
	err := r.q.QueryRow(ctx, query, id).Scan(&general, &betting)
	if err == pgx.ErrNoRows {
		return 0, 0, &entities.NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get balances: %w", err)
	}
	return general, betting, nil
}

// ApplyDelta atomically adds delta to one balance. The non-negative guard
// is part of the UPDATE itself, so concurrent debits cannot overdraw the
// balance regardless of interleaving.
func (r *CustomerRepository) ApplyDelta(ctx context.Context, id int64, category entities.PointCategory, delta int64) (int64, error) {
	column := "general_balance"
	if category == entities.CategoryBetting {
		column = "betting_balance"
	}

	query := fmt.Sprintf(`
		UPDATE customers
		SET %s = %s + $1, last_activity_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND %s + $1 >= 0
		RETURNING %s`, column, column, column, column)

	var newBalance int64
	err := r.q.QueryRow(ctx, query, delta, id).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the customer does not exist or the guard rejected the
		// debit. A second read tells them apart.
		balanceQuery := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, column)
		var balance int64
		err := r.q.QueryRow(ctx, balanceQuery, id).Scan(&balance)
		if err == pgx.ErrNoRows {
			return 0, &entities.NotFoundError{Entity: "customer", ID: id}
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read balance: %w", err)
		}
		return 0, &entities.InsufficientBalanceError{
			CustomerID: id,
			Category:   category,
			Balance:    balance,
			Requested:  delta,
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return newBalance, nil
}

// GetDormant returns customers with no activity since cutoff and a positive
// balance, oldest activity first
func (r *CustomerRepository) GetDormant(ctx context.Context, cutoff time.Time) ([]*entities.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE last_activity_at < $1
		  AND (general_balance > 0 OR betting_balance > 0)
		ORDER BY last_activity_at ASC`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query dormant customers: %w", err)
	}
	defer rows.Close()

	var customers []*entities.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
