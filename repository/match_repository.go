package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pointsdesk/database"
	"pointsdesk/domain/entities"
)

// MatchRepository implements the MatchRepository interface
type MatchRepository struct {
	q Queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{q: db.Pool}
}

// newMatchRepository creates a match repository bound to a transaction
func newMatchRepository(tx Queryable) *MatchRepository {
	return &MatchRepository{q: tx}
}

const matchColumns = `id, home_team, away_team, league, starts_at, home_odds, away_odds, draw_odds, betting_closed, is_finished, result, is_verified, settled_at, settled_by, created_at, updated_at`

func scanMatch(row pgx.Row) (*entities.Match, error) {
	var m entities.Match
	var homeOdds, awayOdds, drawOdds decimal.NullDecimal
	var result *string
	err := row.Scan(
		&m.ID,
		&m.HomeTeam,
		&m.AwayTeam,
		&m.League,
		&m.StartsAt,
		&homeOdds,
		&awayOdds,
		&drawOdds,
		&m.BettingClosed,
		&m.IsFinished,
		&result,
		&m.IsVerified,
		&m.SettledAt,
		&m.SettledBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if homeOdds.Valid {
		m.HomeOdds = &homeOdds.Decimal
	}
	if awayOdds.Valid {
		m.AwayOdds = &awayOdds.Decimal
	}
	if drawOdds.Valid {
		m.DrawOdds = &drawOdds.Decimal
	}
	if result != nil {
		outcome := entities.MatchOutcome(*result)
		m.Result = &outcome
	}
	return &m, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// Create persists a new scheduled match
func (r *MatchRepository) Create(ctx context.Context, match *entities.Match) error {
	query := `
		INSERT INTO matches (home_team, away_team, league, starts_at, home_odds, away_odds, draw_odds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		match.HomeTeam,
		match.AwayTeam,
		match.League,
		match.StartsAt,
		nullDecimal(match.HomeOdds),
		nullDecimal(match.AwayOdds),
		nullDecimal(match.DrawOdds),
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// GetByID retrieves a match by ID
func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// Update updates a match's odds and lifecycle flags
func (r *MatchRepository) Update(ctx context.Context, match *entities.Match) error {
	query := `
		UPDATE matches
		SET home_odds = $2, away_odds = $3, draw_odds = $4,
		    betting_closed = $5, is_verified = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		match.ID,
		nullDecimal(match.HomeOdds),
		nullDecimal(match.AwayOdds),
		nullDecimal(match.DrawOdds),
		match.BettingClosed,
		match.IsVerified,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &entities.NotFoundError{Entity: "match", ID: match.ID}
	}
	return nil
}

// MarkSettled stamps the match finished with its result and settler. A
// settled match cannot be stamped again.
func (r *MatchRepository) MarkSettled(ctx context.Context, id int64, result entities.MatchOutcome, settledBy int64) error {
	query := `
		UPDATE matches
		SET is_finished = TRUE, result = $2, settled_at = NOW(), settled_by = $3, updated_at = NOW()
		WHERE id = $1 AND settled_at IS NULL`

	tag, err := r.q.Exec(ctx, query, id, string(result), settledBy)
	if err != nil {
		return fmt.Errorf("failed to mark match settled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %d is already settled", id)
	}
	return nil
}
