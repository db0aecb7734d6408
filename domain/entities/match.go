package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchOutcome is one of the three bettable results of a match
type MatchOutcome string

const (
	OutcomeHome MatchOutcome = "home"
	OutcomeAway MatchOutcome = "away"
	OutcomeDraw MatchOutcome = "draw"
)

// Valid reports whether the outcome is one of the recognized keys
func (o MatchOutcome) Valid() bool {
	return o == OutcomeHome || o == OutcomeAway || o == OutcomeDraw
}

func (o MatchOutcome) String() string {
	return string(o)
}

// Match represents a sports match bets can be placed on.
// Lifecycle: scheduled -> betting closed -> finished -> verified.
type Match struct {
	ID            int64            `db:"id"`
	HomeTeam      string           `db:"home_team"`
	AwayTeam      string           `db:"away_team"`
	League        string           `db:"league"`
	StartsAt      time.Time        `db:"starts_at"`
	HomeOdds      *decimal.Decimal `db:"home_odds"`
	AwayOdds      *decimal.Decimal `db:"away_odds"`
	DrawOdds      *decimal.Decimal `db:"draw_odds"`
	BettingClosed bool             `db:"betting_closed"`
	IsFinished    bool             `db:"is_finished"`
	Result        *MatchOutcome    `db:"result"`
	IsVerified    bool             `db:"is_verified"`
	SettledAt     *time.Time       `db:"settled_at"`
	SettledBy     *int64           `db:"settled_by"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// CanAcceptBets returns true while the match is open for betting
func (m *Match) CanAcceptBets() bool {
	return !m.IsFinished && !m.BettingClosed
}

// IsSettled returns true once a settlement pass has completed for the match
func (m *Match) IsSettled() bool {
	return m.SettledAt != nil
}

// OddsFor returns the quoted odds for the given outcome, nil if not quoted
func (m *Match) OddsFor(outcome MatchOutcome) *decimal.Decimal {
	switch outcome {
	case OutcomeHome:
		return m.HomeOdds
	case OutcomeAway:
		return m.AwayOdds
	case OutcomeDraw:
		return m.DrawOdds
	}
	return nil
}

// Description returns a short human-readable label for the match
func (m *Match) Description() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}
