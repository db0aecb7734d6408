package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
)

func (s *Server) bettingServiceFrom(uow interfaces.UnitOfWork) interfaces.BettingService {
	return services.NewBettingService(
		uow.CustomerRepository(),
		uow.MatchRepository(),
		uow.LineItemRepository(),
		uow.LedgerRepository(),
		s.oddsPolicy,
		uow.EventBus(),
	)
}

type createMatchRequest struct {
	HomeTeam string           `json:"home_team"`
	AwayTeam string           `json:"away_team"`
	League   string           `json:"league"`
	StartsAt time.Time        `json:"starts_at"`
	HomeOdds *decimal.Decimal `json:"home_odds,omitempty"`
	AwayOdds *decimal.Decimal `json:"away_odds,omitempty"`
	DrawOdds *decimal.Decimal `json:"draw_odds,omitempty"`
}

type matchResponse struct {
	ID            int64            `json:"id"`
	HomeTeam      string           `json:"home_team"`
	AwayTeam      string           `json:"away_team"`
	League        string           `json:"league"`
	StartsAt      string           `json:"starts_at"`
	HomeOdds      *decimal.Decimal `json:"home_odds,omitempty"`
	AwayOdds      *decimal.Decimal `json:"away_odds,omitempty"`
	DrawOdds      *decimal.Decimal `json:"draw_odds,omitempty"`
	BettingClosed bool             `json:"betting_closed"`
	IsFinished    bool             `json:"is_finished"`
	Result        *string          `json:"result,omitempty"`
	IsVerified    bool             `json:"is_verified"`
	SettledAt     *string          `json:"settled_at,omitempty"`
}

func toMatchResponse(m *entities.Match) matchResponse {
	resp := matchResponse{
		ID:            m.ID,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		League:        m.League,
		StartsAt:      m.StartsAt.Format(time.RFC3339),
		HomeOdds:      m.HomeOdds,
		AwayOdds:      m.AwayOdds,
		DrawOdds:      m.DrawOdds,
		BettingClosed: m.BettingClosed,
		IsFinished:    m.IsFinished,
		IsVerified:    m.IsVerified,
	}
	if m.Result != nil {
		result := m.Result.String()
		resp.Result = &result
	}
	if m.SettledAt != nil {
		settled := m.SettledAt.Format(time.RFC3339)
		resp.SettledAt = &settled
	}
	return resp
}

// CreateMatch registers an upcoming match bets can be placed on
func (s *Server) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HomeTeam == "" || req.AwayTeam == "" {
		writeError(w, http.StatusBadRequest, "home_team and away_team are required")
		return
	}
	if req.StartsAt.IsZero() {
		writeError(w, http.StatusBadRequest, "starts_at is required")
		return
	}

	match := &entities.Match{
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		League:   req.League,
		StartsAt: req.StartsAt.UTC(),
		HomeOdds: req.HomeOdds,
		AwayOdds: req.AwayOdds,
		DrawOdds: req.DrawOdds,
	}
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		return uow.MatchRepository().Create(r.Context(), match)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchResponse(match))
}

// GetMatch returns one match
func (s *Server) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var match *entities.Match
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		match, err = uow.MatchRepository().GetByID(r.Context(), id)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, (&entities.NotFoundError{Entity: "match", ID: id}).Error())
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(match))
}

// CloseBetting stops further bets on a match
func (s *Server) CloseBetting(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		return s.bettingServiceFrom(uow).CloseBetting(r.Context(), id)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "betting closed"})
}

// VerifyMatch confirms a finished match's result ahead of settlement
func (s *Server) VerifyMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		return s.bettingServiceFrom(uow).VerifyMatch(r.Context(), id, mustActor(r))
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

type settleMatchRequest struct {
	Result string `json:"result"`
}

type settlementItemResponse struct {
	ItemID     int64  `json:"item_id"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	Stake      int64  `json:"stake"`
	Payout     int64  `json:"payout"`
	Err        string `json:"error,omitempty"`
}

type settlementSummaryResponse struct {
	MatchID     int64                    `json:"match_id"`
	Result      string                   `json:"result"`
	TotalStake  int64                    `json:"total_stake"`
	TotalPayout int64                    `json:"total_payout"`
	Profit      int64                    `json:"profit"`
	WinCount    int                      `json:"win_count"`
	LoseCount   int                      `json:"lose_count"`
	Items       []settlementItemResponse `json:"items"`
	Skipped     []int64                  `json:"skipped,omitempty"`
	Failed      []settlementItemResponse `json:"failed,omitempty"`
}

func toSettlementResponse(summary *entities.SettlementSummary) settlementSummaryResponse {
	toItems := func(results []entities.SettlementItemResult) []settlementItemResponse {
		items := make([]settlementItemResponse, 0, len(results))
		for _, item := range results {
			items = append(items, settlementItemResponse{
				ItemID:     item.ItemID,
				CustomerID: item.CustomerID,
				Status:     item.Status.String(),
				Stake:      item.Stake,
				Payout:     item.Payout,
				Err:        item.Err,
			})
		}
		return items
	}

	return settlementSummaryResponse{
		MatchID:     summary.MatchID,
		Result:      summary.Result.String(),
		TotalStake:  summary.TotalStake,
		TotalPayout: summary.TotalPayout,
		Profit:      summary.Profit,
		WinCount:    summary.WinCount,
		LoseCount:   summary.LoseCount,
		Items:       toItems(summary.Items),
		Skipped:     summary.Skipped,
		Failed:      toItems(summary.Failed),
	}
}

// SettleMatch runs one settlement pass over a verified match
func (s *Server) SettleMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req settleMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := s.settlement.Settle(r.Context(), id, entities.MatchOutcome(req.Result), mustActor(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettlementResponse(summary))
}

type placeBetRequest struct {
	TicketID   int64  `json:"ticket_id"`
	CustomerID int64  `json:"customer_id"`
	MatchID    int64  `json:"match_id"`
	Choice     string `json:"choice"`
	Stake      int64  `json:"stake"`
}

type lineItemResponse struct {
	ID              int64            `json:"id"`
	TicketID        int64            `json:"ticket_id"`
	Reference       string           `json:"reference"`
	CustomerID      int64            `json:"customer_id"`
	MatchID         int64            `json:"match_id"`
	Choice          string           `json:"choice"`
	StakeAmount     int64            `json:"stake_amount"`
	Odds            *decimal.Decimal `json:"odds,omitempty"`
	PotentialPayout int64            `json:"potential_payout"`
	Status          string           `json:"status"`
}

func toLineItemResponse(i *entities.BettingLineItem) lineItemResponse {
	return lineItemResponse{
		ID:              i.ID,
		TicketID:        i.TicketID,
		Reference:       i.Reference,
		CustomerID:      i.CustomerID,
		MatchID:         i.MatchID,
		Choice:          i.Choice.String(),
		StakeAmount:     i.StakeAmount,
		Odds:            i.Odds,
		PotentialPayout: i.PotentialPayout,
		Status:          i.Status.String(),
	}
}

// PlaceBet creates a line item plus its paired pending stake debit
func (s *Server) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var item *entities.BettingLineItem
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		item, err = s.bettingServiceFrom(uow).PlaceBet(
			r.Context(),
			req.TicketID,
			req.CustomerID,
			req.MatchID,
			entities.MatchOutcome(req.Choice),
			req.Stake,
			mustActor(r),
		)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLineItemResponse(item))
}

type setOddsRequest struct {
	Odds decimal.Decimal `json:"odds"`
}

// SetOdds quotes odds for a line item through the odds policy
func (s *Server) SetOdds(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setOddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var item *entities.BettingLineItem
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		item, err = s.bettingServiceFrom(uow).SetOdds(r.Context(), id, req.Odds, mustActor(r))
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLineItemResponse(item))
}
