package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
	"pointsdesk/domain/interfaces"
)

type bettingService struct {
	customerRepo   interfaces.CustomerRepository
	matchRepo      interfaces.MatchRepository
	itemRepo       interfaces.LineItemRepository
	ledgerRepo     interfaces.LedgerRepository
	oddsPolicy     interfaces.OddsPolicy
	eventPublisher interfaces.EventPublisher
}

func NewBettingService(
	customerRepo interfaces.CustomerRepository,
	matchRepo interfaces.MatchRepository,
	itemRepo interfaces.LineItemRepository,
	ledgerRepo interfaces.LedgerRepository,
	oddsPolicy interfaces.OddsPolicy,
	eventPublisher interfaces.EventPublisher,
) interfaces.BettingService {
	return &bettingService{
		customerRepo:   customerRepo,
		matchRepo:      matchRepo,
		itemRepo:       itemRepo,
		ledgerRepo:     ledgerRepo,
		oddsPolicy:     oddsPolicy,
		eventPublisher: eventPublisher,
	}
}

func (s *bettingService) PlaceBet(ctx context.Context, ticketID, customerID, matchID int64, choice entities.MatchOutcome, stake int64, placedBy int64) (*entities.BettingLineItem, error) {
	if stake <= 0 {
		return nil, &entities.ValidationError{Msg: "stake amount must be positive"}
	}
	if !choice.Valid() {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("invalid match outcome: %s", choice)}
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, &entities.NotFoundError{Entity: "customer", ID: customerID}
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, &entities.NotFoundError{Entity: "match", ID: matchID}
	}
	if !match.CanAcceptBets() {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("betting is closed for match %d", matchID)}
	}

	item := &entities.BettingLineItem{
		TicketID:    ticketID,
		Reference:   uuid.New().String(),
		CustomerID:  customerID,
		MatchID:     matchID,
		Choice:      choice,
		StakeAmount: stake,
		Status:      entities.LineItemPending,
	}
	// Odds at the time of placement are offered, not final. The manager
	// may re-quote through SetOdds until betting closes.
	if raw := match.OddsFor(choice); raw != nil {
		adjusted := s.oddsPolicy.AdjustOdds(*raw)
		item.Odds = &adjusted
		item.PotentialPayout = entities.ComputePayout(stake, adjusted)
	}

	// The stake debit waits for staff approval like any other entry. It
	// references the ticket so a reversal can find its way back here.
	entry := &entities.LedgerEntry{
		CustomerID:     customerID,
		Amount:         entities.NormalizeAmount(stake, entities.KindUse),
		Category:       entities.CategoryBetting,
		Kind:           entities.KindUse,
		State:          entities.EntryStatePending,
		Reason:         fmt.Sprintf("bet stake for match %d", matchID),
		OriginTicketID: &ticketID,
		RequestedBy:    placedBy,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create stake entry: %w", err)
	}
	item.StakeEntryID = &entry.ID

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create line item: %w", err)
	}

	if err := s.eventPublisher.Publish(events.BetPlacedEvent{
		ItemID:     item.ID,
		TicketID:   ticketID,
		CustomerID: customerID,
		MatchID:    matchID,
		Choice:     choice,
		Stake:      stake,
		PlacedBy:   placedBy,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish bet placed event: %w", err)
	}

	return item, nil
}

func (s *bettingService) SetOdds(ctx context.Context, itemID int64, rawOdds decimal.Decimal, setBy int64) (*entities.BettingLineItem, error) {
	if !rawOdds.IsPositive() {
		return nil, &entities.ValidationError{Msg: "odds must be positive"}
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	if item == nil {
		return nil, &entities.NotFoundError{Entity: "line item", ID: itemID}
	}
	if !item.IsOpen() {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("line item %d is already settled", itemID)}
	}

	adjusted := s.oddsPolicy.AdjustOdds(rawOdds)
	payout := entities.ComputePayout(item.StakeAmount, adjusted)

	if err := s.itemRepo.UpdateOdds(ctx, itemID, adjusted, payout); err != nil {
		return nil, fmt.Errorf("failed to update odds: %w", err)
	}

	item.Odds = &adjusted
	item.PotentialPayout = payout
	return item, nil
}

func (s *bettingService) CloseBetting(ctx context.Context, matchID int64) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return &entities.NotFoundError{Entity: "match", ID: matchID}
	}

	match.BettingClosed = true
	if err := s.matchRepo.Update(ctx, match); err != nil {
		return fmt.Errorf("failed to close betting: %w", err)
	}
	return nil
}

func (s *bettingService) VerifyMatch(ctx context.Context, matchID int64, verifiedBy int64) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return &entities.NotFoundError{Entity: "match", ID: matchID}
	}
	if match.IsSettled() {
		return &entities.ValidationError{Msg: fmt.Sprintf("match %d is already settled", matchID)}
	}

	// Verification also closes betting: once the operator has confirmed
	// the outcome no further bets may come in under it.
	match.IsVerified = true
	match.BettingClosed = true
	if err := s.matchRepo.Update(ctx, match); err != nil {
		return fmt.Errorf("failed to verify match: %w", err)
	}
	return nil
}
