package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
	"pointsdesk/domain/interfaces"
)

// SettlementEngine resolves every open line item on a verified match. Each
// item settles in its own transaction so one customer's failure never rolls
// back another's payout; failed items stay open for a retry pass.
type SettlementEngine struct {
	uowFactory interfaces.UnitOfWorkFactory
}

func NewSettlementEngine(uowFactory interfaces.UnitOfWorkFactory) interfaces.SettlementService {
	return &SettlementEngine{uowFactory: uowFactory}
}

func (e *SettlementEngine) Settle(ctx context.Context, matchID int64, result entities.MatchOutcome, settledBy int64) (*entities.SettlementSummary, error) {
	if !result.Valid() {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("invalid match result: %s", result)}
	}

	open, err := e.loadOpenItems(ctx, matchID)
	if err != nil {
		return nil, err
	}

	summary := &entities.SettlementSummary{MatchID: matchID, Result: result}
	if len(open) == 0 {
		// Retrying a fully settled match is a no-op.
		return summary, nil
	}

	for _, item := range open {
		if !item.HasOdds() {
			log.WithFields(log.Fields{
				"item_id":  item.ID,
				"match_id": matchID,
			}).Warn("Skipping line item without quoted odds")
			summary.Skipped = append(summary.Skipped, item.ID)
			continue
		}

		res, err := e.settleItem(ctx, item, result, settledBy)
		if err != nil {
			log.WithFields(log.Fields{
				"item_id":  item.ID,
				"match_id": matchID,
			}).Errorf("Failed to settle line item: %v", err)
			summary.Failed = append(summary.Failed, entities.SettlementItemResult{
				ItemID:     item.ID,
				CustomerID: item.CustomerID,
				Stake:      item.StakeAmount,
				Err:        err.Error(),
			})
			continue
		}

		summary.Items = append(summary.Items, res)
		summary.TotalStake += res.Stake
		if res.Status == entities.LineItemWon {
			summary.TotalPayout += res.Payout
			summary.WinCount++
		} else {
			summary.LoseCount++
		}
	}
	summary.Profit = summary.TotalStake - summary.TotalPayout

	// The match is stamped settled only once every item has resolved, so
	// a pass with failures or skips can be rerun for the remainder.
	if len(summary.Failed) == 0 && len(summary.Skipped) == 0 {
		if err := e.finalizeMatch(ctx, summary, settledBy); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"match_id":     matchID,
		"result":       result,
		"settled":      len(summary.Items),
		"skipped":      len(summary.Skipped),
		"failed":       len(summary.Failed),
		"total_stake":  summary.TotalStake,
		"total_payout": summary.TotalPayout,
		"profit":       summary.Profit,
	}).Info("Completed settlement pass")

	return summary, nil
}

// loadOpenItems checks the settlement gates and returns the match's open
// line items.
func (e *SettlementEngine) loadOpenItems(ctx context.Context, matchID int64) ([]*entities.BettingLineItem, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, &entities.NotFoundError{Entity: "match", ID: matchID}
	}
	if !match.IsVerified {
		return nil, &entities.ValidationError{Msg: fmt.Sprintf("match %d result is not verified", matchID)}
	}

	count, err := uow.LineItemRepository().CountByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count line items: %w", err)
	}
	if count == 0 {
		return nil, &entities.NotFoundError{Entity: "line items for match", ID: matchID}
	}

	return uow.LineItemRepository().GetOpenByMatch(ctx, matchID)
}

func (e *SettlementEngine) settleItem(ctx context.Context, item *entities.BettingLineItem, result entities.MatchOutcome, settledBy int64) (entities.SettlementItemResult, error) {
	res := entities.SettlementItemResult{
		ItemID:     item.ID,
		CustomerID: item.CustomerID,
		Stake:      item.StakeAmount,
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if item.Choice == result {
		payout := item.PayoutFor()
		entry := &entities.LedgerEntry{
			CustomerID:     item.CustomerID,
			Amount:         entities.NormalizeAmount(payout, entities.KindCharge),
			Category:       entities.CategoryBetting,
			Kind:           entities.KindCharge,
			State:          entities.EntryStatePending,
			Reason:         fmt.Sprintf("bet payout for match %d", item.MatchID),
			OriginTicketID: &item.TicketID,
			RequestedBy:    settledBy,
		}
		if err := uow.LedgerRepository().Create(ctx, entry); err != nil {
			return res, fmt.Errorf("failed to create payout entry: %w", err)
		}
		if _, err := uow.CustomerRepository().ApplyDelta(ctx, item.CustomerID, entities.CategoryBetting, payout); err != nil {
			return res, err
		}
		if err := uow.LedgerRepository().MarkApproved(ctx, entry.ID, settledBy); err != nil {
			return res, err
		}
		if err := uow.LineItemRepository().MarkSettled(ctx, item.ID, entities.LineItemWon); err != nil {
			return res, err
		}
		res.Status = entities.LineItemWon
		res.Payout = payout
	} else {
		// The stake was already debited at approval time, so a loss is
		// just a status stamp.
		if err := uow.LineItemRepository().MarkSettled(ctx, item.ID, entities.LineItemLost); err != nil {
			return res, err
		}
		res.Status = entities.LineItemLost
	}

	if err := uow.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return res, nil
}

func (e *SettlementEngine) finalizeMatch(ctx context.Context, summary *entities.SettlementSummary, settledBy int64) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.MatchRepository().MarkSettled(ctx, summary.MatchID, summary.Result, settledBy); err != nil {
		return fmt.Errorf("failed to mark match settled: %w", err)
	}

	if err := uow.EventBus().Publish(events.MatchSettledEvent{
		MatchID:     summary.MatchID,
		Result:      summary.Result,
		TotalStake:  summary.TotalStake,
		TotalPayout: summary.TotalPayout,
		WinCount:    summary.WinCount,
		LoseCount:   summary.LoseCount,
		SettledBy:   settledBy,
	}); err != nil {
		return fmt.Errorf("failed to publish settlement event: %w", err)
	}

	return uow.Commit()
}
