package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
)

const (
	testMatchID   = int64(50)
	testSettlerID = int64(900)
)

func verifiedMatch() *entities.Match {
	return &entities.Match{
		ID:            testMatchID,
		HomeTeam:      "Urawa",
		AwayTeam:      "Kashima",
		BettingClosed: true,
		IsVerified:    true,
	}
}

func openItem(id, customerID, stake int64, choice entities.MatchOutcome, odds float64) *entities.BettingLineItem {
	d := decimal.NewFromFloat(odds)
	return &entities.BettingLineItem{
		ID:              id,
		TicketID:        id + 100,
		CustomerID:      customerID,
		MatchID:         testMatchID,
		Choice:          choice,
		StakeAmount:     stake,
		Odds:            &d,
		PotentialPayout: entities.ComputePayout(stake, d),
		Status:          entities.LineItemPending,
	}
}

func TestSettlementEngine_Settle_WinnersAndLosers(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	winner := openItem(1, 100, 1000, entities.OutcomeHome, 2.4)
	loser := openItem(2, 200, 1500, entities.OutcomeAway, 1.9)

	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(verifiedMatch(), nil)
	uow.ItemRepo.On("CountByMatch", ctx, testMatchID).Return(2, nil)
	uow.ItemRepo.On("GetOpenByMatch", ctx, testMatchID).Return([]*entities.BettingLineItem{winner, loser}, nil)

	uow.LedgerRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.CustomerID == 100 &&
			e.Amount == 2400 &&
			e.Category == entities.CategoryBetting &&
			e.Kind == entities.KindCharge &&
			e.OriginTicketID != nil && *e.OriginTicketID == winner.TicketID
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerEntry).ID = 10
	})
	uow.CustomerRepo.On("ApplyDelta", ctx, int64(100), entities.CategoryBetting, int64(2400)).Return(int64(2400), nil)
	uow.LedgerRepo.On("MarkApproved", ctx, int64(10), testSettlerID).Return(nil)
	uow.ItemRepo.On("MarkSettled", ctx, int64(1), entities.LineItemWon).Return(nil)
	uow.ItemRepo.On("MarkSettled", ctx, int64(2), entities.LineItemLost).Return(nil)

	uow.MatchRepo.On("MarkSettled", ctx, testMatchID, entities.OutcomeHome, testSettlerID).Return(nil)
	uow.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		settled, ok := e.(events.MatchSettledEvent)
		return ok && settled.TotalStake == 2500 && settled.TotalPayout == 2400
	})).Return(nil)

	summary, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	require.NoError(t, err)
	assert.Equal(t, int64(2500), summary.TotalStake)
	assert.Equal(t, int64(2400), summary.TotalPayout)
	assert.Equal(t, int64(100), summary.Profit)
	assert.Equal(t, 1, summary.WinCount)
	assert.Equal(t, 1, summary.LoseCount)
	assert.Empty(t, summary.Failed)
	assert.Empty(t, summary.Skipped)
	uow.MatchRepo.AssertExpectations(t)
	uow.ItemRepo.AssertExpectations(t)
	uow.LedgerRepo.AssertExpectations(t)
}

func TestSettlementEngine_Settle_UnverifiedMatch(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	match := verifiedMatch()
	match.IsVerified = false
	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(match, nil)

	_, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	var validation *entities.ValidationError
	require.ErrorAs(t, err, &validation)
	uow.ItemRepo.AssertNotCalled(t, "GetOpenByMatch")
}

func TestSettlementEngine_Settle_NoItemsAtAll(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(verifiedMatch(), nil)
	uow.ItemRepo.On("CountByMatch", ctx, testMatchID).Return(0, nil)

	_, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	var notFound *entities.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSettlementEngine_Settle_AlreadySettledIsNoOp(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(verifiedMatch(), nil)
	uow.ItemRepo.On("CountByMatch", ctx, testMatchID).Return(2, nil)
	uow.ItemRepo.On("GetOpenByMatch", ctx, testMatchID).Return([]*entities.BettingLineItem{}, nil)

	summary, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	require.NoError(t, err)
	assert.True(t, summary.Empty())
	uow.MatchRepo.AssertNotCalled(t, "MarkSettled")
}

func TestSettlementEngine_Settle_SkipsItemWithoutOdds(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	quoted := openItem(1, 100, 1000, entities.OutcomeAway, 1.9)
	unquoted := openItem(2, 200, 500, entities.OutcomeHome, 2.0)
	unquoted.Odds = nil

	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(verifiedMatch(), nil)
	uow.ItemRepo.On("CountByMatch", ctx, testMatchID).Return(2, nil)
	uow.ItemRepo.On("GetOpenByMatch", ctx, testMatchID).Return([]*entities.BettingLineItem{quoted, unquoted}, nil)
	uow.ItemRepo.On("MarkSettled", ctx, int64(1), entities.LineItemLost).Return(nil)

	summary, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	require.NoError(t, err)
	assert.Equal(t, []int64{2}, summary.Skipped)
	assert.Len(t, summary.Items, 1)
	// A pass with skipped items leaves the match open for a rerun.
	uow.MatchRepo.AssertNotCalled(t, "MarkSettled")
}

func TestSettlementEngine_Settle_OneFailureDoesNotAbortOthers(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	engine := NewSettlementEngine(&TestUnitOfWorkFactory{UoW: uow})

	failing := openItem(1, 100, 1000, entities.OutcomeHome, 2.4)
	healthy := openItem(2, 200, 1500, entities.OutcomeAway, 1.9)

	uow.MatchRepo.On("GetByID", ctx, testMatchID).Return(verifiedMatch(), nil)
	uow.ItemRepo.On("CountByMatch", ctx, testMatchID).Return(2, nil)
	uow.ItemRepo.On("GetOpenByMatch", ctx, testMatchID).Return([]*entities.BettingLineItem{failing, healthy}, nil)

	uow.LedgerRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()
	uow.ItemRepo.On("MarkSettled", ctx, int64(2), entities.LineItemLost).Return(nil)

	summary, err := engine.Settle(ctx, testMatchID, entities.OutcomeHome, testSettlerID)

	require.NoError(t, err)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, int64(1), summary.Failed[0].ItemID)
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.LoseCount)
	uow.MatchRepo.AssertNotCalled(t, "MarkSettled")
}
