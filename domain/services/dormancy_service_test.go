package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
)

func TestDormancyService_FindDormant_ComputesStats(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewDormancyService(mocks.CustomerRepo, mocks.LedgerRepo, mocks.DormancyRepo, mocks.EventPublisher)

	dormant := []*entities.Customer{
		{ID: 1, GeneralBalance: 1000, BettingBalance: 500},
		{ID: 2, GeneralBalance: 300},
	}
	mocks.CustomerRepo.On("GetDormant", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		// 12 months back, give or take test runtime.
		expected := time.Now().UTC().AddDate(0, -12, 0)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(dormant, nil)

	customers, stats, err := service.FindDormant(ctx, 12)

	require.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, 2, stats.TotalDormant)
	assert.Equal(t, int64(1800), stats.TotalBalance)
	assert.Equal(t, int64(900), stats.AverageBalance)
	mocks.AssertAllExpectations(t)
}

func TestDormancyService_FindDormant_InvalidThreshold(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewDormancyService(mocks.CustomerRepo, mocks.LedgerRepo, mocks.DormancyRepo, mocks.EventPublisher)

	_, _, err := service.FindDormant(ctx, 0)

	var validation *entities.ValidationError
	require.ErrorAs(t, err, &validation)
	mocks.CustomerRepo.AssertNotCalled(t, "GetDormant")
}

func TestDormancyService_Confiscate_BothBalances(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewDormancyService(mocks.CustomerRepo, mocks.LedgerRepo, mocks.DormancyRepo, mocks.EventPublisher)

	customer := &entities.Customer{
		ID:             TestCustomerID,
		MemberNumber:   "M-0100",
		Name:           "Sato",
		GeneralBalance: 1000,
		BettingBalance: 400,
	}
	mocks.CustomerRepo.On("GetByID", ctx, TestCustomerID).Return(customer, nil)

	var nextID int64 = 10
	mocks.LedgerRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.Kind == entities.KindUse && e.Amount < 0
	})).Return(nil).Run(func(args mock.Arguments) {
		nextID++
		args.Get(1).(*entities.LedgerEntry).ID = nextID
	}).Twice()

	mocks.CustomerRepo.On("ApplyDelta", ctx, TestCustomerID, entities.CategoryGeneral, int64(-1000)).Return(int64(0), nil)
	mocks.CustomerRepo.On("ApplyDelta", ctx, TestCustomerID, entities.CategoryBetting, int64(-400)).Return(int64(0), nil)
	mocks.LedgerRepo.On("MarkApproved", ctx, mock.AnythingOfType("int64"), TestOperatorID).Return(nil).Twice()

	mocks.DormancyRepo.On("Create", ctx, mock.MatchedBy(func(r *entities.DormancyRecord) bool {
		return r.CustomerID == TestCustomerID &&
			r.ConfiscatedGeneral == 1000 &&
			r.ConfiscatedBetting == 400 &&
			r.GeneralEntryID != nil && r.BettingEntryID != nil
	})).Return(nil)

	mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == events.EventTypePointsConfiscated
	})).Return(nil)

	record, err := service.Confiscate(ctx, TestCustomerID, "dormant account cleanup", TestOperatorID)

	require.NoError(t, err)
	assert.Equal(t, int64(1400), record.TotalConfiscated())
	mocks.AssertAllExpectations(t)
}

func TestDormancyService_Confiscate_GeneralOnly(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewDormancyService(mocks.CustomerRepo, mocks.LedgerRepo, mocks.DormancyRepo, mocks.EventPublisher)

	customer := &entities.Customer{ID: TestCustomerID, GeneralBalance: 750}
	mocks.CustomerRepo.On("GetByID", ctx, TestCustomerID).Return(customer, nil)

	mocks.LedgerRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerEntry).ID = 11
	}).Once()
	mocks.CustomerRepo.On("ApplyDelta", ctx, TestCustomerID, entities.CategoryGeneral, int64(-750)).Return(int64(0), nil)
	mocks.LedgerRepo.On("MarkApproved", ctx, int64(11), TestOperatorID).Return(nil)

	mocks.DormancyRepo.On("Create", ctx, mock.MatchedBy(func(r *entities.DormancyRecord) bool {
		return r.ConfiscatedGeneral == 750 && r.ConfiscatedBetting == 0 && r.BettingEntryID == nil
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.PointsConfiscatedEvent")).Return(nil)

	record, err := service.Confiscate(ctx, TestCustomerID, "dormant account cleanup", TestOperatorID)

	require.NoError(t, err)
	assert.Equal(t, int64(750), record.TotalConfiscated())
	mocks.AssertAllExpectations(t)
}

func TestDormancyService_Confiscate_NoBalance(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewDormancyService(mocks.CustomerRepo, mocks.LedgerRepo, mocks.DormancyRepo, mocks.EventPublisher)

	customer := &entities.Customer{ID: TestCustomerID}
	mocks.CustomerRepo.On("GetByID", ctx, TestCustomerID).Return(customer, nil)

	_, err := service.Confiscate(ctx, TestCustomerID, "dormant account cleanup", TestOperatorID)

	var validation *entities.ValidationError
	require.ErrorAs(t, err, &validation)
	mocks.LedgerRepo.AssertNotCalled(t, "Create")
}
