package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointsdesk/domain/entities"
)

func TestConfiscationBatch_Run_ContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	uow := NewTestUnitOfWork()
	batch := NewConfiscationBatch(&TestUnitOfWorkFactory{UoW: uow})

	healthy := &entities.Customer{ID: 1, GeneralBalance: 500}
	uow.CustomerRepo.On("GetByID", ctx, int64(1)).Return(healthy, nil)
	uow.CustomerRepo.On("GetByID", ctx, int64(2)).Return(nil, nil)

	uow.LedgerRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerEntry).ID = 11
	})
	uow.CustomerRepo.On("ApplyDelta", ctx, int64(1), entities.CategoryGeneral, int64(-500)).Return(int64(0), nil)
	uow.LedgerRepo.On("MarkApproved", ctx, int64(11), int64(900)).Return(nil)
	uow.DormancyRepo.On("Create", ctx, mock.Anything).Return(nil)
	uow.EventPublisher.On("Publish", mock.Anything).Return(nil)

	report := batch.Run(ctx, []int64{1, 2}, "dormant account cleanup", 900)

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.FailCount)
	require.Len(t, report.Outcomes, 2)
	assert.NotNil(t, report.Outcomes[0].Record)
	assert.Contains(t, report.Outcomes[1].Err, "not found")
	assert.Equal(t, 1, uow.Committed)
}

func TestConfiscationBatch_Run_EmptyInput(t *testing.T) {
	batch := NewConfiscationBatch(&TestUnitOfWorkFactory{UoW: NewTestUnitOfWork()})

	report := batch.Run(context.Background(), nil, "dormant account cleanup", 900)

	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, 0, report.FailCount)
	assert.Empty(t, report.Outcomes)
}
