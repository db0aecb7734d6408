package application

import (
	"context"

	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/testhelpers"
)

// TestUnitOfWork is an in-memory unit of work backed by repository mocks.
// Begin, Commit and Rollback only count invocations; the mocks carry the
// actual expectations.
type TestUnitOfWork struct {
	CustomerRepo   *testhelpers.MockCustomerRepository
	LedgerRepo     *testhelpers.MockLedgerRepository
	ItemRepo       *testhelpers.MockLineItemRepository
	MatchRepo      *testhelpers.MockMatchRepository
	DormancyRepo   *testhelpers.MockDormancyRecordRepository
	ReportRepo     *testhelpers.MockSettlementReportRepository
	EventPublisher *testhelpers.MockEventPublisher

	BeginErr   error
	CommitErr  error
	Begun      int
	Committed  int
	RolledBack int
}

func NewTestUnitOfWork() *TestUnitOfWork {
	return &TestUnitOfWork{
		CustomerRepo:   &testhelpers.MockCustomerRepository{},
		LedgerRepo:     &testhelpers.MockLedgerRepository{},
		ItemRepo:       &testhelpers.MockLineItemRepository{},
		MatchRepo:      &testhelpers.MockMatchRepository{},
		DormancyRepo:   &testhelpers.MockDormancyRecordRepository{},
		ReportRepo:     &testhelpers.MockSettlementReportRepository{},
		EventPublisher: &testhelpers.MockEventPublisher{},
	}
}

func (u *TestUnitOfWork) Begin(ctx context.Context) error {
	if u.BeginErr != nil {
		return u.BeginErr
	}
	u.Begun++
	return nil
}

func (u *TestUnitOfWork) Commit() error {
	if u.CommitErr != nil {
		return u.CommitErr
	}
	u.Committed++
	return nil
}

func (u *TestUnitOfWork) Rollback() error {
	u.RolledBack++
	return nil
}

func (u *TestUnitOfWork) CustomerRepository() interfaces.CustomerRepository {
	return u.CustomerRepo
}

func (u *TestUnitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return u.LedgerRepo
}

func (u *TestUnitOfWork) LineItemRepository() interfaces.LineItemRepository {
	return u.ItemRepo
}

func (u *TestUnitOfWork) MatchRepository() interfaces.MatchRepository {
	return u.MatchRepo
}

func (u *TestUnitOfWork) DormancyRecordRepository() interfaces.DormancyRecordRepository {
	return u.DormancyRepo
}

func (u *TestUnitOfWork) SettlementReportRepository() interfaces.SettlementReportRepository {
	return u.ReportRepo
}

func (u *TestUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.EventPublisher
}

// TestUnitOfWorkFactory hands out the same TestUnitOfWork on every call so
// tests can set expectations up front.
type TestUnitOfWorkFactory struct {
	UoW *TestUnitOfWork
}

func (f *TestUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}
