package testhelpers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*entities.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, memberNumber, name string) (*entities.Customer, error) {
	args := m.Called(ctx, memberNumber, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetBalances(ctx context.Context, id int64) (int64, int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ApplyDelta(ctx context.Context, id int64, category entities.PointCategory, delta int64) (int64, error) {
	args := m.Called(ctx, id, category, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) GetDormant(ctx context.Context, cutoff time.Time) ([]*entities.Customer, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Customer), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) MarkApproved(ctx context.Context, id int64, approvedBy int64) error {
	args := m.Called(ctx, id, approvedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkRejected(ctx context.Context, id int64, rejectedBy int64) error {
	args := m.Called(ctx, id, rejectedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkReversed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByCustomer(ctx context.Context, customerID int64, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumApprovedByKind(ctx context.Context, kind entities.EntryKind, from, to time.Time) (int64, int, error) {
	args := m.Called(ctx, kind, from, to)
	return args.Get(0).(int64), args.Get(1).(int), args.Error(2)
}

// MockLineItemRepository is a mock implementation of LineItemRepository
type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) Create(ctx context.Context, item *entities.BettingLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLineItemRepository) GetByID(ctx context.Context, id int64) (*entities.BettingLineItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BettingLineItem), args.Error(1)
}

func (m *MockLineItemRepository) GetByTicket(ctx context.Context, ticketID int64) ([]*entities.BettingLineItem, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BettingLineItem), args.Error(1)
}

func (m *MockLineItemRepository) GetOpenByMatch(ctx context.Context, matchID int64) ([]*entities.BettingLineItem, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BettingLineItem), args.Error(1)
}

func (m *MockLineItemRepository) CountByMatch(ctx context.Context, matchID int64) (int, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).(int), args.Error(1)
}

func (m *MockLineItemRepository) UpdateOdds(ctx context.Context, id int64, odds decimal.Decimal, potentialPayout int64) error {
	args := m.Called(ctx, id, odds, potentialPayout)
	return args.Error(0)
}

func (m *MockLineItemRepository) MarkSettled(ctx context.Context, id int64, status entities.LineItemStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int64) (*entities.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Match), args.Error(1)
}

func (m *MockMatchRepository) Update(ctx context.Context, match *entities.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) MarkSettled(ctx context.Context, id int64, result entities.MatchOutcome, settledBy int64) error {
	args := m.Called(ctx, id, result, settledBy)
	return args.Error(0)
}

// MockDormancyRecordRepository is a mock implementation of DormancyRecordRepository
type MockDormancyRecordRepository struct {
	mock.Mock
}

func (m *MockDormancyRecordRepository) Create(ctx context.Context, record *entities.DormancyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDormancyRecordRepository) GetByCustomer(ctx context.Context, customerID int64) ([]*entities.DormancyRecord, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DormancyRecord), args.Error(1)
}

// MockSettlementReportRepository is a mock implementation of SettlementReportRepository
type MockSettlementReportRepository struct {
	mock.Mock
}

func (m *MockSettlementReportRepository) Create(ctx context.Context, report *entities.SettlementReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockSettlementReportRepository) GetByMonth(ctx context.Context, year, month int) (*entities.SettlementReport, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SettlementReport), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
