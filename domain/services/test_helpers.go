package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/events"
	"pointsdesk/domain/testhelpers"
)

// Test constants for consistent test data
const (
	TestCustomerID = int64(100)
	TestOperatorID = int64(900)
	TestStaffID    = int64(800)
	TestEntryID    = int64(1)
	TestMatchID    = int64(50)
	TestTicketID   = int64(70)
	TestItemID     = int64(7)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	CustomerRepo   *testhelpers.MockCustomerRepository
	LedgerRepo     *testhelpers.MockLedgerRepository
	ItemRepo       *testhelpers.MockLineItemRepository
	MatchRepo      *testhelpers.MockMatchRepository
	DormancyRepo   *testhelpers.MockDormancyRecordRepository
	ReportRepo     *testhelpers.MockSettlementReportRepository
	EventPublisher *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		CustomerRepo:   &testhelpers.MockCustomerRepository{},
		LedgerRepo:     &testhelpers.MockLedgerRepository{},
		ItemRepo:       &testhelpers.MockLineItemRepository{},
		MatchRepo:      &testhelpers.MockMatchRepository{},
		DormancyRepo:   &testhelpers.MockDormancyRecordRepository{},
		ReportRepo:     &testhelpers.MockSettlementReportRepository{},
		EventPublisher: &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.CustomerRepo.AssertExpectations(t)
	m.LedgerRepo.AssertExpectations(t)
	m.ItemRepo.AssertExpectations(t)
	m.MatchRepo.AssertExpectations(t)
	m.DormancyRepo.AssertExpectations(t)
	m.ReportRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectCustomerLookup sets up customer repository mock expectations
func (h *MockHelper) ExpectCustomerLookup(customer *entities.Customer) {
	h.mocks.CustomerRepo.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
}

// ExpectCustomerNotFound sets up customer repository mock to return not found
func (h *MockHelper) ExpectCustomerNotFound(customerID int64) {
	h.mocks.CustomerRepo.On("GetByID", mock.Anything, customerID).Return(nil, nil)
}

// ExpectEntryLookup sets up ledger repository mock expectations
func (h *MockHelper) ExpectEntryLookup(entry *entities.LedgerEntry) {
	h.mocks.LedgerRepo.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)
}

// ExpectEntryNotFound sets up ledger repository mock to return not found
func (h *MockHelper) ExpectEntryNotFound(entryID int64) {
	h.mocks.LedgerRepo.On("GetByID", mock.Anything, entryID).Return(nil, nil)
}

// ExpectMatchLookup sets up match repository mock expectations
func (h *MockHelper) ExpectMatchLookup(match *entities.Match) {
	h.mocks.MatchRepo.On("GetByID", mock.Anything, match.ID).Return(match, nil)
}

// ExpectApplyDelta sets up the guarded balance update expectation
func (h *MockHelper) ExpectApplyDelta(customerID int64, category entities.PointCategory, delta, newBalance int64) {
	h.mocks.CustomerRepo.On("ApplyDelta", mock.Anything, customerID, category, delta).Return(newBalance, nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}
