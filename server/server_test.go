package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pointsdesk/application"
	"pointsdesk/domain/entities"
	"pointsdesk/domain/services"
)

func newTestServer(t *testing.T) (*Server, *application.TestUnitOfWork) {
	t.Helper()
	uow := application.NewTestUnitOfWork()
	factory := &application.TestUnitOfWorkFactory{UoW: uow}
	srv := NewServer(
		":0",
		factory,
		application.NewSettlementEngine(factory),
		application.NewConfiscationBatch(factory),
		services.DefaultOddsPolicy(),
		12,
	)
	return srv, uow
}

func doRequest(t *testing.T, srv *Server, method, path string, body any, actorID int64, role entities.Role) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if actorID > 0 {
		req.Header.Set(headerActorID, strconv.FormatInt(actorID, 10))
		req.Header.Set(headerActorRole, role.String())
	}

	recorder := httptest.NewRecorder()
	srv.Router().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	return out
}

func TestIdentityMiddleware(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("rejects missing identity", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodGet, "/api/customers/1", nil, 0, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodGet, "/api/customers/1", nil, 42, "janitor")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("health needs no identity", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodGet, "/health", nil, 0, "")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestRoleGates(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("employee cannot create entries", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodPost, "/api/entries", createEntryRequest{}, 42, entities.RoleEmployee)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("staff cannot approve entries", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodPost, "/api/entries/1/approve", nil, 42, entities.RoleStaff)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("staff cannot settle matches", func(t *testing.T) {
		recorder := doRequest(t, srv, http.MethodPost, "/api/matches/1/settle", settleMatchRequest{Result: "home"}, 42, entities.RoleStaff)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestCreateEntry(t *testing.T) {
	srv, uow := newTestServer(t)

	uow.CustomerRepo.On("GetByID", mock.Anything, int64(100)).
		Return(&entities.Customer{ID: 100, MemberNumber: "M-100"}, nil)
	uow.LedgerRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.Amount == -200 && e.Kind == entities.KindUse && e.State == entities.EntryStatePending
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerEntry).ID = 11
	}).Return(nil)

	recorder := doRequest(t, srv, http.MethodPost, "/api/entries", createEntryRequest{
		CustomerID: 100,
		Amount:     200,
		Category:   "general",
		Kind:       "use",
		Reason:     "commissary purchase",
	}, 42, entities.RoleStaff)

	require.Equal(t, http.StatusCreated, recorder.Code)
	resp := decodeBody[entryResponse](t, recorder)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, int64(-200), resp.Amount)
	assert.Equal(t, "pending", resp.State)
	assert.Equal(t, int64(42), resp.RequestedBy)
	assert.Equal(t, 1, uow.Committed)
	uow.LedgerRepo.AssertExpectations(t)
}

func TestApproveEntry(t *testing.T) {
	pendingEntry := func() *entities.LedgerEntry {
		return &entities.LedgerEntry{
			ID:         11,
			CustomerID: 100,
			Amount:     -500,
			Category:   entities.CategoryGeneral,
			Kind:       entities.KindUse,
			State:      entities.EntryStatePending,
		}
	}

	t.Run("applies the entry and commits", func(t *testing.T) {
		srv, uow := newTestServer(t)
		uow.LedgerRepo.On("GetByID", mock.Anything, int64(11)).Return(pendingEntry(), nil)
		uow.CustomerRepo.On("GetBalances", mock.Anything, int64(100)).Return(int64(1000), int64(0), nil)
		uow.CustomerRepo.On("ApplyDelta", mock.Anything, int64(100), entities.CategoryGeneral, int64(-500)).Return(int64(500), nil)
		uow.LedgerRepo.On("MarkApproved", mock.Anything, int64(11), int64(42)).Return(nil)
		uow.EventPublisher.On("Publish", mock.Anything).Return(nil)

		recorder := doRequest(t, srv, http.MethodPost, "/api/entries/11/approve", nil, 42, entities.RoleOperator)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, uow.Committed)
		uow.LedgerRepo.AssertExpectations(t)
	})

	t.Run("insufficient balance rolls back with 422", func(t *testing.T) {
		srv, uow := newTestServer(t)
		uow.LedgerRepo.On("GetByID", mock.Anything, int64(11)).Return(pendingEntry(), nil)
		uow.CustomerRepo.On("GetBalances", mock.Anything, int64(100)).Return(int64(100), int64(0), nil)
		uow.CustomerRepo.On("ApplyDelta", mock.Anything, int64(100), entities.CategoryGeneral, int64(-500)).
			Return(int64(0), &entities.InsufficientBalanceError{
				CustomerID: 100, Category: entities.CategoryGeneral, Balance: 100, Requested: -500,
			})

		recorder := doRequest(t, srv, http.MethodPost, "/api/entries/11/approve", nil, 42, entities.RoleOperator)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Equal(t, 1, uow.RolledBack)
		assert.Equal(t, 0, uow.Committed)
		uow.LedgerRepo.AssertNotCalled(t, "MarkApproved", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already processed returns 409", func(t *testing.T) {
		srv, uow := newTestServer(t)
		approved := pendingEntry()
		approved.State = entities.EntryStateApproved
		uow.LedgerRepo.On("GetByID", mock.Anything, int64(11)).Return(approved, nil)

		recorder := doRequest(t, srv, http.MethodPost, "/api/entries/11/approve", nil, 42, entities.RoleOperator)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestGetCustomer(t *testing.T) {
	t.Run("not found returns 404", func(t *testing.T) {
		srv, uow := newTestServer(t)
		uow.CustomerRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, nil)

		recorder := doRequest(t, srv, http.MethodGet, "/api/customers/7", nil, 42, entities.RoleEmployee)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("returns balances inline", func(t *testing.T) {
		srv, uow := newTestServer(t)
		uow.CustomerRepo.On("GetByID", mock.Anything, int64(7)).Return(&entities.Customer{
			ID:             7,
			MemberNumber:   "M-7",
			Name:           "Block D",
			GeneralBalance: 1200,
			BettingBalance: 300,
		}, nil)

		recorder := doRequest(t, srv, http.MethodGet, "/api/customers/7", nil, 42, entities.RoleEmployee)

		require.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeBody[customerResponse](t, recorder)
		assert.Equal(t, int64(1200), resp.GeneralBalance)
		assert.Equal(t, int64(300), resp.BettingBalance)
	})
}

func TestSettleMatch(t *testing.T) {
	t.Run("unverified match returns 400", func(t *testing.T) {
		srv, uow := newTestServer(t)
		uow.MatchRepo.On("GetByID", mock.Anything, int64(50)).Return(&entities.Match{
			ID: 50, IsFinished: true, IsVerified: false,
		}, nil)

		recorder := doRequest(t, srv, http.MethodPost, "/api/matches/50/settle", settleMatchRequest{Result: "home"}, 42, entities.RoleOperator)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown result key returns 400", func(t *testing.T) {
		srv, _ := newTestServer(t)
		recorder := doRequest(t, srv, http.MethodPost, "/api/matches/50/settle", settleMatchRequest{Result: "overtime"}, 42, entities.RoleOperator)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestListDormant(t *testing.T) {
	srv, uow := newTestServer(t)
	uow.CustomerRepo.On("GetDormant", mock.Anything, mock.Anything).Return([]*entities.Customer{
		{ID: 1, GeneralBalance: 400, LastActivityAt: time.Now().AddDate(-2, 0, 0)},
		{ID: 2, BettingBalance: 200, LastActivityAt: time.Now().AddDate(-3, 0, 0)},
	}, nil)

	recorder := doRequest(t, srv, http.MethodGet, "/api/dormant?months=12", nil, 42, entities.RoleOperator)

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeBody[dormantListResponse](t, recorder)
	assert.Equal(t, 2, resp.TotalDormant)
	assert.Equal(t, int64(600), resp.TotalBalance)
	assert.Equal(t, int64(300), resp.AverageBalance)
	assert.Len(t, resp.Customers, 2)
}

func TestConfiscateBatch(t *testing.T) {
	srv, uow := newTestServer(t)

	// First customer succeeds, second does not exist.
	uow.CustomerRepo.On("GetByID", mock.Anything, int64(1)).Return(&entities.Customer{
		ID: 1, GeneralBalance: 400,
	}, nil)
	uow.CustomerRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)
	uow.LedgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.LedgerEntry).ID = 90
	}).Return(nil)
	uow.CustomerRepo.On("ApplyDelta", mock.Anything, int64(1), entities.CategoryGeneral, int64(-400)).Return(int64(0), nil)
	uow.LedgerRepo.On("MarkApproved", mock.Anything, int64(90), int64(42)).Return(nil)
	uow.DormancyRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	uow.EventPublisher.On("Publish", mock.Anything).Return(nil)

	recorder := doRequest(t, srv, http.MethodPost, "/api/dormant/confiscate", confiscateBatchRequest{
		CustomerIDs: []int64{1, 2},
		Reason:      "dormant sweep",
	}, 42, entities.RoleOperator)

	require.Equal(t, http.StatusOK, recorder.Code)
	resp := decodeBody[confiscateBatchResponse](t, recorder)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailCount)
	require.Len(t, resp.Outcomes, 2)
	assert.Equal(t, int64(400), resp.Outcomes[0].Confiscated)
	assert.NotEmpty(t, resp.Outcomes[1].Err)
}

func TestCalculateReport(t *testing.T) {
	srv, uow := newTestServer(t)
	uow.ReportRepo.On("GetByMonth", mock.Anything, 2026, 7).Return(nil, nil)
	uow.LedgerRepo.On("SumApprovedByKind", mock.Anything, entities.KindCharge, mock.Anything, mock.Anything).
		Return(int64(50000), 12, nil)
	uow.LedgerRepo.On("SumApprovedByKind", mock.Anything, entities.KindRefund, mock.Anything, mock.Anything).
		Return(int64(3000), 2, nil)
	uow.ReportRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.SettlementReport).ID = 5
	}).Return(nil)

	recorder := doRequest(t, srv, http.MethodPost, "/api/reports/calculate", calculateReportRequest{
		Year: 2026, Month: 7,
	}, 42, entities.RoleOperator)

	require.Equal(t, http.StatusCreated, recorder.Code)
	resp := decodeBody[reportResponse](t, recorder)
	assert.Equal(t, int64(47000), resp.NetRevenue)
	assert.Equal(t, 12, resp.ChargeCount)
}
