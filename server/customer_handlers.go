package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
)

type createCustomerRequest struct {
	MemberNumber string `json:"member_number"`
	Name         string `json:"name"`
}

type customerResponse struct {
	ID             int64  `json:"id"`
	MemberNumber   string `json:"member_number"`
	Name           string `json:"name"`
	GeneralBalance int64  `json:"general_balance"`
	BettingBalance int64  `json:"betting_balance"`
	LastActivityAt string `json:"last_activity_at"`
	CreatedAt      string `json:"created_at"`
}

func toCustomerResponse(c *entities.Customer) customerResponse {
	return customerResponse{
		ID:             c.ID,
		MemberNumber:   c.MemberNumber,
		Name:           c.Name,
		GeneralBalance: c.GeneralBalance,
		BettingBalance: c.BettingBalance,
		LastActivityAt: c.LastActivityAt.Format(time.RFC3339),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

// CreateCustomer registers a new customer account with zero balances
func (s *Server) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MemberNumber == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "member_number and name are required")
		return
	}

	var customer *entities.Customer
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		customer, err = uow.CustomerRepository().Create(r.Context(), req.MemberNumber, req.Name)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// GetCustomer returns one customer account
func (s *Server) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var customer *entities.Customer
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		customer, err = uow.CustomerRepository().GetByID(r.Context(), id)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if customer == nil {
		writeError(w, http.StatusNotFound, (&entities.NotFoundError{Entity: "customer", ID: id}).Error())
		return
	}

	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

type balancesResponse struct {
	CustomerID int64 `json:"customer_id"`
	General    int64 `json:"general"`
	Betting    int64 `json:"betting"`
}

// GetBalances returns a customer's two balances
func (s *Server) GetBalances(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var general, betting int64
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		general, betting, err = uow.CustomerRepository().GetBalances(r.Context(), id)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balancesResponse{CustomerID: id, General: general, Betting: betting})
}

// GetCustomerEntries returns a customer's ledger history, newest first
func (s *Server) GetCustomerEntries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
	}

	var entries []*entities.LedgerEntry
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.LedgerRepository().GetByCustomer(r.Context(), id, limit)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}
