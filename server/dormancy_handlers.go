package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
)

func dormancyServiceFrom(uow interfaces.UnitOfWork) interfaces.DormancyService {
	return services.NewDormancyService(
		uow.CustomerRepository(),
		uow.LedgerRepository(),
		uow.DormancyRecordRepository(),
		uow.EventBus(),
	)
}

type dormantListResponse struct {
	Customers      []customerResponse `json:"customers"`
	TotalDormant   int                `json:"total_dormant"`
	TotalBalance   int64              `json:"total_balance"`
	AverageBalance int64              `json:"average_balance"`
}

// ListDormant returns customers inactive beyond the threshold with a
// positive balance, plus aggregate stats
func (s *Server) ListDormant(w http.ResponseWriter, r *http.Request) {
	months := s.dormantMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid months parameter")
			return
		}
		months = parsed
	}

	var customers []*entities.Customer
	var stats *entities.DormancyStats
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		customers, stats, err = dormancyServiceFrom(uow).FindDormant(r.Context(), months)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := dormantListResponse{
		Customers:      make([]customerResponse, 0, len(customers)),
		TotalDormant:   stats.TotalDormant,
		TotalBalance:   stats.TotalBalance,
		AverageBalance: stats.AverageBalance,
	}
	for _, customer := range customers {
		resp.Customers = append(resp.Customers, toCustomerResponse(customer))
	}
	writeJSON(w, http.StatusOK, resp)
}

type confiscateBatchRequest struct {
	CustomerIDs []int64 `json:"customer_ids"`
	Reason      string  `json:"reason"`
}

type confiscationOutcomeResponse struct {
	CustomerID  int64  `json:"customer_id"`
	Confiscated int64  `json:"confiscated,omitempty"`
	Err         string `json:"error,omitempty"`
}

type confiscateBatchResponse struct {
	Outcomes     []confiscationOutcomeResponse `json:"outcomes"`
	SuccessCount int                           `json:"success_count"`
	FailCount    int                           `json:"fail_count"`
}

// ConfiscateBatch confiscates the listed customers' balances, one
// transaction per customer; individual failures never abort the batch
func (s *Server) ConfiscateBatch(w http.ResponseWriter, r *http.Request) {
	var req confiscateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.CustomerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "customer_ids is required")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	report := s.batch.Run(r.Context(), req.CustomerIDs, req.Reason, mustActor(r))

	resp := confiscateBatchResponse{
		Outcomes:     make([]confiscationOutcomeResponse, 0, len(report.Outcomes)),
		SuccessCount: report.SuccessCount,
		FailCount:    report.FailCount,
	}
	for _, outcome := range report.Outcomes {
		item := confiscationOutcomeResponse{
			CustomerID: outcome.CustomerID,
			Err:        outcome.Err,
		}
		if outcome.Record != nil {
			item.Confiscated = outcome.Record.TotalConfiscated()
		}
		resp.Outcomes = append(resp.Outcomes, item)
	}
	writeJSON(w, http.StatusOK, resp)
}
