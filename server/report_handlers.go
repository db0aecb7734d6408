package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
)

type calculateReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type reportResponse struct {
	ID           int64  `json:"id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Revenue      int64  `json:"revenue"`
	Refunds      int64  `json:"refunds"`
	NetRevenue   int64  `json:"net_revenue"`
	ChargeCount  int    `json:"charge_count"`
	RefundCount  int    `json:"refund_count"`
	CalculatedBy int64  `json:"calculated_by"`
	CreatedAt    string `json:"created_at"`
}

func toReportResponse(report *entities.SettlementReport) reportResponse {
	return reportResponse{
		ID:           report.ID,
		Year:         report.Year,
		Month:        report.Month,
		Revenue:      report.Revenue,
		Refunds:      report.Refunds,
		NetRevenue:   report.NetRevenue,
		ChargeCount:  report.ChargeCount,
		RefundCount:  report.RefundCount,
		CalculatedBy: report.CalculatedBy,
		CreatedAt:    report.CreatedAt.Format(time.RFC3339),
	}
}

// CalculateReport computes and persists the monthly revenue report
func (s *Server) CalculateReport(w http.ResponseWriter, r *http.Request) {
	var req calculateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var report *entities.SettlementReport
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewReportService(uow.LedgerRepository(), uow.SettlementReportRepository())
		var err error
		report, err = svc.Calculate(r.Context(), req.Year, req.Month, mustActor(r))
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReportResponse(report))
}

// GetReport returns the persisted report for a month
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year parameter")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month parameter")
		return
	}

	var report *entities.SettlementReport
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		report, err = uow.SettlementReportRepository().GetByMonth(r.Context(), year, month)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not calculated")
		return
	}

	writeJSON(w, http.StatusOK, toReportResponse(report))
}
