package server

import (
	"encoding/json"
	"net/http"
	"time"

	"pointsdesk/domain/entities"
	"pointsdesk/domain/interfaces"
	"pointsdesk/domain/services"
)

type createEntryRequest struct {
	CustomerID     int64  `json:"customer_id"`
	Amount         int64  `json:"amount"`
	Category       string `json:"category"`
	Kind           string `json:"kind"`
	Reason         string `json:"reason"`
	OriginTicketID *int64 `json:"origin_ticket_id,omitempty"`
}

type entryResponse struct {
	ID             int64   `json:"id"`
	CustomerID     int64   `json:"customer_id"`
	Amount         int64   `json:"amount"`
	Category       string  `json:"category"`
	Kind           string  `json:"kind"`
	State          string  `json:"state"`
	Reason         string  `json:"reason"`
	OriginTicketID *int64  `json:"origin_ticket_id,omitempty"`
	RequestedBy    int64   `json:"requested_by"`
	ApprovedBy     *int64  `json:"approved_by,omitempty"`
	ReversalOfID   *int64  `json:"reversal_of_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
	ProcessedAt    *string `json:"processed_at,omitempty"`
}

func toEntryResponse(e *entities.LedgerEntry) entryResponse {
	resp := entryResponse{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		Amount:         e.Amount,
		Category:       e.Category.String(),
		Kind:           e.Kind.String(),
		State:          e.State.String(),
		Reason:         e.Reason,
		OriginTicketID: e.OriginTicketID,
		RequestedBy:    e.RequestedBy,
		ApprovedBy:     e.ApprovedBy,
		ReversalOfID:   e.ReversalOfID,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.ProcessedAt != nil {
		processed := e.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processed
	}
	return resp
}

func ledgerServiceFrom(uow interfaces.UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.CustomerRepository(), uow.LedgerRepository(), uow.EventBus())
}

// CreateEntry records a pending point movement awaiting approval
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var entry *entities.LedgerEntry
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		entry, err = ledgerServiceFrom(uow).CreateEntry(
			r.Context(),
			req.CustomerID,
			req.Amount,
			entities.PointCategory(req.Category),
			entities.EntryKind(req.Kind),
			req.Reason,
			req.OriginTicketID,
			mustActor(r),
		)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// ApproveEntry applies a pending entry to its balance
func (s *Server) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		return ledgerServiceFrom(uow).Approve(r.Context(), id, mustActor(r))
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// RejectEntry declines a pending entry without touching any balance
func (s *Server) RejectEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		return ledgerServiceFrom(uow).Reject(r.Context(), id, mustActor(r))
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

type reverseEntryRequest struct {
	Reason string `json:"reason"`
}

// ReverseEntry creates and approves a negated copy of an approved entry
func (s *Server) ReverseEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req reverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var reversal *entities.LedgerEntry
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		reversal, err = ledgerServiceFrom(uow).Reverse(r.Context(), id, req.Reason, mustActor(r))
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(reversal))
}
