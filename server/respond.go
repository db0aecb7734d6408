package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"pointsdesk/domain/entities"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Unrecognized errors are logged and reported as 500 without leaking
// internals.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *entities.ValidationError
	var notFoundErr *entities.NotFoundError
	var alreadyProcessedErr *entities.AlreadyProcessedError
	var notApprovedErr *entities.NotApprovedError
	var insufficientErr *entities.InsufficientBalanceError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &alreadyProcessedErr):
		writeError(w, http.StatusConflict, alreadyProcessedErr.Error())
	case errors.As(err, &notApprovedErr):
		writeError(w, http.StatusConflict, notApprovedErr.Error())
	case errors.As(err, &insufficientErr):
		writeError(w, http.StatusUnprocessableEntity, insufficientErr.Error())
	default:
		log.WithError(err).Error("Request failed with internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
