package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Message = err.Error()
	}
	respondJSON(w, status, response)
}

// respondDomainError maps domain sentinel errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not found", err)
	case domain.IsConflict(err):
		respondError(w, http.StatusConflict, "conflict", err)
	case domain.IsInvalidState(err):
		respondError(w, http.StatusUnprocessableEntity, "invalid state", err)
	case domain.IsInvalidInput(err):
		respondError(w, http.StatusBadRequest, "invalid input", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
