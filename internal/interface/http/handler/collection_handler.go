package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
	logger            *zap.Logger
}

func NewCollectionHandler(collectionService *service.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger,
	}
}

// GetDefaultedLoans lists active loans past their due date. An optional
// as_of query parameter (RFC 3339) overrides the evaluation time.
func (h *CollectionHandler) GetDefaultedLoans(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time

	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "as_of must be an RFC 3339 timestamp", err)
			return
		}
		asOf = parsed
	}

	loans, err := h.collectionService.FindDefaultedLoans(r.Context(), asOf)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := make([]dto.LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = dto.NewLoanResponse(loan)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(response),
		"loans": response,
	})
}

func (h *CollectionHandler) InitiateCollection(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanId")

	if err := h.collectionService.InitiateCollection(r.Context(), loanID); err != nil {
		h.logger.Error("failed to initiate collection",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"loan_id": loanID,
		"status":  "collection initiated",
	})
}

func (h *CollectionHandler) LockDevice(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanId")

	if err := h.collectionService.LockDevice(r.Context(), loanID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"loan_id": loanID,
		"status":  "lock requested",
	})
}

// DeviceLockCallback records the lock outcome reported by the
// device-management collaborator.
func (h *CollectionHandler) DeviceLockCallback(w http.ResponseWriter, r *http.Request) {
	var req dto.DeviceLockCallbackRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	if err := h.collectionService.ReportDeviceLock(r.Context(), req.IMEI, req.Locked); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "recorded",
	})
}
