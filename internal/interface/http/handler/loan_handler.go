package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loanService *service.LoanService
	logger      *zap.Logger
}

func NewLoanHandler(loanService *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), service.CreateLoanRequest{
		UserID:       req.UserID,
		DeviceID:     req.DeviceID,
		Amount:       req.GetAmount(),
		InterestRate: req.GetInterestRate(),
		TenureMonths: req.TenureMonths,
	})
	if err != nil {
		h.logger.Error("failed to create loan",
			zap.Error(err),
			zap.String("user_id", req.UserID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	loan, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	charges, err := h.loanService.GetSchedule(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewScheduleResponse(loanID, charges))
}

func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	loan, err := h.loanService.ApproveLoan(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	loan, err := h.loanService.DisburseLoan(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	var req dto.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	loan, err := h.loanService.UpdateLoan(r.Context(), loanID, service.UpdateLoanRequest{
		UserID:   req.UserID,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

func (h *LoanHandler) EarlyRepaymentQuote(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	quote, err := h.loanService.EarlyRepaymentQuote(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewEarlyRepaymentResponse(loanID, quote))
}
