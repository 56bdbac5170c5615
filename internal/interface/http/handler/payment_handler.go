package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePayment records a repayment attempt and hands it to the gateway.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	payment, err := h.paymentService.CreatePayment(r.Context(), service.CreatePaymentRequest{
		LoanID:         req.LoanID,
		Amount:         req.GetAmount(),
		Method:         domain.PaymentMethod(req.Method),
		TransactionRef: req.TransactionRef,
	})
	if err != nil {
		h.logger.Error("failed to create payment",
			zap.Error(err),
			zap.String("loan_id", req.LoanID),
			zap.String("tx_ref", req.TransactionRef),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPaymentResponse(payment))
}

// SettlementCallback handles the gateway webhook. A replayed reference
// returns 200 with the already-settled payment so the gateway stops
// retrying.
func (h *PaymentHandler) SettlementCallback(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlementCallbackRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	err := h.paymentService.SettlePayment(r.Context(), service.SettlePaymentRequest{
		TransactionRef: req.TransactionRef,
		Succeeded:      req.Succeeded(),
		ReceiptNumber:  req.ReceiptNumber,
	})
	if err != nil {
		h.logger.Error("failed to settle payment",
			zap.Error(err),
			zap.String("tx_ref", req.TransactionRef),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "accepted",
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	payment, err := h.paymentService.GetPayment(r.Context(), paymentID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentResponse(payment))
}

// GetLoanPayments lists payments for the loan given in the query string.
func (h *PaymentHandler) GetLoanPayments(w http.ResponseWriter, r *http.Request) {
	loanID := r.URL.Query().Get("loan_id")
	if loanID == "" {
		respondError(w, http.StatusBadRequest, "loan_id is required", nil)
		return
	}

	payments, err := h.paymentService.GetLoanPayments(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"loan_id":  loanID,
		"count":    len(payments),
		"payments": dto.NewPaymentListResponse(payments),
	})
}

// HealthCheck handles health check endpoint
func (h *PaymentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
