package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SaleHandler struct {
	saleService *service.SaleService
	logger      *zap.Logger
}

func NewSaleHandler(saleService *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	sale, err := h.saleService.CreateSale(r.Context(), service.CreateSaleRequest{
		LoanID:        req.LoanID,
		AgentID:       req.AgentID,
		ShopID:        req.ShopID,
		DeviceIMEI:    req.DeviceIMEI,
		DepositAmount: req.GetDepositAmount(),
	})
	if err != nil {
		h.logger.Error("failed to create sale",
			zap.Error(err),
			zap.String("loan_id", req.LoanID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewSaleResponse(sale))
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	sale, err := h.saleService.GetSale(r.Context(), saleID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSaleResponse(sale))
}

// VerifyOtp records one party's confirmation code.
func (h *SaleHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	saleID := chi.URLParam(r, "id")

	var req dto.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	result, err := h.saleService.VerifyOtp(r.Context(), saleID, req.OTP)
	if err != nil {
		h.logger.Warn("OTP verification rejected",
			zap.Error(err),
			zap.String("sale_id", saleID),
		)
		respondDomainError(w, err)
		return
	}

	sale, err := h.saleService.GetSale(r.Context(), saleID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.VerifyOtpResponse{
		Completed: result.Completed,
		Sale:      dto.NewSaleResponse(sale),
	})
}

func (h *SaleHandler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterAgentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	agent, err := h.saleService.RegisterAgent(r.Context(), req.Name, req.Phone, req.GetCommissionRate())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewAgentResponse(agent))
}
