package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

func (h *InventoryHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDeviceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	device, err := h.inventoryService.RegisterDevice(r.Context(), req.IMEI, req.Model)
	if err != nil {
		h.logger.Error("failed to register device",
			zap.Error(err),
			zap.String("imei", req.IMEI),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewDeviceResponse(device))
}

func (h *InventoryHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	device, err := h.inventoryService.GetDevice(r.Context(), deviceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewDeviceResponse(device))
}

func (h *InventoryHandler) AssignDeviceToShop(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	var req dto.AssignShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	device, err := h.inventoryService.AssignDeviceToShop(r.Context(), deviceID, req.ShopID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewDeviceResponse(device))
}

func (h *InventoryHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	var req dto.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	device, err := h.inventoryService.UpdateDevice(r.Context(), deviceID, service.UpdateDeviceRequest{
		Model: req.Model,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewDeviceResponse(device))
}

func (h *InventoryHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShopRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	shop, err := h.inventoryService.CreateShop(r.Context(), req.Name, req.Location)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewShopResponse(shop))
}
