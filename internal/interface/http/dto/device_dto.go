package dto

import (
	"errors"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
)

type RegisterDeviceRequest struct {
	IMEI  string `json:"imei"`
	Model string `json:"model,omitempty"`
}

func (r *RegisterDeviceRequest) Validate() error {
	if r.IMEI == "" {
		return errors.New("imei is required")
	}
	return nil
}

type AssignShopRequest struct {
	ShopID string `json:"shop_id"`
}

func (r *AssignShopRequest) Validate() error {
	if r.ShopID == "" {
		return errors.New("shop_id is required")
	}
	return nil
}

type UpdateDeviceRequest struct {
	Model *string `json:"model,omitempty"`
}

// DeviceLockCallbackRequest is the device-management collaborator's
// report of a lock or unlock outcome.
type DeviceLockCallbackRequest struct {
	IMEI   string `json:"imei"`
	Locked bool   `json:"locked"`
}

func (r *DeviceLockCallbackRequest) Validate() error {
	if r.IMEI == "" {
		return errors.New("imei is required")
	}
	return nil
}

type DeviceResponse struct {
	ID         string    `json:"id"`
	IMEI       string    `json:"imei"`
	Model      string    `json:"model,omitempty"`
	ShopID     string    `json:"shop_id,omitempty"`
	Status     string    `json:"status"`
	LockStatus string    `json:"lock_status"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewDeviceResponse(device *domain.Device) DeviceResponse {
	return DeviceResponse{
		ID:         device.ID,
		IMEI:       device.IMEI,
		Model:      device.Model,
		ShopID:     device.ShopID,
		Status:     string(device.Status),
		LockStatus: string(device.LockStatus),
		CreatedAt:  device.CreatedAt,
	}
}

type CreateShopRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func (r *CreateShopRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type ShopResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewShopResponse(shop *domain.Shop) ShopResponse {
	return ShopResponse{
		ID:        shop.ID,
		Name:      shop.Name,
		Location:  shop.Location,
		CreatedAt: shop.CreatedAt,
	}
}
