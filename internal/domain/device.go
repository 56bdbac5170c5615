package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeviceStatus string

const (
	DeviceStatusAvailable DeviceStatus = "AVAILABLE"
	DeviceStatusReserved  DeviceStatus = "RESERVED"
	DeviceStatusSold      DeviceStatus = "SOLD"
)

type LockStatus string

const (
	LockStatusLocked   LockStatus = "LOCKED"
	LockStatusUnlocked LockStatus = "UNLOCKED"
)

// Device is a financed handset. Sale status and lock status are
// independent axes: a sold device may be locked by collections and
// unlocked again once the loan recovers.
type Device struct {
	ID         string
	IMEI       string
	Model      string
	ShopID     string
	Status     DeviceStatus
	LockStatus LockStatus
	CreatedAt  time.Time
}

func NewDevice(imei, model string, now time.Time) (*Device, error) {
	if imei == "" {
		return nil, ErrInvalidIMEI
	}

	return &Device{
		ID:         uuid.New().String(),
		IMEI:       imei,
		Model:      model,
		Status:     DeviceStatusAvailable,
		LockStatus: LockStatusUnlocked,
		CreatedAt:  now,
	}, nil
}

// AssignToShop reserves an available device for a shop's inventory.
func (d *Device) AssignToShop(shopID string) error {
	if d.Status != DeviceStatusAvailable {
		return ErrDeviceUnavailable
	}
	d.ShopID = shopID
	d.Status = DeviceStatusReserved
	return nil
}

// MarkSold finalizes the handover at sale completion. Availability was
// checked when the sale was created; the guard here only prevents
// selling the same device twice.
func (d *Device) MarkSold() error {
	if d.Status == DeviceStatusSold {
		return ErrDeviceUnavailable
	}
	d.Status = DeviceStatusSold
	return nil
}

// SetLockStatus records the outcome reported back by the device
// management collaborator. Requesting a lock never flips this directly.
func (d *Device) SetLockStatus(locked bool) {
	if locked {
		d.LockStatus = LockStatusLocked
	} else {
		d.LockStatus = LockStatusUnlocked
	}
}

func (d *Device) CanUpdate() bool {
	return d.Status != DeviceStatusSold
}
