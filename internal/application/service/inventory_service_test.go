package service

import (
	"context"
	"testing"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInventoryService(f *fixture) *InventoryService {
	return NewInventoryService(f.devices, f.shops, f.uow, f.clock, zap.NewNop())
}

func TestRegisterDevice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newInventoryService(f)

	device, err := service.RegisterDevice(ctx, "356938035643801", "Galaxy A15")
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusAvailable, device.Status)
	assert.Equal(t, domain.LockStatusUnlocked, device.LockStatus)

	_, err = service.RegisterDevice(ctx, "", "Galaxy A15")
	assert.ErrorIs(t, err, domain.ErrInvalidIMEI)
}

func TestAssignDeviceToShop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newInventoryService(f)

	shop, err := service.CreateShop(ctx, "Ikeja Flagship", "Lagos")
	require.NoError(t, err)

	device, err := service.RegisterDevice(ctx, "356938035643801", "Galaxy A15")
	require.NoError(t, err)

	assigned, err := service.AssignDeviceToShop(ctx, device.ID, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceStatusReserved, assigned.Status)
	assert.Equal(t, shop.ID, assigned.ShopID)

	// A reserved device cannot be assigned again.
	_, err = service.AssignDeviceToShop(ctx, device.ID, shop.ID)
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}

func TestAssignDeviceToShop_UnknownShop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newInventoryService(f)

	device, err := service.RegisterDevice(ctx, "356938035643801", "Galaxy A15")
	require.NoError(t, err)

	_, err = service.AssignDeviceToShop(ctx, device.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrShopNotFound)
}

func TestUpdateDevice_SoldIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	service := newInventoryService(f)

	device, err := service.RegisterDevice(ctx, "356938035643801", "Galaxy A15")
	require.NoError(t, err)

	require.NoError(t, device.MarkSold())
	require.NoError(t, f.devices.Save(ctx, device))

	model := "Galaxy A16"
	_, err = service.UpdateDevice(ctx, device.ID, UpdateDeviceRequest{Model: &model})
	assert.ErrorIs(t, err, domain.ErrDeviceSold)
}
