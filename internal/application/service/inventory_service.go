package service

import (
	"context"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"go.uber.org/zap"
)

// InventoryService manages the device stock that backs loans: intake,
// shop assignment and catalogue edits. Sold devices are immutable.
type InventoryService struct {
	deviceRepo domain.DeviceRepository
	shopRepo   domain.ShopRepository
	uow        domain.UnitOfWork
	clock      domain.Clock
	logger     *zap.Logger
}

func NewInventoryService(
	deviceRepo domain.DeviceRepository,
	shopRepo domain.ShopRepository,
	uow domain.UnitOfWork,
	clock domain.Clock,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		deviceRepo: deviceRepo,
		shopRepo:   shopRepo,
		uow:        uow,
		clock:      clock,
		logger:     logger,
	}
}

func (s *InventoryService) RegisterDevice(ctx context.Context, imei, model string) (*domain.Device, error) {
	device, err := domain.NewDevice(imei, model, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.deviceRepo.Create(ctx, device); err != nil {
		s.logger.Error("failed to register device",
			zap.Error(err),
			zap.String("imei", imei),
		)
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	s.logger.Info("device registered",
		zap.String("device_id", device.ID),
		zap.String("imei", device.IMEI),
		zap.String("model", device.Model),
	)
	return device, nil
}

func (s *InventoryService) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	return s.deviceRepo.FindByID(ctx, id)
}

// AssignDeviceToShop reserves an available device for a shop.
func (s *InventoryService) AssignDeviceToShop(ctx context.Context, deviceID, shopID string) (*domain.Device, error) {
	if _, err := s.shopRepo.FindByID(ctx, shopID); err != nil {
		return nil, err
	}

	var assigned *domain.Device
	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		device, err := tx.Devices().FindByID(ctx, deviceID)
		if err != nil {
			return err
		}
		if err := device.AssignToShop(shopID); err != nil {
			return err
		}
		if err := tx.Devices().Save(ctx, device); err != nil {
			return err
		}
		assigned = device
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("device assigned to shop",
		zap.String("device_id", deviceID),
		zap.String("shop_id", shopID),
	)
	return assigned, nil
}

type UpdateDeviceRequest struct {
	Model *string
}

func (s *InventoryService) UpdateDevice(ctx context.Context, id string, req UpdateDeviceRequest) (*domain.Device, error) {
	var updated *domain.Device

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		device, err := tx.Devices().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !device.CanUpdate() {
			return domain.ErrDeviceSold
		}
		if req.Model != nil {
			device.Model = *req.Model
		}
		if err := tx.Devices().Save(ctx, device); err != nil {
			return err
		}
		updated = device
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *InventoryService) CreateShop(ctx context.Context, name, location string) (*domain.Shop, error) {
	shop := domain.NewShop(name, location, s.clock.Now())
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	s.logger.Info("shop created",
		zap.String("shop_id", shop.ID),
		zap.String("name", shop.Name),
	)
	return shop, nil
}
