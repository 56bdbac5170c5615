package sqlrepository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GORMDeviceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDeviceRepository(db *gorm.DB, logger *zap.Logger) *GORMDeviceRepository {
	return &GORMDeviceRepository{db: db, logger: logger}
}

func (r *GORMDeviceRepository) Create(ctx context.Context, device *domain.Device) error {
	model := persistence.DeviceModelFromDomain(device)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return domain.ErrDeviceUnavailable
		}
		r.logger.Error("failed to create device", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMDeviceRepository) FindByID(ctx context.Context, id string) (*domain.Device, error) {
	var model persistence.DeviceModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMDeviceRepository) FindByIMEI(ctx context.Context, imei string) (*domain.Device, error) {
	var model persistence.DeviceModel

	result := r.db.WithContext(ctx).
		Where("imei = ?", imei).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMDeviceRepository) FindByIMEIForUpdate(ctx context.Context, imei string) (*domain.Device, error) {
	var model persistence.DeviceModel

	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("imei = ?", imei).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMDeviceRepository) Save(ctx context.Context, device *domain.Device) error {
	model := persistence.DeviceModelFromDomain(device)

	result := r.db.WithContext(ctx).
		Model(&persistence.DeviceModel{}).
		Where("id = ?", device.ID).
		Updates(map[string]interface{}{
			"model":       model.Model,
			"shop_id":     model.ShopID,
			"status":      model.Status,
			"lock_status": model.LockStatus,
		})

	if result.Error != nil {
		r.logger.Error("failed to update device", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrDeviceNotFound
	}

	return nil
}
