package sqlrepository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMShopRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewShopRepository(db *gorm.DB, logger *zap.Logger) *GORMShopRepository {
	return &GORMShopRepository{db: db, logger: logger}
}

func (r *GORMShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	model := persistence.ShopModelFromDomain(shop)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create shop", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMShopRepository) FindByID(ctx context.Context, id string) (*domain.Shop, error) {
	var model persistence.ShopModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShopNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}
