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

type GORMSaleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSaleRepository(db *gorm.DB, logger *zap.Logger) *GORMSaleRepository {
	return &GORMSaleRepository{db: db, logger: logger}
}

func (r *GORMSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	model := persistence.SaleModelFromDomain(sale)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create sale", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMSaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	var model persistence.SaleModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the sale row so two OTP submissions for the
// same sale serialize instead of both observing one confirmation flag.
func (r *GORMSaleRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Sale, error) {
	var model persistence.SaleModel

	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMSaleRepository) Save(ctx context.Context, sale *domain.Sale) error {
	model := persistence.SaleModelFromDomain(sale)

	result := r.db.WithContext(ctx).
		Model(&persistence.SaleModel{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"customer_confirmed": model.CustomerConfirmed,
			"agent_confirmed":    model.AgentConfirmed,
			"status":             model.Status,
			"completed_at":       model.CompletedAt,
		})

	if result.Error != nil {
		r.logger.Error("failed to update sale", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}
