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

type GORMAgentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAgentRepository(db *gorm.DB, logger *zap.Logger) *GORMAgentRepository {
	return &GORMAgentRepository{db: db, logger: logger}
}

func (r *GORMAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	model := persistence.AgentModelFromDomain(agent)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create agent", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMAgentRepository) FindByID(ctx context.Context, id string) (*domain.Agent, error) {
	var model persistence.AgentModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the agent row so concurrent commission
// accruals do not lose updates.
func (r *GORMAgentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Agent, error) {
	var model persistence.AgentModel

	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMAgentRepository) Save(ctx context.Context, agent *domain.Agent) error {
	model := persistence.AgentModelFromDomain(agent)

	result := r.db.WithContext(ctx).
		Model(&persistence.AgentModel{}).
		Where("id = ?", agent.ID).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"phone":             model.Phone,
			"commission_rate":   model.CommissionRate,
			"commission_earned": model.CommissionEarned,
		})

	if result.Error != nil {
		r.logger.Error("failed to update agent", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrAgentNotFound
	}

	return nil
}
