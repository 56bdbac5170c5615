package sqlrepository

import (
	"context"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMScheduleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewScheduleRepository(db *gorm.DB, logger *zap.Logger) *GORMScheduleRepository {
	return &GORMScheduleRepository{db: db, logger: logger}
}

// CreateCharges inserts the full schedule in one batch. The unique
// (loan_id, period) index turns a replayed generation into a duplicate
// error instead of a double schedule.
func (r *GORMScheduleRepository) CreateCharges(ctx context.Context, charges []*domain.LoanCharge) error {
	if len(charges) == 0 {
		return nil
	}

	models := make([]*persistence.LoanChargeModel, len(charges))
	for i, charge := range charges {
		if charge.ID == "" {
			charge.ID = uuid.New().String()
		}
		models[i] = persistence.LoanChargeModelFromDomain(charge)
	}

	result := r.db.WithContext(ctx).Create(models)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			r.logger.Warn("schedule already exists",
				zap.String("loan_id", charges[0].LoanID))
			return nil
		}
		r.logger.Error("failed to create loan charges", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMScheduleRepository) CountByLoanID(ctx context.Context, loanID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&persistence.LoanChargeModel{}).
		Where("loan_id = ?", loanID).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("database error: %w", result.Error)
	}

	return count, nil
}

func (r *GORMScheduleRepository) FindByLoanID(ctx context.Context, loanID string) ([]*domain.LoanCharge, error) {
	var models []persistence.LoanChargeModel

	result := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("period ASC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch loan charges",
			zap.Error(result.Error),
			zap.String("loan_id", loanID),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	charges := make([]*domain.LoanCharge, len(models))
	for i, model := range models {
		charges[i] = model.ToDomain()
	}

	return charges, nil
}
