package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/persistence"
	redisrepository "github.com/gigmile/device-financing/internal/infrastructure/repository/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GORMLoanRepository struct {
	db     *gorm.DB
	cache  *redisrepository.RedisLoanCache // nil inside a transaction scope
	logger *zap.Logger
}

func NewLoanRepository(db *gorm.DB, cache *redisrepository.RedisLoanCache, logger *zap.Logger) *GORMLoanRepository {
	return &GORMLoanRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

func (r *GORMLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	model := persistence.LoanModelFromDomain(loan)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create loan", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	return nil
}

func (r *GORMLoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	if r.cache != nil {
		cached, err := r.cache.FindByID(ctx, id)
		if err == nil {
			r.logger.Debug("loan cache hit", zap.String("loan_id", id))
			return cached, nil
		}
	}

	var model persistence.LoanModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		r.logger.Error("failed to query loan", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	loan := model.ToDomain()

	if r.cache != nil {
		go r.cache.Save(context.Background(), loan)
	}

	return loan, nil
}

// FindByIDForUpdate reads through a row lock and always bypasses the
// cache; stale balances inside a read-modify-write window would defeat
// the lock.
func (r *GORMLoanRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	var model persistence.LoanModel

	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMLoanRepository) Save(ctx context.Context, loan *domain.Loan) error {
	model := persistence.LoanModelFromDomain(loan)

	// Invalidate before the write so concurrent readers refetch from MySQL.
	if r.cache != nil {
		if err := r.cache.Delete(ctx, loan.ID); err != nil {
			r.logger.Warn("failed to invalidate loan cache before save",
				zap.Error(err),
				zap.String("loan_id", loan.ID))
		}
	}

	result := r.db.WithContext(ctx).
		Model(&persistence.LoanModel{}).
		Where("id = ? AND version = ?", loan.ID, loan.Version).
		Updates(map[string]interface{}{
			"user_id":            model.UserID,
			"device_id":          model.DeviceID,
			"status":             model.Status,
			"principal_paid":     model.PrincipalPaid,
			"total_paid":         model.TotalPaid,
			"outstanding_amount": model.OutstandingAmount,
			"approved_at":        model.ApprovedAt,
			"disbursed_at":       model.DisbursedAt,
			"due_date":           model.DueDate,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update loan", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrOptimisticLock
	}

	loan.Version++

	if r.cache != nil {
		if err := r.cache.Save(ctx, loan); err != nil {
			r.logger.Warn("failed to update loan cache after save",
				zap.Error(err),
				zap.String("loan_id", loan.ID))
		}
	}

	return nil
}

func (r *GORMLoanRepository) FindDefaulted(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	var models []persistence.LoanModel

	result := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", string(domain.LoanStatusActive), asOf).
		Order("due_date ASC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to query defaulted loans", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	loans := make([]*domain.Loan, len(models))
	for i, model := range models {
		loans[i] = model.ToDomain()
	}

	return loans, nil
}
