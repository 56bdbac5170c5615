package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/persistence"
	redisrepository "github.com/gigmile/device-financing/internal/infrastructure/repository/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GORMPaymentRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisPaymentRepository // nil inside a transaction scope
	logger    *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, redisRepo *redisrepository.RedisPaymentRepository, logger *zap.Logger) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db:        db,
		redisRepo: redisRepo,
		logger:    logger,
	}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if r.redisRepo != nil {
		exists, err := r.redisRepo.ExistsByTransactionRef(ctx, payment.TransactionRef)
		if err != nil {
			r.logger.Warn("redis dedup check failed, falling back to MySQL", zap.Error(err))
		} else if exists {
			return domain.ErrDuplicateTransaction
		}
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	model := persistence.PaymentModelFromDomain(payment)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return domain.ErrDuplicateTransaction
		}

		r.logger.Error("failed to save payment", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if r.redisRepo != nil {
		go r.redisRepo.Save(context.Background(), payment)
	}

	r.logger.Debug("payment saved to MySQL",
		zap.String("payment_id", payment.ID),
		zap.String("tx_ref", payment.TransactionRef),
	)

	return nil
}

func (r *GORMPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var model persistence.PaymentModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMPaymentRepository) FindByTransactionRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	var model persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("transaction_ref = ?", txRef).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payment := model.ToDomain()

	if r.redisRepo != nil {
		go r.redisRepo.Save(context.Background(), payment)
	}

	return payment, nil
}

// FindByTransactionRefForUpdate locks the payment row so a settlement
// callback replayed concurrently serializes behind the first delivery.
func (r *GORMPaymentRepository) FindByTransactionRefForUpdate(ctx context.Context, txRef string) (*domain.Payment, error) {
	var model persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_ref = ?", txRef).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMPaymentRepository) ExistsByTransactionRef(ctx context.Context, txRef string) (bool, error) {
	if r.redisRepo != nil {
		exists, err := r.redisRepo.ExistsByTransactionRef(ctx, txRef)
		if err == nil && exists {
			r.logger.Debug("payment exists (Redis cache)", zap.String("tx_ref", txRef))
			return true, nil
		}
	}

	var count int64
	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("transaction_ref = ?", txRef).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("failed to check payment existence", zap.Error(result.Error))
		return false, fmt.Errorf("database error: %w", result.Error)
	}

	existsInDB := count > 0

	if existsInDB && r.redisRepo != nil {
		payment, err := r.FindByTransactionRef(ctx, txRef)
		if err == nil {
			go r.redisRepo.Save(context.Background(), payment)
		}
	}

	return existsInDB, nil
}

func (r *GORMPaymentRepository) FindByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch payments by loan ID",
			zap.Error(result.Error),
			zap.String("loan_id", loanID),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}

	r.logger.Debug("fetched payments by loan ID",
		zap.String("loan_id", loanID),
		zap.Int("count", len(payments)),
	)

	return payments, nil
}

func (r *GORMPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	model := persistence.PaymentModelFromDomain(payment)

	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"receipt_number": model.ReceiptNumber,
			"paid_at":        model.PaidAt,
		})

	if result.Error != nil {
		r.logger.Error("failed to update payment", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrPaymentNotFound
	}

	if r.redisRepo != nil {
		go r.redisRepo.Save(context.Background(), payment)
	}

	return nil
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
