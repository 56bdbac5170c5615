package redisrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/go-redis/redis/v8"
)

var ErrPaymentNotCached = errors.New("payment not in cache")

const paymentCacheTTL = 24 * time.Hour

// RedisPaymentRepository fronts the transaction reference dedup check.
// MySQL's unique index on transaction_ref stays authoritative; the
// cache only answers the common replay fast.
type RedisPaymentRepository struct {
	client *redis.Client
}

func NewRedisPaymentRepository(client *redis.Client) *RedisPaymentRepository {
	return &RedisPaymentRepository{
		client: client,
	}
}

func (r *RedisPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	key := r.paymentKey(payment.TransactionRef)

	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	if err := r.client.Set(ctx, key, data, paymentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache payment: %w", err)
	}

	loanPaymentsKey := r.loanPaymentsKey(payment.LoanID)
	if err := r.client.SAdd(ctx, loanPaymentsKey, payment.TransactionRef).Err(); err != nil {
		return fmt.Errorf("failed to add payment to loan set: %w", err)
	}

	return nil
}

func (r *RedisPaymentRepository) FindByTransactionRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	data, err := r.client.Get(ctx, r.paymentKey(txRef)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPaymentNotCached
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	var payment domain.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}

	return &payment, nil
}

func (r *RedisPaymentRepository) ExistsByTransactionRef(ctx context.Context, txRef string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.paymentKey(txRef)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists > 0, nil
}

func (r *RedisPaymentRepository) paymentKey(txRef string) string {
	return fmt.Sprintf("payment:%s", txRef)
}

func (r *RedisPaymentRepository) loanPaymentsKey(loanID string) string {
	return fmt.Sprintf("loan:%s:payments", loanID)
}
