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

var ErrCacheMiss = errors.New("loan not in cache")

const loanCacheTTL = 10 * time.Minute

// RedisLoanCache is a read-through cache in front of the loans table.
// Writers invalidate before updating MySQL so readers never serve a
// balance older than the row.
type RedisLoanCache struct {
	client *redis.Client
}

func NewRedisLoanCache(client *redis.Client) *RedisLoanCache {
	return &RedisLoanCache{client: client}
}

func (r *RedisLoanCache) FindByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	data, err := r.client.Get(ctx, r.loanKey(loanID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	var loan domain.Loan
	if err := json.Unmarshal(data, &loan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal loan: %w", err)
	}

	return &loan, nil
}

func (r *RedisLoanCache) Save(ctx context.Context, loan *domain.Loan) error {
	data, err := json.Marshal(loan)
	if err != nil {
		return fmt.Errorf("failed to marshal loan: %w", err)
	}

	if err := r.client.Set(ctx, r.loanKey(loan.ID), data, loanCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache loan: %w", err)
	}

	return nil
}

func (r *RedisLoanCache) Delete(ctx context.Context, loanID string) error {
	if err := r.client.Del(ctx, r.loanKey(loanID)).Err(); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}

func (r *RedisLoanCache) loanKey(loanID string) string {
	return fmt.Sprintf("loan:%s", loanID)
}
