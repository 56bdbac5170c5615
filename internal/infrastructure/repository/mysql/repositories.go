package sqlrepository

import (
	"context"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	redisrepository "github.com/gigmile/device-financing/internal/infrastructure/repository/redis"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	Loan     domain.LoanRepository
	Schedule domain.ScheduleRepository
	Payment  domain.PaymentRepository
	Sale     domain.SaleRepository
	Device   domain.DeviceRepository
	Agent    domain.AgentRepository
	Shop     domain.ShopRepository
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	loanCache := redisrepository.NewRedisLoanCache(redisClient)
	paymentCache := redisrepository.NewRedisPaymentRepository(redisClient)

	return &Repositories{
		Loan:     NewLoanRepository(db, loanCache, logger),
		Schedule: NewScheduleRepository(db, logger),
		Payment:  NewPaymentRepository(db, paymentCache, logger),
		Sale:     NewSaleRepository(db, logger),
		Device:   NewDeviceRepository(db, logger),
		Agent:    NewAgentRepository(db, logger),
		Shop:     NewShopRepository(db, logger),
	}
}

// txRepositories binds every repository to one *gorm.DB transaction
// handle. Caches are disabled inside the transaction; uncommitted state
// must never reach Redis.
type txRepositories struct {
	loans    domain.LoanRepository
	payments domain.PaymentRepository
	sales    domain.SaleRepository
	devices  domain.DeviceRepository
	agents   domain.AgentRepository
}

func newTxRepositories(tx *gorm.DB, logger *zap.Logger) *txRepositories {
	return &txRepositories{
		loans:    NewLoanRepository(tx, nil, logger),
		payments: NewPaymentRepository(tx, nil, logger),
		sales:    NewSaleRepository(tx, logger),
		devices:  NewDeviceRepository(tx, logger),
		agents:   NewAgentRepository(tx, logger),
	}
}

func (t *txRepositories) Loans() domain.LoanRepository       { return t.loans }
func (t *txRepositories) Payments() domain.PaymentRepository { return t.payments }
func (t *txRepositories) Sales() domain.SaleRepository       { return t.sales }
func (t *txRepositories) Devices() domain.DeviceRepository   { return t.devices }
func (t *txRepositories) Agents() domain.AgentRepository     { return t.agents }

// GormUnitOfWork runs a function against transaction-bound repositories
// and commits only if it returns nil.
type GormUnitOfWork struct {
	db        *gorm.DB
	loanCache *redisrepository.RedisLoanCache
	logger    *zap.Logger
}

func NewUnitOfWork(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GormUnitOfWork {
	return &GormUnitOfWork{
		db:        db,
		loanCache: redisrepository.NewRedisLoanCache(redisClient),
		logger:    logger,
	}
}

func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(tx domain.TxRepositories) error) error {
	var touchedLoans []string

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := newTxRepositories(tx, u.logger)
		wrapped := &loanTrackingRepositories{txRepositories: repos, touched: &touchedLoans}
		return fn(wrapped)
	})
	if err != nil {
		return err
	}

	// Loans written inside the transaction bypassed the cache, so drop
	// any stale cached copies after commit.
	if u.loanCache != nil {
		for _, id := range touchedLoans {
			if cacheErr := u.loanCache.Delete(ctx, id); cacheErr != nil {
				u.logger.Warn("failed to invalidate loan cache after commit",
					zap.Error(cacheErr),
					zap.String("loan_id", id))
			}
		}
	}

	return nil
}

type loanTrackingRepositories struct {
	*txRepositories
	touched *[]string
}

func (t *loanTrackingRepositories) Loans() domain.LoanRepository {
	return &loanTrackingRepository{inner: t.txRepositories.loans, touched: t.touched}
}

type loanTrackingRepository struct {
	inner   domain.LoanRepository
	touched *[]string
}

func (r *loanTrackingRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return r.inner.Create(ctx, loan)
}

func (r *loanTrackingRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *loanTrackingRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	return r.inner.FindByIDForUpdate(ctx, id)
}

func (r *loanTrackingRepository) Save(ctx context.Context, loan *domain.Loan) error {
	if err := r.inner.Save(ctx, loan); err != nil {
		return err
	}
	*r.touched = append(*r.touched, loan.ID)
	return nil
}

func (r *loanTrackingRepository) FindDefaulted(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	return r.inner.FindDefaulted(ctx, asOf)
}
