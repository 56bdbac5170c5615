package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService runs the dual-party OTP handshake. Sale creation validates
// the loan and device preconditions; OTP verification performs the
// disbursement side effects (device sold, loan disbursed, commission
// accrued) atomically when the second party confirms.
type SaleService struct {
	saleRepo       domain.SaleRepository
	loanRepo       domain.LoanRepository
	deviceRepo     domain.DeviceRepository
	agentRepo      domain.AgentRepository
	shopRepo       domain.ShopRepository
	uow            domain.UnitOfWork
	eventPublisher domain.EventPublisher // Optional - can be nil
	clock          domain.Clock
	logger         *zap.Logger
}

func NewSaleService(
	saleRepo domain.SaleRepository,
	loanRepo domain.LoanRepository,
	deviceRepo domain.DeviceRepository,
	agentRepo domain.AgentRepository,
	shopRepo domain.ShopRepository,
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		loanRepo:       loanRepo,
		deviceRepo:     deviceRepo,
		agentRepo:      agentRepo,
		shopRepo:       shopRepo,
		uow:            uow,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// RegisterAgent onboards a sales agent with their commission rate.
func (s *SaleService) RegisterAgent(ctx context.Context, name, phone string, commissionRate decimal.Decimal) (*domain.Agent, error) {
	agent := domain.NewAgent(name, phone, commissionRate, s.clock.Now())
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to register agent: %w", err)
	}

	s.logger.Info("agent registered",
		zap.String("agent_id", agent.ID),
		zap.String("name", agent.Name),
		zap.String("commission_rate", agent.CommissionRate.String()),
	)
	return agent, nil
}

type CreateSaleRequest struct {
	LoanID        string
	AgentID       string
	ShopID        string
	DeviceIMEI    string
	DepositAmount decimal.Decimal
}

func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*domain.Sale, error) {
	loan, err := s.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusApproved {
		s.logger.Warn("sale against unapproved loan rejected",
			zap.String("loan_id", req.LoanID),
			zap.String("status", string(loan.Status)),
		)
		return nil, domain.ErrLoanNotApproved
	}

	device, err := s.deviceRepo.FindByIMEI(ctx, req.DeviceIMEI)
	if err != nil {
		return nil, err
	}
	if device.Status != domain.DeviceStatusAvailable {
		s.logger.Warn("sale against unavailable device rejected",
			zap.String("device_imei", req.DeviceIMEI),
			zap.String("status", string(device.Status)),
		)
		return nil, domain.ErrDeviceUnavailable
	}

	if _, err := s.agentRepo.FindByID(ctx, req.AgentID); err != nil {
		return nil, err
	}
	if req.ShopID != "" {
		if _, err := s.shopRepo.FindByID(ctx, req.ShopID); err != nil {
			return nil, err
		}
	}

	sale, err := domain.NewSale(req.LoanID, req.AgentID, req.ShopID, req.DeviceIMEI, req.DepositAmount, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		s.logger.Error("failed to create sale",
			zap.Error(err),
			zap.String("loan_id", req.LoanID),
		)
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID),
		zap.String("loan_id", sale.LoanID),
		zap.String("agent_id", sale.AgentID),
		zap.String("device_imei", sale.DeviceIMEI),
	)

	if s.eventPublisher != nil {
		go s.publish(domain.NewSaleCreatedEvent(sale))
	}

	return sale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.saleRepo.FindByID(ctx, id)
}

type VerifyOtpResult struct {
	Completed bool
}

// VerifyOtp records one party's confirmation. The call that leaves both
// parties confirmed commits the sale completion, the device sale, the
// loan disbursement and the agent commission as a single transaction:
// a failure in any step rolls back all of them.
func (s *SaleService) VerifyOtp(ctx context.Context, saleID, otp string) (*VerifyOtpResult, error) {
	var (
		sale       *domain.Sale
		commission decimal.Decimal
		completed  bool
	)

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		locked, err := tx.Sales().FindByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		done, err := locked.Confirm(otp, s.clock.Now())
		if err != nil {
			return err
		}

		if done {
			device, err := tx.Devices().FindByIMEIForUpdate(ctx, locked.DeviceIMEI)
			if err != nil {
				return err
			}
			if err := device.MarkSold(); err != nil {
				return err
			}
			if err := tx.Devices().Save(ctx, device); err != nil {
				return err
			}

			loan, err := tx.Loans().FindByIDForUpdate(ctx, locked.LoanID)
			if err != nil {
				return err
			}
			if err := loan.Disburse(s.clock.Now()); err != nil {
				return err
			}
			loan.DeviceID = device.ID
			if err := tx.Loans().Save(ctx, loan); err != nil {
				return err
			}

			agent, err := tx.Agents().FindByIDForUpdate(ctx, locked.AgentID)
			if err != nil {
				return err
			}
			commission = agent.AccrueCommission(locked.DepositAmount)
			if err := tx.Agents().Save(ctx, agent); err != nil {
				return err
			}
		}

		if err := tx.Sales().Save(ctx, locked); err != nil {
			return err
		}

		sale = locked
		completed = done
		return nil
	})
	if err != nil {
		s.logger.Warn("OTP verification failed",
			zap.Error(err),
			zap.String("sale_id", saleID),
		)
		return nil, err
	}

	if completed {
		s.logger.Info("sale completed",
			zap.String("sale_id", sale.ID),
			zap.String("loan_id", sale.LoanID),
			zap.String("commission", commission.String()),
		)
		if s.eventPublisher != nil {
			go s.publish(domain.NewSaleCompletedEvent(sale, commission))
		}
	} else {
		s.logger.Info("sale confirmation recorded",
			zap.String("sale_id", sale.ID),
			zap.Bool("customer_confirmed", sale.CustomerConfirmed),
			zap.Bool("agent_confirmed", sale.AgentConfirmed),
		)
	}

	return &VerifyOtpResult{Completed: completed}, nil
}

func (s *SaleService) publish(event domain.DomainEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
	}
}
