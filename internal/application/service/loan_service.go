package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoanService owns the loan lifecycle: creation, approval, disbursement
// and early-repayment quoting. Schedule generation is delegated to the
// worker via a fire-and-forget event.
type LoanService struct {
	loanRepo       domain.LoanRepository
	scheduleRepo   domain.ScheduleRepository
	uow            domain.UnitOfWork
	eventPublisher domain.EventPublisher // Optional - can be nil
	clock          domain.Clock
	logger         *zap.Logger
}

func NewLoanService(
	loanRepo domain.LoanRepository,
	scheduleRepo domain.ScheduleRepository,
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:       loanRepo,
		scheduleRepo:   scheduleRepo,
		uow:            uow,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

type CreateLoanRequest struct {
	UserID       string
	DeviceID     string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
}

func (s *LoanService) CreateLoan(ctx context.Context, req CreateLoanRequest) (*domain.Loan, error) {
	loan, err := domain.NewLoan(req.UserID, req.DeviceID, req.Amount, req.InterestRate, req.TenureMonths, s.clock.Now())
	if err != nil {
		s.logger.Warn("rejected loan request",
			zap.Error(err),
			zap.String("user_id", req.UserID),
		)
		return nil, err
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		s.logger.Error("failed to create loan",
			zap.Error(err),
			zap.String("user_id", req.UserID),
		)
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.logger.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("user_id", loan.UserID),
		zap.String("amount", loan.Amount.String()),
		zap.Int("tenure_months", loan.TenureMonths),
	)

	if s.eventPublisher != nil {
		go s.publish(domain.NewScheduleRequestedEvent(loan))
	}

	return loan, nil
}

func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.loanRepo.FindByID(ctx, id)
}

func (s *LoanService) GetSchedule(ctx context.Context, loanID string) ([]*domain.LoanCharge, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.FindByLoanID(ctx, loanID)
}

func (s *LoanService) ApproveLoan(ctx context.Context, id string) (*domain.Loan, error) {
	var approved *domain.Loan

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		loan, err := tx.Loans().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := loan.Approve(s.clock.Now()); err != nil {
			return err
		}
		if err := tx.Loans().Save(ctx, loan); err != nil {
			return err
		}
		approved = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan approved", zap.String("loan_id", id))
	return approved, nil
}

// DisburseLoan releases an approved loan directly, outside the sale
// handshake (e.g. cash-backed loans with no device attached).
func (s *LoanService) DisburseLoan(ctx context.Context, id string) (*domain.Loan, error) {
	var disbursed *domain.Loan

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		loan, err := tx.Loans().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := loan.Disburse(s.clock.Now()); err != nil {
			return err
		}
		if err := tx.Loans().Save(ctx, loan); err != nil {
			return err
		}
		disbursed = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan disbursed",
		zap.String("loan_id", id),
		zap.Timep("due_date", disbursed.DueDate),
	)
	return disbursed, nil
}

type UpdateLoanRequest struct {
	UserID   *string
	DeviceID *string
}

// UpdateLoan edits non-lifecycle fields. Completed loans are immutable.
func (s *LoanService) UpdateLoan(ctx context.Context, id string, req UpdateLoanRequest) (*domain.Loan, error) {
	var updated *domain.Loan

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		loan, err := tx.Loans().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !loan.CanUpdate() {
			return domain.ErrLoanCompleted
		}
		if req.UserID != nil {
			loan.UserID = *req.UserID
		}
		if req.DeviceID != nil {
			loan.DeviceID = *req.DeviceID
		}
		if err := tx.Loans().Save(ctx, loan); err != nil {
			return err
		}
		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *LoanService) EarlyRepaymentQuote(ctx context.Context, id string) (*domain.EarlyRepaymentQuote, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote, err := loan.EarlyRepaymentQuote(s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("early repayment quoted",
		zap.String("loan_id", id),
		zap.String("total_amount", quote.TotalAmount.String()),
	)
	return quote, nil
}

func (s *LoanService) publish(event domain.DomainEvent) {
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
