package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records repayment attempts and applies gateway
// settlements to loan balances. Settlement is idempotent per transaction
// reference: the gateway may deliver the same callback more than once.
type PaymentService struct {
	loanRepo       domain.LoanRepository
	paymentRepo    domain.PaymentRepository
	uow            domain.UnitOfWork
	eventPublisher domain.EventPublisher // Optional - can be nil
	clock          domain.Clock
	logger         *zap.Logger
}

func NewPaymentService(
	loanRepo domain.LoanRepository,
	paymentRepo domain.PaymentRepository,
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		loanRepo:       loanRepo,
		paymentRepo:    paymentRepo,
		uow:            uow,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

type CreatePaymentRequest struct {
	LoanID         string
	Amount         decimal.Decimal
	Method         domain.PaymentMethod
	TransactionRef string
}

func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	loan, err := s.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		s.logger.Warn("payment for unknown loan",
			zap.Error(err),
			zap.String("loan_id", req.LoanID),
		)
		return nil, err
	}

	exists, err := s.paymentRepo.ExistsByTransactionRef(ctx, req.TransactionRef)
	if err != nil {
		return nil, fmt.Errorf("failed to check payment existence: %w", err)
	}
	if exists {
		s.logger.Info("duplicate transaction reference rejected",
			zap.String("loan_id", req.LoanID),
			zap.String("tx_ref", req.TransactionRef),
		)
		return nil, domain.ErrDuplicateTransaction
	}

	payment, err := domain.NewPayment(req.LoanID, loan.UserID, req.Amount, req.Method, req.TransactionRef, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			return nil, domain.ErrDuplicateTransaction
		}
		s.logger.Error("failed to create payment",
			zap.Error(err),
			zap.String("loan_id", req.LoanID),
		)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("payment initiated",
		zap.String("payment_id", payment.ID),
		zap.String("loan_id", payment.LoanID),
		zap.String("amount", payment.Amount.String()),
		zap.String("tx_ref", payment.TransactionRef),
	)

	if s.eventPublisher != nil {
		go s.publish(domain.NewPaymentInitiatedEvent(payment))
	}

	return payment, nil
}

type SettlePaymentRequest struct {
	TransactionRef string
	Succeeded      bool
	ReceiptNumber  string
}

// SettlePayment handles the gateway's settlement callback. On success the
// payment transition and the loan balance update commit as one unit; a
// replayed reference is detected and ignored. The loan row is locked for
// the read-modify-write window so concurrent settlements against the same
// loan serialize.
func (s *PaymentService) SettlePayment(ctx context.Context, req SettlePaymentRequest) error {
	var (
		settled *domain.Payment
		loan    *domain.Loan
		replay  bool
	)

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		payment, err := tx.Payments().FindByTransactionRefForUpdate(ctx, req.TransactionRef)
		if err != nil {
			return err
		}

		if payment.IsSettled() {
			replay = true
			settled = payment
			return nil
		}

		if err := payment.Settle(req.Succeeded, req.ReceiptNumber, s.clock.Now()); err != nil {
			return err
		}

		if req.Succeeded {
			l, err := tx.Loans().FindByIDForUpdate(ctx, payment.LoanID)
			if err != nil {
				return err
			}
			if _, err := l.ApplyPayment(payment.Amount); err != nil {
				return err
			}
			if err := tx.Loans().Save(ctx, l); err != nil {
				return err
			}
			loan = l
		}

		if err := tx.Payments().Save(ctx, payment); err != nil {
			return err
		}
		settled = payment
		return nil
	})
	if err != nil {
		s.logger.Error("failed to settle payment",
			zap.Error(err),
			zap.String("tx_ref", req.TransactionRef),
		)
		return err
	}

	if replay {
		s.logger.Info("settlement replay ignored",
			zap.String("tx_ref", req.TransactionRef),
			zap.String("status", string(settled.Status)),
		)
		return nil
	}

	s.logger.Info("payment settled",
		zap.String("payment_id", settled.ID),
		zap.String("tx_ref", settled.TransactionRef),
		zap.Bool("succeeded", req.Succeeded),
	)

	if s.eventPublisher != nil {
		go s.publish(domain.NewPaymentSettledEvent(settled, loan, req.Succeeded))
	}

	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.paymentRepo.FindByID(ctx, id)
}

func (s *PaymentService) GetLoanPayments(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		s.logger.Error("failed to get loan",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, err
	}

	payments, err := s.paymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

func (s *PaymentService) publish(event domain.DomainEvent) {
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
