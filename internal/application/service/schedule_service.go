package service

import (
	"context"
	"fmt"

	"github.com/gigmile/device-financing/internal/domain"
	"go.uber.org/zap"
)

// ScheduleService generates amortization schedules off the request path.
// The worker runs it against loan.schedule_requested events.
type ScheduleService struct {
	loanRepo     domain.LoanRepository
	scheduleRepo domain.ScheduleRepository
	clock        domain.Clock
	logger       *zap.Logger
}

func NewScheduleService(
	loanRepo domain.LoanRepository,
	scheduleRepo domain.ScheduleRepository,
	clock domain.Clock,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		clock:        clock,
		logger:       logger,
	}
}

// HandleScheduleRequested builds and persists the period charges for a
// loan. Delivery is at-least-once, so the handler skips loans whose
// schedule already exists.
func (s *ScheduleService) HandleScheduleRequested(ctx context.Context, event domain.DomainEvent) error {
	scheduleEvent, ok := event.(*domain.ScheduleRequestedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	loanID := scheduleEvent.Payload.LoanID

	count, err := s.scheduleRepo.CountByLoanID(ctx, loanID)
	if err != nil {
		return fmt.Errorf("failed to check existing schedule: %w", err)
	}
	if count > 0 {
		s.logger.Info("schedule already generated, skipping",
			zap.String("loan_id", loanID),
			zap.Int64("existing_charges", count),
		)
		return nil
	}

	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return fmt.Errorf("failed to load loan for schedule: %w", err)
	}

	charges := domain.BuildSchedule(loan, s.clock.Now())
	if err := s.scheduleRepo.CreateCharges(ctx, charges); err != nil {
		return fmt.Errorf("failed to persist schedule: %w", err)
	}

	s.logger.Info("loan schedule generated",
		zap.String("loan_id", loanID),
		zap.Int("periods", len(charges)),
		zap.String("total", domain.ScheduleTotal(charges).String()),
	)
	return nil
}
