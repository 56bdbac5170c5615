package service

import (
	"context"
	"time"

	"github.com/gigmile/device-financing/internal/domain"
	"go.uber.org/zap"
)

// CollectionService drives the overdue-loan path: scanning for
// defaulters, initiating collections and requesting device locks.
// Side effects are enqueued fire-and-forget; an enqueue failure is
// logged but never reverts a lifecycle transition already decided.
type CollectionService struct {
	loanRepo       domain.LoanRepository
	deviceRepo     domain.DeviceRepository
	uow            domain.UnitOfWork
	eventPublisher domain.EventPublisher // Optional - can be nil
	clock          domain.Clock
	logger         *zap.Logger
}

func NewCollectionService(
	loanRepo domain.LoanRepository,
	deviceRepo domain.DeviceRepository,
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		loanRepo:       loanRepo,
		deviceRepo:     deviceRepo,
		uow:            uow,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// FindDefaultedLoans returns active loans whose due date has passed.
func (s *CollectionService) FindDefaultedLoans(ctx context.Context, asOf time.Time) ([]*domain.Loan, error) {
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}
	return s.loanRepo.FindDefaulted(ctx, asOf)
}

// InitiateCollection transitions the loan to DEFAULTED and then enqueues
// the external collection side effect. The transition commits first so
// the default stands regardless of enqueue outcome; an event published
// before commit could reach the worker for a loan still ACTIVE.
func (s *CollectionService) InitiateCollection(ctx context.Context, loanID string) error {
	var loan *domain.Loan

	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		l, err := tx.Loans().FindByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if err := l.MarkDefaulted(s.clock.Now()); err != nil {
			return err
		}
		if err := tx.Loans().Save(ctx, l); err != nil {
			return err
		}
		loan = l
		return nil
	})
	if err != nil {
		s.logger.Error("failed to initiate collection",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return err
	}

	s.logger.Info("collection initiated",
		zap.String("loan_id", loan.ID),
		zap.String("outstanding", loan.OutstandingAmount.String()),
	)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, domain.NewCollectionInitiatedEvent(loan)); err != nil {
			// Accepted inconsistency window: the default stands even when
			// the collection job could not be enqueued.
			s.logger.Error("failed to enqueue collection job",
				zap.Error(err),
				zap.String("loan_id", loan.ID),
			)
		}
	}

	return nil
}

// LockDevice enqueues a lock request for the loan's device. The device's
// lockStatus only changes when the device-management collaborator reports
// back through ReportDeviceLock.
func (s *CollectionService) LockDevice(ctx context.Context, loanID string) error {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.DeviceID == "" {
		return domain.ErrNoDeviceOnLoan
	}

	device, err := s.deviceRepo.FindByID(ctx, loan.DeviceID)
	if err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, domain.NewDeviceLockRequestedEvent(device, loan.ID)); err != nil {
			s.logger.Error("failed to enqueue device lock job",
				zap.Error(err),
				zap.String("loan_id", loanID),
				zap.String("imei", device.IMEI),
			)
			return err
		}
	}

	s.logger.Info("device lock requested",
		zap.String("loan_id", loanID),
		zap.String("imei", device.IMEI),
	)
	return nil
}

// ReportDeviceLock is the completion callback from the device-management
// collaborator; it is the only place lockStatus flips.
func (s *CollectionService) ReportDeviceLock(ctx context.Context, imei string, locked bool) error {
	err := s.uow.Execute(ctx, func(tx domain.TxRepositories) error {
		device, err := tx.Devices().FindByIMEIForUpdate(ctx, imei)
		if err != nil {
			return err
		}
		device.SetLockStatus(locked)
		return tx.Devices().Save(ctx, device)
	})
	if err != nil {
		s.logger.Error("failed to record device lock status",
			zap.Error(err),
			zap.String("imei", imei),
		)
		return err
	}

	s.logger.Info("device lock status recorded",
		zap.String("imei", imei),
		zap.Bool("locked", locked),
	)
	return nil
}
